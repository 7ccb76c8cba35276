package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/reitmaier/transcribe-api/internal/api/statuspage"
	"github.com/reitmaier/transcribe-api/internal/config"
	"github.com/reitmaier/transcribe-api/internal/platform/filestore"
	"github.com/reitmaier/transcribe-api/internal/platform/metrics"
	"github.com/reitmaier/transcribe-api/internal/platform/postgres"
	"github.com/reitmaier/transcribe-api/internal/service"
	"github.com/reitmaier/transcribe-api/internal/service/auth"
)

// application holds the shared dependencies of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	files   *filestore.Store
	metrics *metrics.Metrics
	page    *statuspage.Page

	userService       service.UserService
	taskService       service.TaskService
	deploymentService service.DeploymentService
	tokenService      auth.TokenService
	adminVerifier     *auth.AdminVerifier
}

// newApplication wires stores, services and auth from an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: metrics.New(),
	}

	var err error
	app.files, err = filestore.New(cfg.Storage.DataDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file store: %w", err)
	}

	app.page, err = statuspage.New()
	if err != nil {
		return nil, err
	}

	encryptor, err := auth.NewEncryptor(cfg.Auth.PasswordKey())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password encryptor: %w", err)
	}

	users := postgres.NewPostgresUserStore(db, logger)
	deployments := postgres.NewPostgresDeploymentStore(db, logger)

	app.userService = service.NewUserService(users, db, encryptor, logger)
	app.taskService = service.NewTaskService(
		db,
		postgres.NewPostgresTaskStore(db, logger),
		postgres.NewPostgresRequestStore(db, logger),
		postgres.NewPostgresTranscriptStore(db, logger),
		users,
		app.files,
		logger,
	)
	app.deploymentService = service.NewDeploymentService(deployments, deployments, logger)

	app.tokenService, err = auth.NewTokenService(cfg.Auth, app.userService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("token service initialized",
		slog.Int("access_token_lifetime_minutes", cfg.Auth.AccessTokenLifetimeMinutes))

	app.adminVerifier, err = auth.NewAdminVerifier(cfg.Admin.Username, cfg.Admin.PasswordHash, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize admin credentials: %w", err)
	}

	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
}
