package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/reitmaier/transcribe-api/internal/api"
	apiMiddleware "github.com/reitmaier/transcribe-api/internal/api/middleware"
)

// setupRouter registers every route. Public routes come first, then the
// bearer group for the app and the basic group for administrators.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(app.metrics.Instrument)

	authHandler := api.NewAuthHandler(app.userService, app.tokenService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.files, app.metrics, app.logger)
	adminHandler := api.NewAdminHandler(app.deploymentService, app.taskService, app.page, app.logger)
	bearer := apiMiddleware.NewAuthMiddleware(app.tokenService, app.userService, app.logger)
	limiter := apiMiddleware.NewRateLimiter(app.config.RateLimit.RequestsPerSecond, app.config.RateLimit.Burst)

	r.Get("/health", api.Health)
	r.Post("/error", api.ClientError)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
	})

	r.Group(func(r chi.Router) {
		r.Use(bearer.Authenticate)
		r.Get("/ping", api.Ping)

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Upload)
			r.Route("/{"+api.TaskIDParam+"}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Post("/transcripts", taskHandler.SubmitTranscripts)
				r.Get("/transcripts/latest", taskHandler.LatestTranscript)
				r.Post("/complete", taskHandler.Complete)
				r.Post("/reject", taskHandler.Reject)
				r.Get("/file", taskHandler.File)
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(apiMiddleware.BasicAuth(app.config.Auth.Realm, app.adminVerifier))
		r.Get("/admin", adminHandler.Hello)
		r.Get("/user/{"+api.UserIDParam+"}/task/{"+api.TaskIDParam+"}/file", adminHandler.UserTaskFile)
		r.Get("/status/deployment/{"+api.DeploymentIDParam+"}", adminHandler.DeploymentStatus)
	})

	return r
}
