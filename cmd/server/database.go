package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/reitmaier/transcribe-api/internal/config"
)

const pingTimeout = 5 * time.Second

// newConnectBackOff paces connection attempts while Postgres starts up.
var newConnectBackOff = func(retries uint64) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	return backoff.WithMaxRetries(b, retries)
}

// setupAppDatabase opens the connection pool and waits until the database
// answers a ping.
func setupAppDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := waitForDatabase(ctx, db, cfg.ConnectRetries, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func waitForDatabase(ctx context.Context, db *sql.DB, retries uint64, logger *slog.Logger) error {
	attempt := 0
	ping := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		return db.PingContext(pingCtx)
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("database not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(newConnectBackOff(retries), ctx), notify); err != nil {
		return fmt.Errorf("failed to ping database after %d attempts: %w", attempt, err)
	}
	logger.Info("database connection established", slog.Int("attempts", attempt))
	return nil
}
