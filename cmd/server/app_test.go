package main

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/cenkalti/backoff/v4"
	"github.com/reitmaier/transcribe-api/internal/config"
	"github.com/reitmaier/transcribe-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "debug", ReadHeaderTimeoutSeconds: 10},
		Database: config.DatabaseConfig{URL: "postgres://localhost/transcribe", MaxOpenConns: 1},
		Auth: config.AuthConfig{
			JWTSecret:                  "thisisaverylongsecretkeyforjwttokens",
			Audience:                   "transcribe-app",
			Issuer:                     "transcribe-api",
			Realm:                      "transcribe",
			AccessTokenLifetimeMinutes: 60,
		},
		Admin:     config.AdminConfig{Username: "admin", PasswordHash: string(hash)},
		Storage:   config.StorageConfig{DataDir: t.TempDir()},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1, Burst: 2},
	}
}

func newTestApp(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	app, err := newApplication(testConfig(t), logger.New(&bytes.Buffer{}, slog.LevelDebug), db)
	require.NoError(t, err)
	return app, mock
}

func TestNewApplicationRejectsPlainAdminPassword(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cfg := testConfig(t)
	cfg.Admin.PasswordHash = "secret"
	_, err = newApplication(cfg, slog.Default(), db)
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	app, mock := newTestApp(t)
	router := app.setupRouter()

	tests := []struct {
		name       string
		method     string
		target     string
		basic      bool
		wantStatus int
		wantBody   string
	}{
		{name: "health", method: http.MethodGet, target: "/health", wantStatus: http.StatusOK, wantBody: "OK"},
		{name: "ping needs a token", method: http.MethodGet, target: "/ping", wantStatus: http.StatusUnauthorized},
		{name: "tasks need a token", method: http.MethodGet, target: "/tasks/1", wantStatus: http.StatusUnauthorized},
		{name: "admin needs credentials", method: http.MethodGet, target: "/admin", wantStatus: http.StatusUnauthorized},
		{name: "status needs credentials", method: http.MethodGet, target: "/status/deployment/1",
			wantStatus: http.StatusUnauthorized},
		{name: "unknown route", method: http.MethodGet, target: "/cards", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}

	t.Run("admin greeting", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM settings")).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(2))

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.SetBasicAuth("admin", "secret")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Hello, admin!\nSchema version: 2", rec.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("metrics exposition", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `transcribe_http_requests_total{method="GET",route="/health",status="200"}`)
	})

	t.Run("auth routes are rate limited", func(t *testing.T) {
		var codes []int
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
			req.RemoteAddr = "198.51.100.7:4000"
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusBadRequest, http.StatusBadRequest, http.StatusTooManyRequests}, codes)
	})
}

func TestServeShutsDownOnCancel(t *testing.T) {
	app, mock := newTestApp(t)
	mock.ExpectClose()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- app.serve(ctx, app.newHTTPServer(app.setupRouter()), ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("server did not shut down")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWaitForDatabase(t *testing.T) {
	orig := newConnectBackOff
	newConnectBackOff = func(retries uint64) backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, retries)
	}
	t.Cleanup(func() { newConnectBackOff = orig })

	newPingDB := func(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
		return db, mock
	}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		db, mock := newPingDB(t)
		mock.ExpectPing().WillReturnError(assert.AnError)
		mock.ExpectPing().WillReturnError(assert.AnError)
		mock.ExpectPing()

		assert.NoError(t, waitForDatabase(context.Background(), db, 3, slog.Default()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("gives up after the configured retries", func(t *testing.T) {
		db, mock := newPingDB(t)
		for i := 0; i < 3; i++ {
			mock.ExpectPing().WillReturnError(assert.AnError)
		}

		err := waitForDatabase(context.Background(), db, 2, slog.Default())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 3 attempts")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSlogGooseLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &slogGooseLogger{logger: logger.New(&buf, slog.LevelInfo)}

	l.Printf("OK   %s (%s)\n", "00001_create_core_tables.sql", "12ms")
	l.Fatalf("failed to apply %d", 2)

	out := buf.String()
	assert.Contains(t, out, `"msg":"OK   00001_create_core_tables.sql (12ms)"`)
	assert.Contains(t, out, `"level":"ERROR"`)
}
