package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Admin     AdminConfig     `mapstructure:"admin" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage" validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel                 string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadHeaderTimeoutSeconds int    `mapstructure:"read_header_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL            string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns   int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns   int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnectRetries uint64 `mapstructure:"connect_retries"`
}

// AuthConfig contains the token signing and password hashing settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// PasswordSecret keys the stored password hash. Falls back to JWTSecret.
	PasswordSecret             string `mapstructure:"password_secret"`
	Audience                   string `mapstructure:"audience" validate:"required"`
	Issuer                     string `mapstructure:"issuer" validate:"required"`
	Realm                      string `mapstructure:"realm" validate:"required"`
	AccessTokenLifetimeMinutes int    `mapstructure:"access_token_lifetime_minutes" validate:"gt=0"`
}

// AccessTokenLifetime converts the configured lifetime to a duration.
func (a AuthConfig) AccessTokenLifetime() time.Duration {
	return time.Duration(a.AccessTokenLifetimeMinutes) * time.Minute
}

// PasswordKey is the HMAC key for stored passwords.
func (a AuthConfig) PasswordKey() string {
	if a.PasswordSecret != "" {
		return a.PasswordSecret
	}
	return a.JWTSecret
}

// AdminConfig holds the HTTP Basic credentials for the admin routes.
// PasswordHash is a bcrypt hash produced by cmd/hash-generator.
type AdminConfig struct {
	Username     string `mapstructure:"username" validate:"required"`
	PasswordHash string `mapstructure:"password_hash" validate:"required"`
}

// StorageConfig locates uploaded audio on local disk.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir" validate:"required"`
}

// RateLimitConfig throttles the unauthenticated auth endpoints per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=1"`
}
