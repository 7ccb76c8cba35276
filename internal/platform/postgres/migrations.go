package postgres

import "embed"

// Migrations holds the goose SQL migrations, applied forward-only at startup.
// Each migration also bumps settings.version.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations passed to goose.
const MigrationsDir = "migrations"
