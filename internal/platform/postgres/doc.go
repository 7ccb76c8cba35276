// Package postgres implements the internal/store interfaces on PostgreSQL via
// database/sql and the pgx stdlib driver. Every insert returns its generated
// key with RETURNING id; nothing reads a "last inserted id" afterwards.
package postgres
