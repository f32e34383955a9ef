// Package migrations embeds the goose SQL migrations for every SQL backend.
package migrations

import "embed"

// Postgres holds the account schema for PostgreSQL, under "postgres".
//
//go:embed postgres/*.sql
var Postgres embed.FS

// SQLite holds the account schema for SQLite, under "sqlite".
//
//go:embed sqlite/*.sql
var SQLite embed.FS

// Local holds the client state schema (remembered sessions), under "local".
//
//go:embed local/*.sql
var Local embed.FS
