// Package migrations holds the schema of the Postgres session-store backend.
// repo.Open applies it with goose on startup.
package migrations

import "embed"

// FS holds the *.sql goose migrations.
//
//go:embed *.sql
var FS embed.FS
