// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS contains the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
