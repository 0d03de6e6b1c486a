// Package migrations embeds the PostgreSQL schema migrations for the
// prediction history.
package migrations

import "embed"

// FS holds the numbered up and down migration files at its root.
//
//go:embed *.sql
var FS embed.FS
