// Package migrations embeds the PostgreSQL schema of the export service.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
