// Package migrations embeds the schema of the local journal database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
