// Package migrations embeds the goose migration files for the local
// designs database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
