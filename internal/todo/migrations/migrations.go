// Package migrations embeds the todo database schema migrations.
package migrations

import "embed"

// Files holds every *.up.sql migration, applied in lexical order.
//
//go:embed *.up.sql
var Files embed.FS
