// Package migrations embeds the goose SQL migrations for the ratings schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
