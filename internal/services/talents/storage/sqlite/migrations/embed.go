// Package migrations embeds the talents store schema.
package migrations

import "embed"

// FS holds the ordered SQL migrations.
//
//go:embed *.sql
var FS embed.FS
