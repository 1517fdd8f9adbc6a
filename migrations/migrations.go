// Package migrations embeds the SQL schema migrations so the migrator
// binary ships a single artifact.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
