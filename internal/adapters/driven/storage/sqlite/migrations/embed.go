// Package migrations holds the numbered SQL scripts for the sqlite store.
// Only NNN_name.up.sql files are applied.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
