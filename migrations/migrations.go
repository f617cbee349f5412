// Package migrations embeds the versioned schema so both the migrate command
// and the integration tests apply the same SQL.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS

// InitScript is the first up migration, used to seed test containers.
const InitScript = "001_init.up.sql"
