// Package migrations embeds the versioned loyalty schema, one directory per driver.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
