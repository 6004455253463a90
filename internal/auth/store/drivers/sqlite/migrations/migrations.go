// Package migrations embeds the SQL migration files applied by the
// sqlite store driver.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
