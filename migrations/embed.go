// Package migrations embeds SQL migration files into the binary.
//
// Migration files follow the naming convention:
//
//	YYYYMMDD_HHMMSS_description.up.sql
//	YYYYMMDD_HHMMSS_description.down.sql
//
// The init function registers the embedded filesystem with the database
// package so migrations apply automatically at startup.
package migrations

import (
	"embed"

	"github.com/alexdelprete/ha-sugar-valley-neopool/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
