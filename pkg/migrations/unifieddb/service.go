// Package unifieddb holds all the migrations for the unified reporting database
package unifieddb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the unified database
var Migrations = migrate.NewMigrations()
