// Package sqlite registers the SQLite dialector with the GORM adapter.
package sqlite

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm"
)

func init() {
	gormadapter.RegisterDialector("sqlite", func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		return sqlite.Open(DSN(cfg)), nil
	})
}

// DSN returns the database file path, or ":memory:" when none is set.
func DSN(c dbconfig.DatabaseConfig) string {
	if c.Database == "" {
		return ":memory:"
	}
	return c.Database
}
