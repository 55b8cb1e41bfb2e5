// Package postgres registers the PostgreSQL dialector with the GORM adapter.
package postgres

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm"
)

func init() {
	gormadapter.RegisterDialector("postgres", func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		return postgres.Open(DSN(cfg)), nil
	})
}

// DSN builds the keyword/value connection string expected by gorm.io/driver/postgres.
func DSN(c dbconfig.DatabaseConfig) string {
	sslmode := c.Sslmode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, sslmode)
}
