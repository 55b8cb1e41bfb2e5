// Package mysql registers the MySQL dialector with the GORM adapter.
package mysql

import (
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm"
)

func init() {
	gormadapter.RegisterDialector("mysql", func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		return mysql.Open(DSN(cfg)), nil
	})
}

// DSN builds a go-sql-driver DSN. parseTime is always on so DATETIME columns scan into time.Time.
func DSN(c dbconfig.DatabaseConfig) string {
	dc := mysqldriver.NewConfig()
	dc.User = c.User
	dc.Passwd = c.Password
	dc.Net = "tcp"
	dc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	dc.DBName = c.Database
	dc.ParseTime = true
	dc.Params = map[string]string{"charset": "utf8mb4"}
	return dc.FormatDSN()
}
