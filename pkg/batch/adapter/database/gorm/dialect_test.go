package gorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dbconfig "github.com/tigerroll/windcapex/pkg/batch/adapter/database/config"
	gormadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm"
	gormmysql "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm/mysql"
	gormpostgres "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm/postgres"
	gormsqlite "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm/sqlite"
)

func TestDialectDSNs(t *testing.T) {
	pg := dbconfig.DatabaseConfig{Type: "postgres", Host: "db", Port: 5432, User: "u", Password: "p", Database: "capex"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=capex sslmode=disable", gormpostgres.DSN(pg))

	pg.Sslmode = "require"
	assert.Contains(t, gormpostgres.DSN(pg), "sslmode=require")

	my := dbconfig.DatabaseConfig{Type: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", Database: "capex"}
	dsn := gormmysql.DSN(my)
	assert.Contains(t, dsn, "u:p@tcp(db:3306)/capex?")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	assert.Equal(t, ":memory:", gormsqlite.DSN(dbconfig.DatabaseConfig{Type: "sqlite"}))
	assert.Equal(t, "/tmp/capex.db", gormsqlite.DSN(dbconfig.DatabaseConfig{Type: "sqlite", Database: "/tmp/capex.db"}))
}

func TestDialectsRegistered(t *testing.T) {
	for _, dbType := range []string{"postgres", "mysql", "sqlite"} {
		_, err := gormadapter.GetDialectorFactory(dbType)
		assert.NoError(t, err, dbType)
	}
}
