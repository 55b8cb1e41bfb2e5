package gorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gormadapter "github.com/tigerroll/windcapex/pkg/batch/adapter/database/gorm"
	"github.com/tigerroll/windcapex/pkg/batch/core/config"
)

func TestConnectionProvider_UnknownName(t *testing.T) {
	p := gormadapter.NewConnectionProvider(config.NewConfig())
	_, err := p.GetConnection("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
	assert.NoError(t, p.CloseAll())
}

func TestConnectionProvider_UnregisteredDialect(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Windcapex.Adapter.Database = map[string]interface{}{
		"sink": map[string]interface{}{"type": "oracle", "host": "db", "port": 1521, "database": "x"},
	}
	p := gormadapter.NewConnectionProvider(cfg)
	_, err := p.GetConnection("sink")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dialector registered")
	assert.NotContains(t, err.Error(), "password")
}
