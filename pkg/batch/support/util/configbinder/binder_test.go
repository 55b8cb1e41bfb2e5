package configbinder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/windcapex/pkg/batch/support/util/configbinder"
)

type poolProps struct {
	MaxOpenConns int `yaml:"max_open_conns"`
}

type dbProps struct {
	Type string    `yaml:"type"`
	Port int       `yaml:"port"`
	Pool poolProps `yaml:"pool"`
}

func TestBindProperties_WeaklyTyped(t *testing.T) {
	var got dbProps
	err := configbinder.BindProperties(map[string]interface{}{
		"type": "postgres",
		"port": "5432",
		"pool": map[string]interface{}{"max_open_conns": 4},
	}, &got)

	require.NoError(t, err)
	assert.Equal(t, dbProps{Type: "postgres", Port: 5432, Pool: poolProps{MaxOpenConns: 4}}, got)
}

func TestBindNamed_Missing(t *testing.T) {
	var got dbProps
	err := configbinder.BindNamed(map[string]interface{}{}, "warehouse", &got)
	assert.ErrorContains(t, err, "configuration 'warehouse' not found")
}
