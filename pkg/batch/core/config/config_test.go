package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/windcapex/pkg/batch/core/config"
	"github.com/tigerroll/windcapex/pkg/batch/support/util/exception"
)

const sampleYAML = `
windcapex:
  system:
    timezone: America/Chicago
    logging:
      level: DEBUG
  pipeline:
    sources:
      - ./data/raw
    rates_source: ${WINDCAPEX_TEST_RATES}
  sink:
    type: sql
    sql:
      connection_string: sqlite:///tmp/windcapex.db
  adapter:
    storage:
      exports:
        type: local
        base_dir: ./out
`

func TestNewConfig_Defaults(t *testing.T) {
	cfg := config.NewConfig()

	assert.Equal(t, "UTC", cfg.Windcapex.System.Timezone)
	assert.Equal(t, "INFO", cfg.Windcapex.System.Logging.Level)
	assert.Equal(t, config.SinkTypeCSV, cfg.Windcapex.Sink.Type)
	assert.Equal(t, "wind_capex_data", cfg.Windcapex.Sink.SQL.TableName)
	assert.Equal(t, 500, cfg.Windcapex.Sink.SQL.BulkSize)
	assert.Equal(t, config.RatePolicyLast, cfg.Windcapex.Pipeline.RateDuplicatePolicy)
	assert.True(t, cfg.Windcapex.Pipeline.Deduplicate)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_YAMLThenEnv(t *testing.T) {
	t.Setenv("WINDCAPEX_TEST_RATES", "https://example.com/rates.csv")
	t.Setenv("WINDCAPEX_SINK_SQL_BULK_SIZE", "250")
	t.Setenv("WINDCAPEX_PIPELINE_SOURCES", "a.csv, b.csv")
	t.Setenv("WINDCAPEX_ADAPTER_STORAGE_EXPORTS_BASE_DIR", "/var/exports")

	cfg, err := config.LoadConfig("testdata/does-not-exist.env", []byte(sampleYAML))
	require.NoError(t, err)

	w := cfg.Windcapex
	assert.Equal(t, "America/Chicago", w.System.Timezone)
	assert.Equal(t, "DEBUG", w.System.Logging.Level)
	assert.Equal(t, "https://example.com/rates.csv", w.Pipeline.RatesSource)
	assert.Equal(t, []string{"a.csv", "b.csv"}, w.Pipeline.Sources)
	assert.Equal(t, config.SinkTypeSQL, w.Sink.Type)
	assert.Equal(t, 250, w.Sink.SQL.BulkSize)
	assert.Equal(t, "wind_capex_data", w.Sink.SQL.TableName, "defaults survive partial YAML")

	exports, ok := w.Adapter.Storage["exports"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "local", exports["type"])
	assert.Equal(t, "/var/exports", exports["base_dir"])
}

func TestLoadConfig_InvalidSinkType(t *testing.T) {
	t.Setenv("WINDCAPEX_SINK_TYPE", "kafka")

	_, err := config.LoadConfig("testdata/does-not-exist.env", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, exception.ErrConfig)
	assert.Contains(t, err.Error(), "unknown sink type 'kafka'")
}

func TestValidate_RatePolicy(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Windcapex.Pipeline.RateDuplicatePolicy = "average"
	assert.ErrorContains(t, cfg.Validate(), "rate_duplicate_policy")
}
