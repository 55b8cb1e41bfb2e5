package gcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storageConfig "github.com/tigerroll/windcapex/pkg/batch/adapter/storage/config"
	coreConfig "github.com/tigerroll/windcapex/pkg/batch/core/config"
)

func TestParseURI(t *testing.T) {
	bucket, object, err := ParseURI("gs://capex-raw/wind/2024/q1.csv")
	require.NoError(t, err)
	assert.Equal(t, "capex-raw", bucket)
	assert.Equal(t, "wind/2024/q1.csv", object)

	bucket, object, err = ParseURI("gs://capex-raw")
	require.NoError(t, err)
	assert.Equal(t, "capex-raw", bucket)
	assert.Empty(t, object)

	_, _, err = ParseURI("s3://capex-raw/x.csv")
	assert.Error(t, err)
	_, _, err = ParseURI("gs:///x.csv")
	assert.Error(t, err)
}

func TestClientOptions(t *testing.T) {
	assert.Empty(t, ClientOptions(storageConfig.StorageConfig{Type: "gcs"}))
	assert.Len(t, ClientOptions(storageConfig.StorageConfig{Type: "gcs", CredentialsFile: "key.json"}), 1)
	assert.Len(t, ClientOptions(storageConfig.StorageConfig{Type: "gcs", Endpoint: "http://localhost:4443/storage/v1/"}), 2)
}

func TestGCSProvider_TypeMismatch(t *testing.T) {
	cfg := coreConfig.NewConfig()
	cfg.Windcapex.Adapter.Storage = map[string]interface{}{
		"exports": map[string]interface{}{"type": "local", "base_dir": t.TempDir()},
	}
	p := NewGCSProvider(cfg)
	_, err := p.GetConnection("exports")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type mismatch")
	assert.Equal(t, "gcs", p.Type())
	assert.NoError(t, p.CloseAll())
}
