// Package config holds storage connection settings.
package config

// StorageConfig holds configuration for a single storage connection.
type StorageConfig struct {
	Type            string `yaml:"type"`             // "local" or "gcs".
	BucketName      string `yaml:"bucket_name"`      // Default bucket when a call passes none.
	CredentialsFile string `yaml:"credentials_file"` // GCS service account key; empty uses Application Default Credentials.
	Endpoint        string `yaml:"endpoint"`         // GCS endpoint override (emulators).
	BaseDir         string `yaml:"base_dir"`         // Root directory for the local adapter.
}
