// Package config provides the configuration structures of windcapex and their loader.
package config

import (
	"fmt"
	"strings"
	"time"
)

// EmbeddedConfig holds the content of the application YAML, typically embedded by main.go.
type EmbeddedConfig []byte

// LogLevel is a log level name as written in configuration.
type LogLevel string

const (
	LogLevelDebug  LogLevel = "DEBUG"
	LogLevelInfo   LogLevel = "INFO"
	LogLevelWarn   LogLevel = "WARN"
	LogLevelError  LogLevel = "ERROR"
	LogLevelSilent LogLevel = "SILENT"
)

// Sink types accepted by SinkConfig.Type.
const (
	SinkTypeCSV     = "csv"
	SinkTypeSQL     = "sql"
	SinkTypeParquet = "parquet"
)

// Duplicate-year policies accepted by PipelineConfig.RateDuplicatePolicy.
const (
	RatePolicyFirst = "first"
	RatePolicyLast  = "last"
)

// Metrics backends accepted by MetricsConfig.Backend.
const (
	MetricsBackendNone       = "none"
	MetricsBackendPrometheus = "prometheus"
	MetricsBackendOTel       = "otel"
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the logging level (e.g., "INFO", "DEBUG").
	Level string `yaml:"level"`
}

// SystemConfig holds system-wide settings.
type SystemConfig struct {
	// Timezone decides the run date used in output file names (e.g., "UTC", "America/Chicago").
	Timezone string        `yaml:"timezone"`
	Logging  LoggingConfig `yaml:"logging"`
}

// PipelineConfig controls which sources are ingested and how.
type PipelineConfig struct {
	// Sources are input identifiers: file paths, directories (every *.csv inside),
	// http(s) URLs or gs://bucket/object (a trailing slash lists a prefix).
	Sources []string `yaml:"sources"`
	// RatesSource identifies the exchange-rate CSV, with the same identifier forms as Sources.
	RatesSource string `yaml:"rates_source"`
	// RateDuplicatePolicy picks the entry kept when a year appears more than once ("first" or "last").
	RateDuplicatePolicy string `yaml:"rate_duplicate_policy"`
	// Deduplicate removes identical rows from the combined batch before writing.
	Deduplicate bool `yaml:"deduplicate"`
	// HTTPTimeoutSeconds bounds each remote fetch. Zero disables the timeout.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"`
	// HTTPRetries is the number of extra attempts after a transport error, 429 or 5xx response.
	HTTPRetries int `yaml:"http_retries"`
	// GCSStorageRef names an adapter.storage entry of type gcs used for gs:// identifiers.
	// When empty, a client with Application Default Credentials is created on first use.
	GCSStorageRef string `yaml:"gcs_storage_ref"`
}

// CSVSinkConfig configures the CSV destination.
type CSVSinkConfig struct {
	// OutputDir is the directory receiving "Wind Capex OUT <date>.csv".
	OutputDir string `yaml:"output_dir"`
}

// SQLSinkConfig configures the relational destination.
type SQLSinkConfig struct {
	// ConnectionString is a URL such as postgresql://user:pw@host:5432/db, mysql://user:pw@host:3306/db
	// or sqlite:///path/to/file.db. When empty, DatabaseRef names an entry under adapter.database.
	ConnectionString string `yaml:"connection_string"`
	DatabaseRef      string `yaml:"database_ref"`
	TableName        string `yaml:"table_name"`
	// BulkSize is the number of rows per INSERT statement.
	BulkSize int `yaml:"bulk_size"`
	// LogLevel is the GORM log level ("SILENT", "ERROR", "WARN", "INFO").
	LogLevel string `yaml:"log_level"`
}

// ParquetSinkConfig configures the Parquet export.
type ParquetSinkConfig struct {
	// StorageRef names an entry under adapter.storage.
	StorageRef      string `yaml:"storage_ref"`
	OutputBaseDir   string `yaml:"output_base_dir"`
	CompressionType string `yaml:"compression_type"`
}

// SinkConfig selects and configures the destination.
type SinkConfig struct {
	Type    string            `yaml:"type"`
	CSV     CSVSinkConfig     `yaml:"csv"`
	SQL     SQLSinkConfig     `yaml:"sql"`
	Parquet ParquetSinkConfig `yaml:"parquet"`
}

// MetricsConfig configures run metrics.
type MetricsConfig struct {
	// Backend is "none", "prometheus" or "otel".
	Backend string `yaml:"backend"`
	// TextfilePath, when set with the prometheus backend, receives the registry in text format after the run.
	TextfilePath string `yaml:"textfile_path"`
	// OTLPEndpoint and OTLPProtocol ("http" or "grpc") configure the otel backend exporter.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	OTLPProtocol string `yaml:"otlp_protocol"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Exporter is "otlphttp" or "otlpgrpc".
	Exporter    string `yaml:"exporter"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// AdapterConfig holds named adapter configurations, decoded lazily by each provider.
type AdapterConfig struct {
	Database map[string]interface{} `yaml:"database"`
	Storage  map[string]interface{} `yaml:"storage"`
}

// WindcapexConfig holds all configuration under the "windcapex" top-level key.
type WindcapexConfig struct {
	System   SystemConfig   `yaml:"system"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Sink     SinkConfig     `yaml:"sink"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Adapter  AdapterConfig  `yaml:"adapter"`
}

// Config is the root structure for the entire application configuration.
type Config struct {
	Windcapex WindcapexConfig `yaml:"windcapex"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Windcapex: WindcapexConfig{
			System: SystemConfig{
				Timezone: "UTC",
				Logging:  LoggingConfig{Level: "INFO"},
			},
			Pipeline: PipelineConfig{
				RateDuplicatePolicy: RatePolicyLast,
				Deduplicate:         true,
				HTTPTimeoutSeconds:  60,
				HTTPRetries:         2,
			},
			Sink: SinkConfig{
				Type: SinkTypeCSV,
				CSV:  CSVSinkConfig{OutputDir: "."},
				SQL: SQLSinkConfig{
					DatabaseRef: "sink",
					TableName:   "wind_capex_data",
					BulkSize:    500,
					LogLevel:    string(LogLevelSilent),
				},
				Parquet: ParquetSinkConfig{
					OutputBaseDir:   "wind_capex",
					CompressionType: "SNAPPY",
				},
			},
			Metrics: MetricsConfig{
				Backend:      MetricsBackendNone,
				OTLPProtocol: "http",
			},
			Tracing: TracingConfig{
				Exporter:    "otlphttp",
				Endpoint:    "localhost:4318",
				Insecure:    true,
				ServiceName: "windcapex",
			},
			Adapter: AdapterConfig{
				Database: map[string]interface{}{},
				Storage:  map[string]interface{}{},
			},
		},
	}
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	tz := c.Windcapex.System.Timezone
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", tz, err)
	}
	return loc, nil
}

// Validate checks enumerated settings and required combinations.
func (c *Config) Validate() error {
	w := c.Windcapex
	switch w.Sink.Type {
	case SinkTypeCSV:
		if w.Sink.CSV.OutputDir == "" {
			return fmt.Errorf("sink.csv.output_dir must not be empty")
		}
	case SinkTypeSQL:
		if w.Sink.SQL.ConnectionString == "" && w.Sink.SQL.DatabaseRef == "" {
			return fmt.Errorf("sink.sql requires connection_string or database_ref")
		}
		if w.Sink.SQL.TableName == "" {
			return fmt.Errorf("sink.sql.table_name must not be empty")
		}
		if w.Sink.SQL.BulkSize <= 0 {
			return fmt.Errorf("sink.sql.bulk_size must be positive, got %d", w.Sink.SQL.BulkSize)
		}
	case SinkTypeParquet:
		if w.Sink.Parquet.StorageRef == "" {
			return fmt.Errorf("sink.parquet.storage_ref must not be empty")
		}
	default:
		return fmt.Errorf("unknown sink type '%s' (expected csv, sql or parquet)", w.Sink.Type)
	}

	switch strings.ToLower(w.Pipeline.RateDuplicatePolicy) {
	case RatePolicyFirst, RatePolicyLast:
	default:
		return fmt.Errorf("unknown rate_duplicate_policy '%s' (expected first or last)", w.Pipeline.RateDuplicatePolicy)
	}

	switch w.Metrics.Backend {
	case MetricsBackendNone, MetricsBackendPrometheus, MetricsBackendOTel, "":
	default:
		return fmt.Errorf("unknown metrics backend '%s'", w.Metrics.Backend)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
