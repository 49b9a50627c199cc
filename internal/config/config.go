// Package config holds the bridge configuration and its loader.
package config

import (
	"time"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/envelope"
	"go.uber.org/zap/zapcore"
)

// Config holds the complete bridge configuration.
type Config struct {
	// URL is the Parseable base URL. Default: "http://localhost:8000"
	URL string `mapstructure:"url" yaml:"url" json:"url"`

	// Username and Password authenticate every export request with HTTP
	// Basic auth. Default: "admin" / "admin"
	Username string `mapstructure:"username" yaml:"username" json:"username"`
	Password string `mapstructure:"password" yaml:"password" json:"-"`

	// Stream names, one per signal.
	TracesStream  string `mapstructure:"traces_stream" yaml:"traces_stream" json:"traces_stream"`
	LogsStream    string `mapstructure:"logs_stream" yaml:"logs_stream" json:"logs_stream"`
	MetricsStream string `mapstructure:"metrics_stream" yaml:"metrics_stream" json:"metrics_stream"`

	// TemporalHost is the Temporal frontend address. Default: "localhost:7233"
	TemporalHost string `mapstructure:"temporal_host" yaml:"temporal_host" json:"temporal_host"`

	// TemporalNamespace. Default: "default"
	TemporalNamespace string `mapstructure:"temporal_namespace" yaml:"temporal_namespace" json:"temporal_namespace"`

	// ServiceName becomes the service.name resource attribute.
	// Default: "temporal-worker"
	ServiceName    string `mapstructure:"service_name" yaml:"service_name" json:"service_name"`
	ServiceVersion string `mapstructure:"service_version" yaml:"service_version" json:"service_version"`

	// Per-signal switches. Default: all true
	EnableTraces  bool `mapstructure:"enable_traces" yaml:"enable_traces" json:"enable_traces"`
	EnableLogs    bool `mapstructure:"enable_logs" yaml:"enable_logs" json:"enable_logs"`
	EnableMetrics bool `mapstructure:"enable_metrics" yaml:"enable_metrics" json:"enable_metrics"`

	Log      LogConfig      `mapstructure:"log" yaml:"log" json:"log"`
	Export   ExportConfig   `mapstructure:"export" yaml:"export" json:"export"`
	Temporal TemporalConfig `mapstructure:"temporal" yaml:"temporal" json:"temporal"`
}

// LogConfig configures the local logger.
type LogConfig struct {
	// Level sets the minimum log level: debug, info, warn, error.
	// Default: "info"
	Level string `mapstructure:"level" yaml:"level" json:"level"`

	// Format: "json", "pretty" or "systemd".
	// Default: "json" (production), "pretty" (development)
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// Development adds caller information and error stack traces.
	Development bool `mapstructure:"development" yaml:"development" json:"development"`

	// Color enables ANSI colors in pretty format.
	Color bool `mapstructure:"color" yaml:"color" json:"color"`

	// ErrorsToStderr sends warn and above to stderr, the rest to stdout.
	ErrorsToStderr bool `mapstructure:"errors_to_stderr" yaml:"errors_to_stderr" json:"errors_to_stderr"`

	// OTELLevel raises the minimum level shipped to the logs stream above
	// Level. Empty means Level.
	OTELLevel string `mapstructure:"otel_level" yaml:"otel_level" json:"otel_level"`

	File FileConfig `mapstructure:"file" yaml:"file" json:"file"`
}

// FileConfig configures file output with rotation.
type FileConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" json:"path"`

	// MaxSizeMB is the maximum size in MB before rotation. Default: 100
	MaxSizeMB int `mapstructure:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`

	// MaxAgeDays is the maximum age in days to retain old logs. Default: 7
	MaxAgeDays int `mapstructure:"max_age_days" yaml:"max_age_days" json:"max_age_days"`

	// MaxBackups is the maximum number of old log files to keep. Default: 5
	MaxBackups int `mapstructure:"max_backups" yaml:"max_backups" json:"max_backups"`

	// Compress enables gzip compression of rotated log files. Default: true
	Compress bool `mapstructure:"compress" yaml:"compress" json:"compress"`
}

// ExportConfig tunes the OTLP exporters.
type ExportConfig struct {
	// Protocol: "http" ships directly to Parseable as OTLP/JSON, "grpc" ships
	// to an OpenTelemetry collector at CollectorEndpoint.
	// Default: "http"
	Protocol string `mapstructure:"protocol" yaml:"protocol" json:"protocol"`

	// CollectorEndpoint is the gRPC collector address, used with Protocol "grpc".
	// Examples: "localhost:4317", "https://otel.example.com"
	CollectorEndpoint string `mapstructure:"collector_endpoint" yaml:"collector_endpoint" json:"collector_endpoint"`

	// Insecure disables TLS for the collector connection.
	Insecure bool `mapstructure:"insecure" yaml:"insecure" json:"insecure"`

	// Timeout bounds a single export request. Default: 10s
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`

	// Compression: "none" or "gzip". Default: "none"
	Compression string `mapstructure:"compression" yaml:"compression" json:"compression"`

	// BatchSize is the number of spans or records per export batch. Default: 512
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size" json:"batch_size"`

	// ExportInterval is how often batched spans and records are flushed.
	// Default: 5s
	ExportInterval time.Duration `mapstructure:"export_interval" yaml:"export_interval" json:"export_interval"`

	// MetricsInterval is the periodic metric reader interval. Default: 10s
	MetricsInterval time.Duration `mapstructure:"metrics_interval" yaml:"metrics_interval" json:"metrics_interval"`

	// Sampler: "always", "never" or "ratio:<0..1>". Default: "always"
	Sampler string `mapstructure:"sampler" yaml:"sampler" json:"sampler"`

	// InstrumentClient records HTTP client metrics for export requests.
	InstrumentClient bool `mapstructure:"instrument_client" yaml:"instrument_client" json:"instrument_client"`

	// Attributes are additional resource attributes. Keys must not contain
	// dots when set from a file, since the loader nests dotted keys.
	// Example: {"team": "payments"}
	Attributes map[string]string `mapstructure:"attributes" yaml:"attributes" json:"attributes"`
}

// TemporalConfig configures the Temporal client integration.
type TemporalConfig struct {
	// TraceGRPC adds otelgrpc instrumentation to the client connection.
	TraceGRPC bool `mapstructure:"trace_grpc" yaml:"trace_grpc" json:"trace_grpc"`
}

// Protocols and compressions accepted by ExportConfig.
const (
	ProtocolHTTP = "http"
	ProtocolGRPC = "grpc"

	CompressionNone = "none"
	CompressionGzip = "gzip"
)

// Default returns a Config with the documented defaults.
func Default() Config {
	return Config{
		URL:               "http://localhost:8000",
		Username:          "admin",
		Password:          "admin",
		TracesStream:      "temporal-traces",
		LogsStream:        "temporal-logs",
		MetricsStream:     "temporal-metrics",
		TemporalHost:      "localhost:7233",
		TemporalNamespace: "default",
		ServiceName:       "temporal-worker",
		EnableTraces:      true,
		EnableLogs:        true,
		EnableMetrics:     true,
		Log: LogConfig{
			Level:          "info",
			Format:         "json",
			Color:          true,
			ErrorsToStderr: true,
			File: FileConfig{
				MaxSizeMB:  100,
				MaxAgeDays: 7,
				MaxBackups: 5,
				Compress:   true,
			},
		},
		Export: ExportConfig{
			Protocol:        ProtocolHTTP,
			Timeout:         10 * time.Second,
			Compression:     CompressionNone,
			BatchSize:       512,
			ExportInterval:  5 * time.Second,
			MetricsInterval: 10 * time.Second,
			Sampler:         "always",
		},
	}
}

// Development returns a Config for local work against a Parseable container.
func Development() Config {
	cfg := Default()
	cfg.Log.Level = "debug"
	cfg.Log.Development = true
	cfg.Log.Format = "pretty"
	return cfg
}

// WithService returns a copy of the config with the specified service name.
func (c Config) WithService(name string) Config {
	c.ServiceName = name
	return c
}

// WithLevel returns a copy of the config with the specified log level.
func (c Config) WithLevel(level string) Config {
	c.Log.Level = level
	return c
}

// WithFile returns a copy of the config with file logging enabled.
func (c Config) WithFile(path string) Config {
	c.Log.File.Enabled = true
	c.Log.File.Path = path
	return c
}

// WithSignals returns a copy of the config with only the given signals enabled.
func (c Config) WithSignals(signals ...envelope.Signal) Config {
	c.EnableTraces, c.EnableLogs, c.EnableMetrics = false, false, false
	for _, s := range signals {
		switch s {
		case envelope.Traces:
			c.EnableTraces = true
		case envelope.Logs:
			c.EnableLogs = true
		case envelope.Metrics:
			c.EnableMetrics = true
		}
	}
	return c
}

// Profile returns the connection profile shared by all signals.
func (c Config) Profile() envelope.Profile {
	return envelope.Profile{BaseURL: c.URL, Username: c.Username, Password: c.Password}
}

// Stream returns the stream name configured for signal, or "" if none.
func (c Config) Stream(signal envelope.Signal) string {
	switch signal {
	case envelope.Traces:
		return c.TracesStream
	case envelope.Logs:
		return c.LogsStream
	case envelope.Metrics:
		return c.MetricsStream
	default:
		return ""
	}
}

// Enabled reports whether signal is switched on.
func (c Config) Enabled(signal envelope.Signal) bool {
	switch signal {
	case envelope.Traces:
		return c.EnableTraces
	case envelope.Logs:
		return c.EnableLogs
	case envelope.Metrics:
		return c.EnableMetrics
	default:
		return false
	}
}

// Envelope builds the export envelope for signal.
func (c Config) Envelope(signal envelope.Signal) (envelope.Envelope, error) {
	return envelope.Build(c.Profile(), c.Stream(signal), signal)
}

// Endpoint returns the Parseable OTLP endpoint URL for signal.
func (c Config) Endpoint(signal envelope.Signal) (string, error) {
	env, err := c.Envelope(signal)
	if err != nil {
		return "", err
	}
	return env.URL, nil
}

// HeadersForSignal returns the export headers for stream and signal.
func (c Config) HeadersForSignal(stream string, signal envelope.Signal) (map[string]string, error) {
	env, err := envelope.Build(c.Profile(), stream, signal)
	if err != nil {
		return nil, err
	}
	return env.Headers, nil
}

// MarshalLogObject implements zapcore.ObjectMarshaler. The password is never
// written.
func (c Config) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("url", envelope.Redact(c.URL))
	enc.AddString("username", c.Username)
	enc.AddString("traces_stream", c.TracesStream)
	enc.AddString("logs_stream", c.LogsStream)
	enc.AddString("metrics_stream", c.MetricsStream)
	enc.AddString("temporal_host", c.TemporalHost)
	enc.AddString("temporal_namespace", c.TemporalNamespace)
	enc.AddString("service_name", c.ServiceName)
	if c.ServiceVersion != "" {
		enc.AddString("service_version", c.ServiceVersion)
	}
	enc.AddBool("enable_traces", c.EnableTraces)
	enc.AddBool("enable_logs", c.EnableLogs)
	enc.AddBool("enable_metrics", c.EnableMetrics)
	enc.AddString("export_protocol", c.Export.Protocol)
	if c.Export.Protocol == ProtocolGRPC {
		enc.AddString("collector_endpoint", c.Export.CollectorEndpoint)
	}
	return nil
}
