package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, so "url" is read
// from PARSEABLE_URL and "log.file.path" from PARSEABLE_LOG_FILE_PATH.
const EnvPrefix = "PARSEABLE"

// Load reads the configuration from defaults, an optional YAML file at path,
// and PARSEABLE_* environment variables, in increasing order of precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can resolve it on Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("url", d.URL)
	v.SetDefault("username", d.Username)
	v.SetDefault("password", d.Password)
	v.SetDefault("traces_stream", d.TracesStream)
	v.SetDefault("logs_stream", d.LogsStream)
	v.SetDefault("metrics_stream", d.MetricsStream)
	v.SetDefault("temporal_host", d.TemporalHost)
	v.SetDefault("temporal_namespace", d.TemporalNamespace)
	v.SetDefault("service_name", d.ServiceName)
	v.SetDefault("service_version", d.ServiceVersion)
	v.SetDefault("enable_traces", d.EnableTraces)
	v.SetDefault("enable_logs", d.EnableLogs)
	v.SetDefault("enable_metrics", d.EnableMetrics)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.color", d.Log.Color)
	v.SetDefault("log.errors_to_stderr", d.Log.ErrorsToStderr)
	v.SetDefault("log.otel_level", d.Log.OTELLevel)
	v.SetDefault("log.file.enabled", d.Log.File.Enabled)
	v.SetDefault("log.file.path", d.Log.File.Path)
	v.SetDefault("log.file.max_size_mb", d.Log.File.MaxSizeMB)
	v.SetDefault("log.file.max_age_days", d.Log.File.MaxAgeDays)
	v.SetDefault("log.file.max_backups", d.Log.File.MaxBackups)
	v.SetDefault("log.file.compress", d.Log.File.Compress)

	v.SetDefault("export.protocol", d.Export.Protocol)
	v.SetDefault("export.collector_endpoint", d.Export.CollectorEndpoint)
	v.SetDefault("export.insecure", d.Export.Insecure)
	v.SetDefault("export.timeout", d.Export.Timeout)
	v.SetDefault("export.compression", d.Export.Compression)
	v.SetDefault("export.batch_size", d.Export.BatchSize)
	v.SetDefault("export.export_interval", d.Export.ExportInterval)
	v.SetDefault("export.metrics_interval", d.Export.MetricsInterval)
	v.SetDefault("export.sampler", d.Export.Sampler)
	v.SetDefault("export.instrument_client", d.Export.InstrumentClient)

	v.SetDefault("temporal.trace_grpc", d.Temporal.TraceGRPC)
}

// Validate reports settings that would make every export fail.
func (c Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.URL)
	switch {
	case err != nil:
		// url.Error quotes the input, which may carry credentials.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		errs = append(errs, fmt.Errorf("url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("url: unsupported scheme %q", u.Scheme))
	case u.Host == "":
		errs = append(errs, errors.New("url: missing host"))
	}

	switch c.Export.Protocol {
	case ProtocolHTTP:
	case ProtocolGRPC:
		if c.Export.CollectorEndpoint == "" {
			errs = append(errs, errors.New("export.collector_endpoint: required with protocol grpc"))
		}
	default:
		errs = append(errs, fmt.Errorf("export.protocol: unsupported value %q", c.Export.Protocol))
	}

	switch c.Export.Compression {
	case "", CompressionNone, CompressionGzip:
	default:
		errs = append(errs, fmt.Errorf("export.compression: unsupported value %q", c.Export.Compression))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
