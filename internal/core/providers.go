package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// setupTimeout bounds exporter and resource construction.
const setupTimeout = 30 * time.Second

// TracerProvider wraps the SDK tracer provider.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
}

// Tracer returns a named tracer, or a no-op tracer on a nil provider.
func (tp *TracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if tp == nil || tp.provider == nil {
		return tracenoop.NewTracerProvider().Tracer(name, opts...)
	}
	return tp.provider.Tracer(name, opts...)
}

// TracerProvider returns the underlying provider, or nil.
func (tp *TracerProvider) TracerProvider() trace.TracerProvider {
	if tp == nil || tp.provider == nil {
		return nil
	}
	return tp.provider
}

// ForceFlush exports all ended spans.
func (tp *TracerProvider) ForceFlush(ctx context.Context) error {
	if tp == nil || tp.provider == nil {
		return nil
	}
	return tp.provider.ForceFlush(ctx)
}

// Shutdown flushes and stops the tracer provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp == nil || tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}

// LogProvider wraps the SDK logger provider.
type LogProvider struct {
	loggerProvider *sdklog.LoggerProvider
}

// LoggerProvider returns the underlying sdklog.LoggerProvider.
func (p *LogProvider) LoggerProvider() *sdklog.LoggerProvider {
	if p == nil {
		return nil
	}
	return p.loggerProvider
}

// ForceFlush exports all emitted records.
func (p *LogProvider) ForceFlush(ctx context.Context) error {
	if p == nil || p.loggerProvider == nil {
		return nil
	}
	return p.loggerProvider.ForceFlush(ctx)
}

// Shutdown flushes and stops the log provider.
func (p *LogProvider) Shutdown(ctx context.Context) error {
	if p == nil || p.loggerProvider == nil {
		return nil
	}
	return p.loggerProvider.Shutdown(ctx)
}

// MeterProvider wraps the SDK meter provider.
type MeterProvider struct {
	provider *sdkmetric.MeterProvider
}

// Meter returns a named meter, or a no-op meter on a nil provider.
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp == nil || mp.provider == nil {
		return metricnoop.NewMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// MeterProvider returns the underlying provider, or nil.
func (mp *MeterProvider) MeterProvider() metric.MeterProvider {
	if mp == nil || mp.provider == nil {
		return nil
	}
	return mp.provider
}

// ForceFlush collects and exports all metrics.
func (mp *MeterProvider) ForceFlush(ctx context.Context) error {
	if mp == nil || mp.provider == nil {
		return nil
	}
	return mp.provider.ForceFlush(ctx)
}

// Shutdown flushes and stops the meter provider.
func (mp *MeterProvider) Shutdown(ctx context.Context) error {
	if mp == nil || mp.provider == nil {
		return nil
	}
	return mp.provider.Shutdown(ctx)
}

// SetupOptions carries optional inputs shared by the Setup functions.
type SetupOptions struct {
	// ClientMeterProvider, when set, records HTTP client metrics for export
	// requests.
	ClientMeterProvider metric.MeterProvider
}

// SetupTracerProvider builds the traces pipeline and installs it, with the
// W3C propagators, as the global tracer provider. Returns nil when traces
// are disabled.
func SetupTracerProvider(cfg config.Config, opts SetupOptions) (*TracerProvider, error) {
	if !cfg.EnableTraces {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := newTraceExporter(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxExportBatchSize(batchSize(cfg)),
			sdktrace.WithBatchTimeout(exportInterval(cfg)),
			sdktrace.WithExportTimeout(cfg.Export.Timeout),
		),
		sdktrace.WithSampler(sdktrace.ParentBased(parseSampler(cfg.Export.Sampler))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{provider: tp}, nil
}

// SetupLogProvider builds the logs pipeline and installs it as the global
// logger provider. Returns nil when logs are disabled.
func SetupLogProvider(cfg config.Config, opts SetupOptions) (*LogProvider, error) {
	if !cfg.EnableLogs {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := newLogExporter(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("create log exporter: %w", err)
	}

	size := batchSize(cfg)
	processor := sdklog.NewBatchProcessor(exporter,
		sdklog.WithMaxQueueSize(size*4),
		sdklog.WithExportMaxBatchSize(size),
		sdklog.WithExportInterval(exportInterval(cfg)),
		sdklog.WithExportTimeout(cfg.Export.Timeout),
	)

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(processor),
	)
	global.SetLoggerProvider(provider)

	return &LogProvider{loggerProvider: provider}, nil
}

// SetupMeterProvider builds the metrics pipeline with a periodic reader.
// The provider is not installed globally; callers pass its meters explicitly.
// Returns nil when metrics are disabled.
func SetupMeterProvider(cfg config.Config, opts SetupOptions) (*MeterProvider, error) {
	if !cfg.EnableMetrics {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := newMetricExporter(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	interval := cfg.Export.MetricsInterval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	readerOpts := []sdkmetric.PeriodicReaderOption{sdkmetric.WithInterval(interval)}
	if cfg.Export.Timeout > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithTimeout(cfg.Export.Timeout))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
	)

	return &MeterProvider{provider: mp}, nil
}

// newResource describes this worker: service name and version, host and
// process details, and any configured extra attributes.
func newResource(ctx context.Context, cfg config.Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{semconv.ServiceName(cfg.ServiceName)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	for k, v := range cfg.Export.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithOS(),
		resource.WithProcessPID(),
		resource.WithProcessRuntimeName(),
		resource.WithProcessRuntimeVersion(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attrs...),
	)
	// Partial detection still yields a usable resource.
	if err != nil && !errors.Is(err, resource.ErrPartialResource) {
		return nil, fmt.Errorf("create resource: %w", err)
	}
	return res, nil
}

func batchSize(cfg config.Config) int {
	if cfg.Export.BatchSize <= 0 {
		return 512
	}
	return cfg.Export.BatchSize
}

func exportInterval(cfg config.Config) time.Duration {
	if cfg.Export.ExportInterval <= 0 {
		return 5 * time.Second
	}
	return cfg.Export.ExportInterval
}

func parseSampler(s string) sdktrace.Sampler {
	switch {
	case s == "" || s == "always":
		return sdktrace.AlwaysSample()
	case s == "never":
		return sdktrace.NeverSample()
	case strings.HasPrefix(s, "ratio:"):
		ratio, err := strconv.ParseFloat(strings.TrimPrefix(s, "ratio:"), 64)
		if err != nil {
			return sdktrace.AlwaysSample()
		}
		return sdktrace.TraceIDRatioBased(ratio)
	default:
		return sdktrace.AlwaysSample()
	}
}
