package parseable

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/core"
	"github.com/JupiterMetaLabs/temporal-parseable/internal/envelope"
	"github.com/JupiterMetaLabs/temporal-parseable/middleware/activitymetrics"
	"github.com/JupiterMetaLabs/temporal-parseable/middleware/temporalgrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
	"go.temporal.io/sdk/worker"
	"google.golang.org/grpc"
)

// Name identifies the plugin in logs and instrumentation scopes.
const Name = "temporal-parseable"

// defaultShutdownTimeout bounds Run's final flush when Export.Timeout is unset.
const defaultShutdownTimeout = 10 * time.Second

// Plugin owns the telemetry pipeline of one Temporal process.
//
//	plugin, warnings, err := parseable.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range warnings {
//	    log.Printf("telemetry warning: %v", w)
//	}
//	defer plugin.Shutdown(context.Background())
type Plugin struct {
	cfg    Config
	logger *zapLogger

	tracerProvider *core.TracerProvider
	logProvider    *core.LogProvider
	meterProvider  *core.MeterProvider

	tracing        interceptor.Interceptor
	metricsHandler client.MetricsHandler
	activities     *activitymetrics.Interceptor
	dialOptions    []grpc.DialOption
}

// New validates cfg and builds a provider for every enabled signal, then the
// logger (bridged into the logs provider) and the Temporal integrations.
//
// Returns:
//   - *Plugin: always usable when err is nil
//   - []Warning: signals or integrations that could not be initialized and
//     were disabled
//   - error: invalid configuration or logger settings
func New(cfg Config) (*Plugin, []Warning, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	p := &Plugin{cfg: cfg}
	var warnings []Warning

	// Metrics first: the meter may instrument the other exporters' clients.
	mp, err := core.SetupMeterProvider(cfg, core.SetupOptions{})
	if err != nil {
		warnings = append(warnings, Warning{Component: "metrics", Err: fmt.Errorf("%w (metrics disabled)", err)})
	}
	p.meterProvider = mp

	setup := core.SetupOptions{}
	if cfg.Export.InstrumentClient && mp != nil {
		setup.ClientMeterProvider = mp.MeterProvider()
	}

	tp, err := core.SetupTracerProvider(cfg, setup)
	if err != nil {
		warnings = append(warnings, Warning{Component: "traces", Err: fmt.Errorf("%w (traces disabled)", err)})
	}
	p.tracerProvider = tp

	lp, err := core.SetupLogProvider(cfg, setup)
	if err != nil {
		warnings = append(warnings, Warning{Component: "logs", Err: fmt.Errorf("%w (logs disabled)", err)})
	}
	p.logProvider = lp

	zopts := core.ZapOptions{}
	if lp != nil {
		zopts.LoggerProvider = lp.LoggerProvider()
	}
	logger, err := newZapLogger(cfg, zopts)
	if err != nil {
		_ = p.shutdownProviders(context.Background())
		return nil, warnings, fmt.Errorf("create logger: %w", err)
	}
	p.logger = logger

	otel.SetErrorHandler(otel.ErrorHandlerFunc(func(err error) {
		p.logger.Named("otel").Warn(context.Background(), "telemetry export error", Err(err))
	}))

	if tp != nil {
		tracing, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
			Tracer: tp.Tracer(Name),
		})
		if err != nil {
			warnings = append(warnings, Warning{Component: "tracing", Err: err})
		} else {
			p.tracing = tracing
		}
	}

	if mp != nil {
		p.metricsHandler = temporalotel.NewMetricsHandler(temporalotel.MetricsHandlerOptions{
			Meter: mp.Meter("temporal-sdk"),
		})
		activities, err := activitymetrics.New(mp.Meter(Name))
		if err != nil {
			warnings = append(warnings, Warning{Component: "activity-metrics", Err: err})
		} else {
			p.activities = activities
		}
	}

	if cfg.Temporal.TraceGRPC && (tp != nil || mp != nil) {
		opts := []temporalgrpc.Option{
			temporalgrpc.WithTracerProvider(p.TracerProvider()),
			temporalgrpc.WithMeterProvider(p.MeterProvider()),
		}
		p.dialOptions = temporalgrpc.DialOptions(opts...)
	}

	p.logStartup()
	return p, warnings, nil
}

func (p *Plugin) logStartup() {
	ctx := context.Background()
	for _, signal := range []Signal{Traces, Logs, Metrics} {
		if !p.enabled(signal) {
			continue
		}
		endpoint, _ := p.cfg.Endpoint(signal)
		p.logger.Info(ctx, "telemetry signal enabled",
			String("signal", string(signal)),
			String("stream", p.cfg.Stream(signal)),
			String("endpoint", envelope.Redact(endpoint)),
		)
	}
	p.logger.Info(ctx, "telemetry pipeline ready",
		String("plugin", Name),
		Int("providers", p.ProviderCount()),
		String("protocol", p.cfg.Export.Protocol),
	)
}

func (p *Plugin) enabled(signal Signal) bool {
	switch signal {
	case Traces:
		return p.tracerProvider != nil
	case Logs:
		return p.logProvider != nil
	case Metrics:
		return p.meterProvider != nil
	}
	return false
}

// Name returns "temporal-parseable".
func (p *Plugin) Name() string { return Name }

// Config returns the configuration the plugin was built with.
func (p *Plugin) Config() Config { return p.cfg }

// ProviderCount returns the number of signals with a live provider.
func (p *Plugin) ProviderCount() int {
	n := 0
	for _, s := range []Signal{Traces, Logs, Metrics} {
		if p.enabled(s) {
			n++
		}
	}
	return n
}

// Logger returns the plugin logger.
func (p *Plugin) Logger() Logger { return p.logger }

// TracerProvider returns the traces provider, or a no-op provider when
// traces are disabled.
func (p *Plugin) TracerProvider() trace.TracerProvider {
	if p.tracerProvider == nil {
		return tracenoop.NewTracerProvider()
	}
	return p.tracerProvider.TracerProvider()
}

// Tracer returns a named tracer for creating spans.
func (p *Plugin) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return p.TracerProvider().Tracer(name, opts...)
}

// MeterProvider returns the metrics provider, or a no-op provider when
// metrics are disabled.
func (p *Plugin) MeterProvider() metric.MeterProvider {
	if p.meterProvider == nil {
		return metricnoop.NewMeterProvider()
	}
	return p.meterProvider.MeterProvider()
}

// Meter returns a named meter.
func (p *Plugin) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	return p.MeterProvider().Meter(name, opts...)
}

// ClientOptions fills opts with the plugin's Temporal integrations. Fields
// the caller already set are kept; interceptors and dial options are
// appended.
//
// Workers created from the resulting client inherit the tracing interceptor.
func (p *Plugin) ClientOptions(opts client.Options) client.Options {
	if opts.HostPort == "" {
		opts.HostPort = p.cfg.TemporalHost
	}
	if opts.Namespace == "" {
		opts.Namespace = p.cfg.TemporalNamespace
	}
	if opts.Logger == nil {
		opts.Logger = TemporalLogger(p.logger.Named("temporal"))
	}
	if opts.MetricsHandler == nil && p.metricsHandler != nil {
		opts.MetricsHandler = p.metricsHandler
	}
	if p.tracing != nil {
		opts.Interceptors = append(opts.Interceptors, p.tracing)
	}
	if len(p.dialOptions) > 0 {
		opts.ConnectionOptions.DialOptions = append(opts.ConnectionOptions.DialOptions, p.dialOptions...)
	}
	return opts
}

// WorkerOptions appends the activity metrics interceptor to opts.
func (p *Plugin) WorkerOptions(opts worker.Options) worker.Options {
	if p.activities != nil {
		opts.Interceptors = append(opts.Interceptors, p.activities)
	}
	return opts
}

// Run calls fn and shuts the plugin down when it returns, whatever the
// outcome.
func (p *Plugin) Run(ctx context.Context, fn func(context.Context) error) error {
	p.logger.Info(ctx, "starting telemetry pipeline", String("plugin", Name))
	runErr := fn(ctx)

	timeout := p.cfg.Export.Timeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return errors.Join(runErr, p.Shutdown(shutdownCtx))
}

// Shutdown flushes and stops every provider in order: traces, logs, metrics.
// A failing provider is logged and does not stop the others; all failures
// are joined into the returned error. The logger is synced last.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.logger.Info(ctx, "shutting down telemetry pipeline", Int("providers", p.ProviderCount()))
	err := p.shutdownProviders(ctx)
	return errors.Join(err, p.logger.Shutdown(ctx))
}

func (p *Plugin) shutdownProviders(ctx context.Context) error {
	steps := []struct {
		signal   Signal
		shutdown func(context.Context) error
	}{
		{Traces, p.tracerProvider.Shutdown},
		{Logs, p.logProvider.Shutdown},
		{Metrics, p.meterProvider.Shutdown},
	}

	var errs []error
	for _, s := range steps {
		if err := s.shutdown(ctx); err != nil {
			err = fmt.Errorf("shutdown %s provider: %w", s.signal, err)
			if p.logger != nil {
				p.logger.Error(ctx, "provider shutdown failed", err, String("signal", string(s.signal)))
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
