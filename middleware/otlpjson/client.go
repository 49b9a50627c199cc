package otlpjson

import (
	"net/http"
	"time"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/transcode"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Client returns an http.Client for an OTLP exporter whose requests to prefix
// are sent as OTLP/JSON.
//
// The transport chain is Transport -> [otelhttp] -> base. Export requests are
// never traced, since tracing them would feed spans back into the exporter.
func Client(shape transcode.Shape, prefix string, opts ...Option) *http.Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}

	base := o.base
	if base == nil {
		base = http.DefaultTransport
	}
	if o.meterProvider != nil {
		base = otelhttp.NewTransport(base,
			otelhttp.WithMeterProvider(o.meterProvider),
			otelhttp.WithTracerProvider(tracenoop.NewTracerProvider()),
			otelhttp.WithPropagators(propagation.NewCompositeTextMapPropagator()),
		)
	}

	return &http.Client{
		Transport: NewTransport(shape, prefix, base),
		Timeout:   o.timeout,
	}
}

// --- Options ---

type options struct {
	base          http.RoundTripper
	timeout       time.Duration
	meterProvider metric.MeterProvider
}

func defaultOptions() *options {
	return &options{}
}

// Option configures the exporter client.
type Option interface {
	apply(*options)
}

type baseOption struct{ rt http.RoundTripper }

func (b baseOption) apply(o *options) { o.base = b.rt }

// WithBase sets the transport requests are finally sent through.
func WithBase(rt http.RoundTripper) Option { return baseOption{rt: rt} }

type timeoutOption time.Duration

func (t timeoutOption) apply(o *options) { o.timeout = time.Duration(t) }

// WithTimeout sets the client timeout. The exporter's own timeout usually
// applies first.
func WithTimeout(d time.Duration) Option { return timeoutOption(d) }

type meterOption struct{ mp metric.MeterProvider }

func (m meterOption) apply(o *options) { o.meterProvider = m.mp }

// WithMeterProvider records HTTP client metrics for export requests.
func WithMeterProvider(mp metric.MeterProvider) Option { return meterOption{mp: mp} }
