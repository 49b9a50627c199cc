// Package temporalgrpc instruments the gRPC connection between a Temporal
// client and the frontend service using OpenTelemetry.
//
// Long-poll RPCs issued by workers are skipped by default: each one blocks for
// up to a minute and would flood the traces stream with idle spans.
//
//	opts := client.Options{
//	    ConnectionOptions: client.ConnectionOptions{
//	        DialOptions: temporalgrpc.DialOptions(
//	            temporalgrpc.WithTracerProvider(tp),
//	        ),
//	    },
//	}
package temporalgrpc

import (
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/stats"
)

const workflowService = "/temporal.api.workflowservice.v1.WorkflowService/"

// LongPollMethods lists the frontend RPCs excluded by SkipLongPolls.
var LongPollMethods = []string{
	workflowService + "PollWorkflowTaskQueue",
	workflowService + "PollActivityTaskQueue",
	workflowService + "PollNexusTaskQueue",
	workflowService + "PollWorkflowExecutionUpdate",
}

// SkipLongPolls is the default filter. It reports false for the methods in
// LongPollMethods.
func SkipLongPolls(info *stats.RPCTagInfo) bool {
	if info == nil {
		return true
	}
	for _, m := range LongPollMethods {
		if strings.EqualFold(info.FullMethodName, m) {
			return false
		}
	}
	return true
}

// ClientHandler returns a stats.Handler for the Temporal client connection.
// Use with grpc.WithStatsHandler() when dialing.
func ClientHandler(opts ...Option) stats.Handler {
	o := defaultOptions()
	for _, opt := range opts {
		opt.apply(o)
	}

	otelOpts := []otelgrpc.Option{}
	if o.filter != nil {
		otelOpts = append(otelOpts, otelgrpc.WithFilter(o.filter))
	}
	if o.tracerProvider != nil {
		otelOpts = append(otelOpts, otelgrpc.WithTracerProvider(o.tracerProvider))
	}
	if o.meterProvider != nil {
		otelOpts = append(otelOpts, otelgrpc.WithMeterProvider(o.meterProvider))
	}

	return otelgrpc.NewClientHandler(otelOpts...)
}

// DialOptions wraps ClientHandler for client.ConnectionOptions.DialOptions.
func DialOptions(opts ...Option) []grpc.DialOption {
	return []grpc.DialOption{grpc.WithStatsHandler(ClientHandler(opts...))}
}

// --- Options ---

type options struct {
	filter         otelgrpc.Filter
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func defaultOptions() *options {
	return &options{filter: SkipLongPolls}
}

// Option configures gRPC instrumentation.
type Option interface {
	apply(*options)
}

type filterOption struct {
	filter otelgrpc.Filter
}

func (f filterOption) apply(o *options) { o.filter = f.filter }

// WithFilter replaces SkipLongPolls. Return false to skip the RPC; a nil
// filter instruments everything.
//
//	temporalgrpc.DialOptions(temporalgrpc.WithFilter(func(info *stats.RPCTagInfo) bool {
//	    return temporalgrpc.SkipLongPolls(info) &&
//	        !strings.HasSuffix(info.FullMethodName, "/GetSystemInfo")
//	}))
func WithFilter(filter otelgrpc.Filter) Option {
	return filterOption{filter: filter}
}

type tracerProviderOption struct {
	tp trace.TracerProvider
}

func (t tracerProviderOption) apply(o *options) { o.tracerProvider = t.tp }

// WithTracerProvider records spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return tracerProviderOption{tp: tp}
}

type meterProviderOption struct {
	mp metric.MeterProvider
}

func (m meterProviderOption) apply(o *options) { o.meterProvider = m.mp }

// WithMeterProvider records RPC metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return meterProviderOption{mp: mp}
}
