package core

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/config"
	"github.com/JupiterMetaLabs/temporal-parseable/internal/envelope"
	"github.com/JupiterMetaLabs/temporal-parseable/internal/transcode"
	"github.com/JupiterMetaLabs/temporal-parseable/middleware/otlpjson"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// target is everything an exporter needs to reach Parseable for one signal.
type target struct {
	env      envelope.Envelope
	client   *http.Client // http protocol only
	endpoint string       // grpc protocol only
	insecure bool
	gzip     bool
}

func newTarget(cfg config.Config, signal envelope.Signal, opts SetupOptions) (target, error) {
	env, err := cfg.Envelope(signal)
	if err != nil {
		return target{}, err
	}
	t := target{env: env, gzip: cfg.Export.Compression == config.CompressionGzip}

	if cfg.Export.Protocol == config.ProtocolGRPC {
		t.endpoint, t.insecure, err = processEndpoint(cfg.Export.CollectorEndpoint, cfg.Export.Insecure)
		if err != nil {
			return target{}, fmt.Errorf("invalid collector endpoint: %w", err)
		}
		return t, nil
	}

	shape, err := transcode.ShapeFor(signal)
	if err != nil {
		return target{}, err
	}
	clientOpts := []otlpjson.Option{otlpjson.WithTimeout(cfg.Export.Timeout)}
	if opts.ClientMeterProvider != nil {
		clientOpts = append(clientOpts, otlpjson.WithMeterProvider(opts.ClientMeterProvider))
	}
	t.client = otlpjson.Client(shape, env.URL, clientOpts...)
	return t, nil
}

func (t target) grpc() bool { return t.client == nil }

func newTraceExporter(ctx context.Context, cfg config.Config, opts SetupOptions) (sdktrace.SpanExporter, error) {
	t, err := newTarget(cfg, envelope.Traces, opts)
	if err != nil {
		return nil, err
	}

	if t.grpc() {
		gopts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(t.endpoint),
			otlptracegrpc.WithHeaders(t.env.Headers),
		}
		if t.insecure {
			gopts = append(gopts,
				otlptracegrpc.WithInsecure(),
				otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			)
		}
		if t.gzip {
			gopts = append(gopts, otlptracegrpc.WithCompressor(config.CompressionGzip))
		}
		if cfg.Export.Timeout > 0 {
			gopts = append(gopts, otlptracegrpc.WithTimeout(cfg.Export.Timeout))
		}
		return otlptracegrpc.New(ctx, gopts...)
	}

	hopts := []otlptracehttp.Option{
		otlptracehttp.WithEndpointURL(t.env.URL),
		otlptracehttp.WithHeaders(t.env.Headers),
		otlptracehttp.WithHTTPClient(t.client),
	}
	if t.gzip {
		hopts = append(hopts, otlptracehttp.WithCompression(otlptracehttp.GzipCompression))
	}
	return otlptracehttp.New(ctx, hopts...)
}

func newLogExporter(ctx context.Context, cfg config.Config, opts SetupOptions) (sdklog.Exporter, error) {
	t, err := newTarget(cfg, envelope.Logs, opts)
	if err != nil {
		return nil, err
	}

	if t.grpc() {
		gopts := []otlploggrpc.Option{
			otlploggrpc.WithEndpoint(t.endpoint),
			otlploggrpc.WithHeaders(t.env.Headers),
		}
		if t.insecure {
			gopts = append(gopts,
				otlploggrpc.WithInsecure(),
				otlploggrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			)
		}
		if t.gzip {
			gopts = append(gopts, otlploggrpc.WithCompressor(config.CompressionGzip))
		}
		if cfg.Export.Timeout > 0 {
			gopts = append(gopts, otlploggrpc.WithTimeout(cfg.Export.Timeout))
		}
		return otlploggrpc.New(ctx, gopts...)
	}

	hopts := []otlploghttp.Option{
		otlploghttp.WithEndpointURL(t.env.URL),
		otlploghttp.WithHeaders(t.env.Headers),
		otlploghttp.WithHTTPClient(t.client),
	}
	if t.gzip {
		hopts = append(hopts, otlploghttp.WithCompression(otlploghttp.GzipCompression))
	}
	return otlploghttp.New(ctx, hopts...)
}

func newMetricExporter(ctx context.Context, cfg config.Config, opts SetupOptions) (sdkmetric.Exporter, error) {
	t, err := newTarget(cfg, envelope.Metrics, opts)
	if err != nil {
		return nil, err
	}

	if t.grpc() {
		gopts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(t.endpoint),
			otlpmetricgrpc.WithHeaders(t.env.Headers),
		}
		if t.insecure {
			gopts = append(gopts,
				otlpmetricgrpc.WithInsecure(),
				otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
			)
		}
		if t.gzip {
			gopts = append(gopts, otlpmetricgrpc.WithCompressor(config.CompressionGzip))
		}
		if cfg.Export.Timeout > 0 {
			gopts = append(gopts, otlpmetricgrpc.WithTimeout(cfg.Export.Timeout))
		}
		return otlpmetricgrpc.New(ctx, gopts...)
	}

	hopts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpointURL(t.env.URL),
		otlpmetrichttp.WithHeaders(t.env.Headers),
		otlpmetrichttp.WithHTTPClient(t.client),
	}
	if t.gzip {
		hopts = append(hopts, otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression))
	}
	return otlpmetrichttp.New(ctx, hopts...)
}
