package otlpjson

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/envelope"
	"github.com/JupiterMetaLabs/temporal-parseable/internal/transcode"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/pdata/plog/plogotlp"
	"go.opentelemetry.io/collector/pdata/pmetric/pmetricotlp"
	"go.opentelemetry.io/collector/pdata/ptrace/ptraceotlp"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// received is one request as seen by the fake Parseable server.
type received struct {
	path    string
	headers http.Header
	body    []byte
}

// parseable starts a server that accepts every request with 200 and an empty
// body, and reports what it got on the returned channel.
func parseable(t *testing.T) (*httptest.Server, <-chan received) {
	t.Helper()
	ch := make(chan received, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rd io.Reader = r.Body
		if r.Header.Get("Content-Encoding") == "gzip" {
			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer zr.Close()
			rd = zr
		}
		body, err := io.ReadAll(rd)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		select {
		case ch <- received{path: r.URL.Path, headers: r.Header.Clone(), body: body}:
		default:
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func next(t *testing.T, ch <-chan received) received {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no export request reached the server")
		return received{}
	}
}

var (
	hexTraceID = regexp.MustCompile(`^[0-9a-f]{32}$`)
	hexSpanID  = regexp.MustCompile(`^[0-9a-f]{16}$`)
)

// identifiers collects every traceId/spanId/parentSpanId value in a document.
func identifiers(doc any, out map[string][]string) {
	switch v := doc.(type) {
	case map[string]any:
		for k, val := range v {
			if s, ok := val.(string); ok && transcode.IsIdentifierKey(k) {
				out[k] = append(out[k], s)
				continue
			}
			identifiers(val, out)
		}
	case []any:
		for _, item := range v {
			identifiers(item, out)
		}
	}
}

func assertHexIdentifiers(t *testing.T, body []byte) map[string][]string {
	t.Helper()
	var doc any
	require.NoError(t, json.Unmarshal(body, &doc))
	ids := map[string][]string{}
	identifiers(doc, ids)
	for _, v := range ids["traceId"] {
		assert.Regexp(t, hexTraceID, v)
	}
	for _, v := range append(ids["spanId"], ids["parentSpanId"]...) {
		assert.Regexp(t, hexSpanID, v)
	}
	return ids
}

func assertEnvelope(t *testing.T, got received, env envelope.Envelope, signal envelope.Signal) {
	t.Helper()
	assert.Equal(t, "/v1/"+string(signal), got.path)
	assert.Equal(t, ContentTypeJSON, got.headers.Get("Content-Type"))
	for k, v := range env.Headers {
		assert.Equal(t, v, got.headers.Get(k), "header %s", k)
	}
}

func profile(srv *httptest.Server) envelope.Profile {
	return envelope.Profile{BaseURL: srv.URL, Username: "admin", Password: "admin"}
}

func TestExporter_Traces(t *testing.T) {
	for _, compression := range []otlptracehttp.Compression{otlptracehttp.NoCompression, otlptracehttp.GzipCompression} {
		srv, ch := parseable(t)
		env, err := envelope.Build(profile(srv), "temporal-traces", envelope.Traces)
		require.NoError(t, err)

		ctx := context.Background()
		exp, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpointURL(env.URL),
			otlptracehttp.WithHeaders(env.Headers),
			otlptracehttp.WithCompression(compression),
			otlptracehttp.WithHTTPClient(Client(transcode.TraceRequest, env.URL)),
		)
		require.NoError(t, err)

		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
		parentCtx, parent := tp.Tracer("test").Start(ctx, "RunWorkflow:GreetingWorkflow")
		_, child := tp.Tracer("test").Start(parentCtx, "RunActivity:Greet")
		child.End()

		got := next(t, ch)
		parent.End()
		require.NoError(t, tp.Shutdown(ctx))

		assertEnvelope(t, got, env, envelope.Traces)
		ids := assertHexIdentifiers(t, got.body)
		assert.Contains(t, ids["traceId"], child.SpanContext().TraceID().String())
		assert.Contains(t, ids["spanId"], child.SpanContext().SpanID().String())
		assert.Contains(t, ids["parentSpanId"], parent.SpanContext().SpanID().String())

		req := ptraceotlp.NewExportRequest()
		require.NoError(t, req.UnmarshalJSON(got.body))
		assert.Equal(t, 1, req.Traces().SpanCount())
		span := req.Traces().ResourceSpans().At(0).ScopeSpans().At(0).Spans().At(0)
		assert.Equal(t, child.SpanContext().TraceID().String(), span.TraceID().String())
	}
}

func TestExporter_Logs(t *testing.T) {
	srv, ch := parseable(t)
	env, err := envelope.Build(profile(srv), "temporal-logs", envelope.Logs)
	require.NoError(t, err)

	ctx := context.Background()
	exp, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(env.URL),
		otlploghttp.WithHeaders(env.Headers),
		otlploghttp.WithHTTPClient(Client(transcode.LogsRequest, env.URL)),
	)
	require.NoError(t, err)
	lp := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exp)))

	tp := sdktrace.NewTracerProvider()
	spanCtx, span := tp.Tracer("test").Start(ctx, "RunActivity:Greet")

	var rec otellog.Record
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetBody(otellog.StringValue("Greeting Zoë"))
	lp.Logger("temporal-worker").Emit(spanCtx, rec)
	span.End()

	got := next(t, ch)
	require.NoError(t, lp.Shutdown(ctx))

	assertEnvelope(t, got, env, envelope.Logs)
	assert.Equal(t, "otel-logs", got.headers.Get(envelope.HeaderLogSource))
	ids := assertHexIdentifiers(t, got.body)
	assert.Equal(t, []string{span.SpanContext().TraceID().String()}, ids["traceId"])

	req := plogotlp.NewExportRequest()
	require.NoError(t, req.UnmarshalJSON(got.body))
	require.Equal(t, 1, req.Logs().LogRecordCount())
	lr := req.Logs().ResourceLogs().At(0).ScopeLogs().At(0).LogRecords().At(0)
	assert.Equal(t, "Greeting Zoë", lr.Body().Str())
	assert.Equal(t, span.SpanContext().SpanID().String(), lr.SpanID().String())
}

func TestExporter_Metrics(t *testing.T) {
	srv, ch := parseable(t)
	env, err := envelope.Build(profile(srv), "temporal-metrics", envelope.Metrics)
	require.NoError(t, err)

	ctx := context.Background()
	exp, err := otlpmetrichttp.New(ctx,
		otlpmetrichttp.WithEndpointURL(env.URL),
		otlpmetrichttp.WithHeaders(env.Headers),
		otlpmetrichttp.WithHTTPClient(Client(transcode.MetricsRequest, env.URL)),
	)
	require.NoError(t, err)
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(
		sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(time.Hour))))

	counter, err := mp.Meter("temporal-parseable").Int64Counter("temporal.activity.started")
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider()
	spanCtx, span := tp.Tracer("test").Start(ctx, "RunActivity:Greet")
	counter.Add(spanCtx, 3)
	span.End()

	require.NoError(t, mp.ForceFlush(ctx))
	got := next(t, ch)
	require.NoError(t, mp.Shutdown(ctx))

	assertEnvelope(t, got, env, envelope.Metrics)
	assertHexIdentifiers(t, got.body)

	req := pmetricotlp.NewExportRequest()
	require.NoError(t, req.UnmarshalJSON(got.body))
	require.Equal(t, 1, req.Metrics().MetricCount())
	m := req.Metrics().ResourceMetrics().At(0).ScopeMetrics().At(0).Metrics().At(0)
	assert.Equal(t, "temporal.activity.started", m.Name())
	assert.EqualValues(t, 3, m.Sum().DataPoints().At(0).IntValue())
}
