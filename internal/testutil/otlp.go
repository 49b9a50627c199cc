// Package testutil builds OTLP protobuf export requests for tests.
package testutil

import (
	"bytes"
	"testing"

	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	logspb "go.opentelemetry.io/proto/otlp/logs/v1"
	metricspb "go.opentelemetry.io/proto/otlp/metrics/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
	"google.golang.org/protobuf/proto"
)

// TraceID is 0xDEADBEEF repeated to 16 bytes.
var TraceID = bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 4)

// SpanID and ParentSpanID are fixed 8-byte span identifiers.
var (
	SpanID       = []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	ParentSpanID = []byte{0xa1, 0xb2, 0xc3, 0xd4, 0xe5, 0xf6, 0x07, 0x18}
)

// TraceIDHex and friends are the expected lowercase hex renderings.
const (
	TraceIDHex      = "deadbeefdeadbeefdeadbeefdeadbeef"
	SpanIDHex       = "0102030405060708"
	ParentSpanIDHex = "a1b2c3d4e5f60718"
)

func resource(service string) *resourcepb.Resource {
	return &resourcepb.Resource{
		Attributes: []*commonpb.KeyValue{{
			Key:   "service.name",
			Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: service}},
		}},
	}
}

// TraceRequest returns a request with one server span named name.
func TraceRequest(name string, traceID, spanID, parentID []byte) *coltracepb.ExportTraceServiceRequest {
	return &coltracepb.ExportTraceServiceRequest{
		ResourceSpans: []*tracepb.ResourceSpans{{
			Resource: resource("temporal-worker"),
			ScopeSpans: []*tracepb.ScopeSpans{{
				Scope: &commonpb.InstrumentationScope{Name: "temporal-sdk-go"},
				Spans: []*tracepb.Span{{
					TraceId:           traceID,
					SpanId:            spanID,
					ParentSpanId:      parentID,
					Name:              name,
					Kind:              tracepb.Span_SPAN_KIND_SERVER,
					StartTimeUnixNano: 1700000000000000000,
					EndTimeUnixNano:   1700000000500000000,
					Status:            &tracepb.Status{Code: tracepb.Status_STATUS_CODE_OK},
				}},
			}},
		}},
	}
}

// LogsRequest returns a request with one INFO log record whose body is body.
func LogsRequest(body string, traceID, spanID []byte) *collogspb.ExportLogsServiceRequest {
	return &collogspb.ExportLogsServiceRequest{
		ResourceLogs: []*logspb.ResourceLogs{{
			Resource: resource("temporal-worker"),
			ScopeLogs: []*logspb.ScopeLogs{{
				Scope: &commonpb.InstrumentationScope{Name: "temporal-worker"},
				LogRecords: []*logspb.LogRecord{{
					TimeUnixNano:   1700000000000000000,
					SeverityNumber: logspb.SeverityNumber_SEVERITY_NUMBER_INFO,
					SeverityText:   "INFO",
					Body:           &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: body}},
					TraceId:        traceID,
					SpanId:         spanID,
				}},
			}},
		}},
	}
}

// MetricsRequest returns a request with one monotonic sum carrying an exemplar.
func MetricsRequest(name string, value int64, traceID, spanID []byte) *colmetricpb.ExportMetricsServiceRequest {
	return &colmetricpb.ExportMetricsServiceRequest{
		ResourceMetrics: []*metricspb.ResourceMetrics{{
			Resource: resource("temporal-worker"),
			ScopeMetrics: []*metricspb.ScopeMetrics{{
				Scope: &commonpb.InstrumentationScope{Name: "temporal-parseable"},
				Metrics: []*metricspb.Metric{{
					Name: name,
					Unit: "1",
					Data: &metricspb.Metric_Sum{Sum: &metricspb.Sum{
						AggregationTemporality: metricspb.AggregationTemporality_AGGREGATION_TEMPORALITY_CUMULATIVE,
						IsMonotonic:            true,
						DataPoints: []*metricspb.NumberDataPoint{{
							TimeUnixNano: 1700000000000000000,
							Value:        &metricspb.NumberDataPoint_AsInt{AsInt: value},
							Exemplars: []*metricspb.Exemplar{{
								TimeUnixNano: 1700000000000000000,
								Value:        &metricspb.Exemplar_AsDouble{AsDouble: 1.5},
								TraceId:      traceID,
								SpanId:       spanID,
							}},
						}},
					}},
				}},
			}},
		}},
	}
}

// Marshal encodes msg, failing the test on error.
func Marshal(t testing.TB, msg proto.Message) []byte {
	t.Helper()
	b, err := proto.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal %T: %v", msg, err)
	}
	return b
}
