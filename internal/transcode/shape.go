// Package transcode rewrites OTLP protobuf export requests as OTLP/JSON.
//
// The generic protobuf→JSON conversion renders bytes fields as base64, while the
// OTLP/JSON encoding requires trace and span identifiers as lowercase hex. The
// package decodes a request body into its typed message, converts it to a generic
// document, fixes the identifier encoding and serializes the result.
package transcode

import (
	"errors"
	"fmt"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/envelope"
	collogspb "go.opentelemetry.io/proto/otlp/collector/logs/v1"
	colmetricpb "go.opentelemetry.io/proto/otlp/collector/metrics/v1"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/protobuf/proto"
)

// ErrUnknownShape is returned for a Shape outside the three export requests.
var ErrUnknownShape = errors.New("transcode: unknown message shape")

// Shape identifies which OTLP export request a body carries.
type Shape uint8

const (
	TraceRequest Shape = iota + 1
	LogsRequest
	MetricsRequest
)

func (s Shape) String() string {
	switch s {
	case TraceRequest:
		return "ExportTraceServiceRequest"
	case LogsRequest:
		return "ExportLogsServiceRequest"
	case MetricsRequest:
		return "ExportMetricsServiceRequest"
	default:
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
}

// New returns an empty message of the shape's type, or nil for an unknown shape.
func (s Shape) New() proto.Message {
	switch s {
	case TraceRequest:
		return &coltracepb.ExportTraceServiceRequest{}
	case LogsRequest:
		return &collogspb.ExportLogsServiceRequest{}
	case MetricsRequest:
		return &colmetricpb.ExportMetricsServiceRequest{}
	default:
		return nil
	}
}

// ShapeFor maps a signal to the request shape its exporter sends.
func ShapeFor(signal envelope.Signal) (Shape, error) {
	switch signal {
	case envelope.Traces:
		return TraceRequest, nil
	case envelope.Logs:
		return LogsRequest, nil
	case envelope.Metrics:
		return MetricsRequest, nil
	default:
		return 0, fmt.Errorf("%w: no request shape for signal %q", ErrUnknownShape, signal)
	}
}
