package parseable

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// contextKey is an unexported type for context keys defined in this package.
type contextKey string

const (
	workflowIDKey contextKey = "workflow_id"
	runIDKey      contextKey = "run_id"
	traceIDKey    contextKey = "trace_id"
)

// WithWorkflow attaches a workflow execution to ctx. Both identifiers are
// added to every entry logged with the returned context; empty values are
// skipped.
func WithWorkflow(ctx context.Context, workflowID, runID string) context.Context {
	if workflowID != "" {
		ctx = context.WithValue(ctx, workflowIDKey, workflowID)
	}
	if runID != "" {
		ctx = context.WithValue(ctx, runIDKey, runID)
	}
	return ctx
}

// WithTraceID adds a trace ID to the context, for callers without an active
// OpenTelemetry span.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// WorkflowIDFromContext extracts the workflow ID from context.
func WorkflowIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(workflowIDKey).(string); ok {
		return v
	}
	return ""
}

// RunIDFromContext extracts the run ID from context.
func RunIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}

// extractContextZapFields pulls trace/span IDs and workflow identifiers from
// context. The slice is allocated only when something is found.
func extractContextZapFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}

	var fields []zap.Field
	add := func(f zap.Field) {
		if fields == nil {
			fields = make([]zap.Field, 0, 4)
		}
		fields = append(fields, f)
	}

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		add(zap.String("trace_id", spanCtx.TraceID().String()))
		add(zap.String("span_id", spanCtx.SpanID().String()))
	} else if traceID, ok := ctx.Value(traceIDKey).(string); ok && traceID != "" {
		add(zap.String("trace_id", traceID))
	}

	if id, ok := ctx.Value(workflowIDKey).(string); ok {
		add(zap.String("workflow_id", id))
	}
	if id, ok := ctx.Value(runIDKey).(string); ok {
		add(zap.String("run_id", id))
	}

	return fields
}
