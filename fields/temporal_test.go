package fields

import (
	"testing"
	"time"

	parseable "github.com/JupiterMetaLabs/temporal-parseable"
)

func TestHelpers(t *testing.T) {
	tests := []struct {
		name  string
		field parseable.Field
		key   string
		typ   parseable.FieldType
	}{
		{"WorkflowID", WorkflowID("order-widget-1a2b3c4d"), "workflow_id", parseable.StringType},
		{"RunID", RunID("5f0e"), "run_id", parseable.StringType},
		{"WorkflowType", WorkflowType("OrderWorkflow"), "workflow_type", parseable.StringType},
		{"ActivityType", ActivityType("ProcessPayment"), "activity_type", parseable.StringType},
		{"ActivityID", ActivityID("7"), "activity_id", parseable.StringType},
		{"Attempt", Attempt(2), "attempt", parseable.Int64Type},
		{"TaskQueue", TaskQueue("parseable-demo"), "task_queue", parseable.StringType},
		{"Namespace", Namespace("default"), "namespace", parseable.StringType},
		{"Stream", Stream("temporal-traces"), "stream", parseable.StringType},
		{"Signal", Signal("traces"), "signal", parseable.StringType},
		{"Endpoint", Endpoint("http://localhost:8000/v1/traces"), "endpoint", parseable.StringType},
		{"Latency", Latency(12 * time.Millisecond), "latency", parseable.DurationType},
		{"Success", Success(true), "success", parseable.BoolType},
		{"Reason", Reason("quantity must be positive"), "reason", parseable.StringType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Type != tt.typ {
				t.Errorf("Type = %v, want %v", tt.field.Type, tt.typ)
			}
		})
	}

	if got := Attempt(3).Integer; got != 3 {
		t.Errorf("Attempt(3).Integer = %d", got)
	}
	if got := Success(true).Integer; got != 1 {
		t.Errorf("Success(true).Integer = %d", got)
	}
}
