// Package fields provides Temporal and Parseable logging field helpers.
//
// These helpers create structured fields with consistent naming, so entries
// from workers, clients and the telemetry pipeline can be joined on the same
// columns in Parseable.
//
// Usage:
//
//	import "github.com/JupiterMetaLabs/temporal-parseable/fields"
//
//	logger.Info(ctx, "order validated",
//	    fields.WorkflowID(info.WorkflowExecution.ID),
//	    fields.ActivityType(info.ActivityType.Name),
//	    fields.Attempt(info.Attempt),
//	)
package fields

import (
	"time"

	parseable "github.com/JupiterMetaLabs/temporal-parseable"
)

// --- Workflow Fields ---

// WorkflowID creates a workflow ID field.
func WorkflowID(id string) parseable.Field {
	return parseable.String("workflow_id", id)
}

// RunID creates a workflow run ID field.
func RunID(id string) parseable.Field {
	return parseable.String("run_id", id)
}

// WorkflowType creates a workflow type field.
func WorkflowType(name string) parseable.Field {
	return parseable.String("workflow_type", name)
}

// --- Activity Fields ---

// ActivityType creates an activity type field.
func ActivityType(name string) parseable.Field {
	return parseable.String("activity_type", name)
}

// ActivityID creates an activity ID field.
func ActivityID(id string) parseable.Field {
	return parseable.String("activity_id", id)
}

// Attempt creates a retry attempt field. Temporal counts attempts from 1.
func Attempt(n int32) parseable.Field {
	return parseable.Int64("attempt", int64(n))
}

// --- Placement Fields ---

// TaskQueue creates a task queue field.
func TaskQueue(name string) parseable.Field {
	return parseable.String("task_queue", name)
}

// Namespace creates a Temporal namespace field.
func Namespace(name string) parseable.Field {
	return parseable.String("namespace", name)
}

// --- Parseable Fields ---

// Stream creates a Parseable stream field.
func Stream(name string) parseable.Field {
	return parseable.String("stream", name)
}

// Signal creates a telemetry signal field ("traces", "logs", "metrics").
func Signal(name string) parseable.Field {
	return parseable.String("signal", name)
}

// Endpoint creates an export endpoint field.
func Endpoint(url string) parseable.Field {
	return parseable.String("endpoint", url)
}

// --- Timing Fields ---

// Latency creates a latency field.
func Latency(d time.Duration) parseable.Field {
	return parseable.Duration("latency", d)
}

// --- Status Fields ---

// Success creates a success indicator field.
func Success(ok bool) parseable.Field {
	return parseable.Bool("success", ok)
}

// Reason creates a reason/explanation field.
func Reason(r string) parseable.Field {
	return parseable.String("reason", r)
}
