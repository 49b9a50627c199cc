// Package activitymetrics records OpenTelemetry metrics for Temporal activity
// executions.
//
// Workflows are not measured here: workflow code must stay deterministic, and
// workflow executions already appear in the traces stream.
package activitymetrics

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/interceptor"
)

// Instrument names.
const (
	MetricStarted   = "temporal.activity.started"
	MetricCompleted = "temporal.activity.completed"
	MetricFailed    = "temporal.activity.failed"
	MetricDuration  = "temporal.activity.duration"
)

// Attribute keys attached to every measurement.
const (
	AttrActivityType = attribute.Key("activity_type")
	AttrWorkflowType = attribute.Key("workflow_type")
	AttrTaskQueue    = attribute.Key("task_queue")
	AttrNamespace    = attribute.Key("namespace")
)

// Interceptor is a worker interceptor counting activity starts, completions
// and failures and recording their duration in seconds.
type Interceptor struct {
	interceptor.WorkerInterceptorBase

	started   metric.Int64Counter
	completed metric.Int64Counter
	failed    metric.Int64Counter
	duration  metric.Float64Histogram

	getInfo func(context.Context) activity.Info
	now     func() time.Time
}

var _ interceptor.WorkerInterceptor = (*Interceptor)(nil)

// New creates the instruments on meter once. The returned Interceptor is safe
// for concurrent activity executions.
func New(meter metric.Meter) (*Interceptor, error) {
	started, err := meter.Int64Counter(MetricStarted,
		metric.WithDescription("Activities started"))
	if err != nil {
		return nil, err
	}
	completed, err := meter.Int64Counter(MetricCompleted,
		metric.WithDescription("Activities completed successfully"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter(MetricFailed,
		metric.WithDescription("Activities that returned an error"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(MetricDuration,
		metric.WithUnit("s"),
		metric.WithDescription("Activity execution duration in seconds"))
	if err != nil {
		return nil, err
	}

	return &Interceptor{
		started:   started,
		completed: completed,
		failed:    failed,
		duration:  duration,
		getInfo:   activity.GetInfo,
		now:       time.Now,
	}, nil
}

// InterceptActivity implements interceptor.WorkerInterceptor.
func (i *Interceptor) InterceptActivity(
	ctx context.Context,
	next interceptor.ActivityInboundInterceptor,
) interceptor.ActivityInboundInterceptor {
	a := &activityInbound{root: i}
	a.Next = next
	return a
}

func (i *Interceptor) attributes(ctx context.Context) attribute.Set {
	info := i.getInfo(ctx)
	var workflowType string
	if info.WorkflowType != nil {
		workflowType = info.WorkflowType.Name
	}
	return attribute.NewSet(
		AttrActivityType.String(info.ActivityType.Name),
		AttrWorkflowType.String(workflowType),
		AttrTaskQueue.String(info.TaskQueue),
		AttrNamespace.String(info.WorkflowNamespace),
	)
}

type activityInbound struct {
	interceptor.ActivityInboundInterceptorBase
	root *Interceptor
}

func (a *activityInbound) ExecuteActivity(
	ctx context.Context,
	in *interceptor.ExecuteActivityInput,
) (interface{}, error) {
	r := a.root
	attrs := metric.WithAttributeSet(r.attributes(ctx))

	r.started.Add(ctx, 1, attrs)
	start := r.now()

	var err error
	finished := false
	defer func() {
		r.duration.Record(ctx, r.now().Sub(start).Seconds(), attrs)
		switch {
		case !finished:
			// panicking
			r.failed.Add(ctx, 1, attrs)
		case errors.Is(err, activity.ErrResultPending):
			// completed asynchronously, outcome unknown here
		case err != nil:
			r.failed.Add(ctx, 1, attrs)
		default:
			r.completed.Add(ctx, 1, attrs)
		}
	}()

	var result interface{}
	result, err = a.Next.ExecuteActivity(ctx, in)
	finished = true
	return result, err
}
