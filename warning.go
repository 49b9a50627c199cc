package parseable

import "fmt"

// Warning represents a non-fatal initialization issue.
// New returns warnings instead of failing when one signal cannot be
// initialized; that signal is disabled and the rest keep working.
type Warning struct {
	Component string // "traces", "logs", "metrics", "tracing", "activity-metrics"
	Err       error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Component, w.Err)
}

func (w Warning) Unwrap() error { return w.Err }
