package parseable

import "context"

// Logger is the primary logging interface.
// All methods are safe for concurrent use.
//
// Every method takes a context: trace_id and span_id of the active span, and
// the workflow identifiers set with WithWorkflow, are added to the entry, and
// the entry shipped to the logs stream carries the span context.
type Logger interface {
	// Debug logs a message at debug level.
	Debug(ctx context.Context, msg string, fields ...Field)

	// Info logs a message at info level.
	Info(ctx context.Context, msg string, fields ...Field)

	// Warn logs a message at warn level.
	Warn(ctx context.Context, msg string, fields ...Field)

	// Error logs a message at error level with an optional error.
	Error(ctx context.Context, msg string, err error, fields ...Field)

	// With returns a child logger with additional fields attached.
	With(fields ...Field) Logger

	// Named returns a named sub-logger.
	Named(name string) Logger

	// Sync flushes any buffered log entries.
	Sync() error

	// Shutdown syncs the logger and closes the log file, if any.
	// Telemetry providers are owned by the Plugin and are not touched.
	Shutdown(ctx context.Context) error

	// SetLevel changes the log level at runtime.
	// Valid levels: debug, info, warn, error.
	SetLevel(level string)

	// GetLevel returns the current log level as a string.
	GetLevel() string
}
