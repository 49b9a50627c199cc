package parseable

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/log"
)

// temporalLogger adapts a Logger to the Temporal SDK logger, so SDK internals
// and workflow.GetLogger / activity.GetLogger write through zap and into the
// logs stream.
type temporalLogger struct {
	logger Logger
}

var (
	_ log.Logger          = (*temporalLogger)(nil)
	_ log.WithLogger      = (*temporalLogger)(nil)
	_ log.WithSkipCallers = (*temporalLogger)(nil)
)

// callerSkipper is implemented by loggers that can move their caller
// annotation past wrapping frames.
type callerSkipper interface {
	withCallerSkip(depth int) Logger
}

// TemporalLogger returns l as a go.temporal.io/sdk/log.Logger.
func TemporalLogger(l Logger) log.Logger {
	return &temporalLogger{logger: skipCallers(l, 1)}
}

func skipCallers(l Logger, depth int) Logger {
	if s, ok := l.(callerSkipper); ok {
		return s.withCallerSkip(depth)
	}
	return l
}

func (t *temporalLogger) Debug(msg string, keyvals ...interface{}) {
	t.logger.Debug(context.Background(), msg, keyvalFields(keyvals)...)
}

func (t *temporalLogger) Info(msg string, keyvals ...interface{}) {
	t.logger.Info(context.Background(), msg, keyvalFields(keyvals)...)
}

func (t *temporalLogger) Warn(msg string, keyvals ...interface{}) {
	t.logger.Warn(context.Background(), msg, keyvalFields(keyvals)...)
}

// Error promotes the first error value in keyvals to the entry's error.
func (t *temporalLogger) Error(msg string, keyvals ...interface{}) {
	fields := keyvalFields(keyvals)
	var err error
	for i, f := range fields {
		if e, ok := f.Interface.(error); ok && f.Type == ErrorType {
			err = e
			fields = append(fields[:i:i], fields[i+1:]...)
			break
		}
	}
	t.logger.Error(context.Background(), msg, err, fields...)
}

func (t *temporalLogger) With(keyvals ...interface{}) log.Logger {
	return &temporalLogger{logger: t.logger.With(keyvalFields(keyvals)...)}
}

func (t *temporalLogger) WithCallerSkip(depth int) log.Logger {
	return &temporalLogger{logger: skipCallers(t.logger, depth)}
}

// keyvalFields pairs alternating keys and values. A trailing key without a
// value is kept under "EXTRA_VALUE_AT_END" so nothing is lost.
func keyvalFields(keyvals []interface{}) []Field {
	if len(keyvals) == 0 {
		return nil
	}
	fields := make([]Field, 0, (len(keyvals)+1)/2)
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 == len(keyvals) {
			fields = append(fields, F("EXTRA_VALUE_AT_END", keyvals[i]))
			break
		}
		key, ok := keyvals[i].(string)
		if !ok {
			key = fmt.Sprint(keyvals[i])
		}
		fields = append(fields, F(key, keyvals[i+1]))
	}
	return fields
}
