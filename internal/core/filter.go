// Package core builds the zap logger and the OpenTelemetry providers that
// ship telemetry to Parseable.
package core

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// filteringCore drops internal fields before they reach a human-facing sink.
type filteringCore struct {
	zapcore.Core
	prefix string
}

// NewFilteringCore returns a core that drops fields whose key starts with prefix.
func NewFilteringCore(core zapcore.Core, prefix string) zapcore.Core {
	return &filteringCore{Core: core, prefix: prefix}
}

func (c *filteringCore) With(fields []zapcore.Field) zapcore.Core {
	return &filteringCore{Core: c.Core.With(c.filter(fields)), prefix: c.prefix}
}

func (c *filteringCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *filteringCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(entry, c.filter(fields))
}

// filter returns fields unchanged when nothing needs dropping.
func (c *filteringCore) filter(fields []zapcore.Field) []zapcore.Field {
	drop := 0
	for _, f := range fields {
		if strings.HasPrefix(f.Key, c.prefix) {
			drop++
		}
	}
	if drop == 0 {
		return fields
	}

	kept := make([]zapcore.Field, 0, len(fields)-drop)
	for _, f := range fields {
		if !strings.HasPrefix(f.Key, c.prefix) {
			kept = append(kept, f)
		}
	}
	return kept
}
