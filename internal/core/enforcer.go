package core

import "go.uber.org/zap/zapcore"

// levelEnforcer gates the OTel sink. The otelzap core asks its
// LoggerProvider, which enables everything, so without this the logs stream
// would receive debug entries regardless of config.
//
// An entry passes when the shared level allows it and it is at or above
// floor; floor can only make the sink stricter than the console.
type levelEnforcer struct {
	zapcore.Core
	shared zapcore.LevelEnabler
	floor  zapcore.Level
}

func newLevelEnforcer(core zapcore.Core, shared zapcore.LevelEnabler, floor string) *levelEnforcer {
	e := &levelEnforcer{Core: core, shared: shared, floor: zapcore.DebugLevel}
	if floor != "" {
		e.floor = parseLevel(floor)
	}
	return e
}

func (e *levelEnforcer) Enabled(lvl zapcore.Level) bool {
	return lvl >= e.floor && e.shared.Enabled(lvl)
}

func (e *levelEnforcer) With(fields []zapcore.Field) zapcore.Core {
	clone := *e
	clone.Core = e.Core.With(fields)
	return &clone
}

func (e *levelEnforcer) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !e.Enabled(ent.Level) {
		return ce
	}
	return ce.AddCore(ent, e)
}
