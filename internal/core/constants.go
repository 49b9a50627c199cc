package core

// SystemFieldPrefix marks fields that carry internal state through zap.
// Console and file sinks drop every field with this prefix.
const SystemFieldPrefix = "__parseable_"

// SentinelKey carries the call's context.Context through zap.Reflect so the
// OTel bridge can read the span context from it.
const SentinelKey = SystemFieldPrefix + "ctx__"
