package parseable

import (
	"github.com/JupiterMetaLabs/temporal-parseable/internal/config"
	"github.com/JupiterMetaLabs/temporal-parseable/internal/envelope"
)

// Configuration types. See internal/config for field documentation.
type (
	Config         = config.Config
	LogConfig      = config.LogConfig
	FileConfig     = config.FileConfig
	ExportConfig   = config.ExportConfig
	TemporalConfig = config.TemporalConfig
)

// Signal names a telemetry signal.
type Signal = envelope.Signal

const (
	Traces  = envelope.Traces
	Logs    = envelope.Logs
	Metrics = envelope.Metrics
)

// Default returns the production configuration: every signal enabled, JSON
// console logs at info level, a local Parseable at http://localhost:8000.
func Default() Config { return config.Default() }

// Development returns Default with pretty debug logging.
func Development() Config { return config.Development() }

// Load reads the configuration from an optional YAML file and PARSEABLE_*
// environment variables, on top of Default.
func Load(path string) (Config, error) { return config.Load(path) }
