package core

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/config"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapOptions carries the non-config inputs of NewZapLogger.
type ZapOptions struct {
	// LoggerProvider, when set, adds an otelzap core shipping entries to the
	// logs stream.
	LoggerProvider log.LoggerProvider

	// Stdout and Stderr replace the process streams. Nil uses os.Stdout and
	// os.Stderr.
	Stdout zapcore.WriteSyncer
	Stderr zapcore.WriteSyncer
}

// ZapFactoryResult holds the result of constructing the zap logger.
type ZapFactoryResult struct {
	Logger      *zap.Logger
	AtomicLevel zap.AtomicLevel

	// File is the rotating log file, nil when file output is off.
	File io.Closer
}

// NewZapLogger creates the zap logger with console, file and OTel cores as
// configured.
func NewZapLogger(cfg config.Config, opts ZapOptions) (*ZapFactoryResult, error) {
	switch cfg.Log.Format {
	case "", "json", "pretty", "systemd":
	default:
		return nil, fmt.Errorf("log.format: unsupported value %q", cfg.Log.Format)
	}

	// atomicLevel gates every sink and is what SetLevel moves.
	atomicLevel := zap.NewAtomicLevelAt(parseLevel(cfg.Log.Level))

	cores := make([]zapcore.Core, 0, 4)
	for _, c := range buildConsoleCores(cfg, atomicLevel, opts) {
		cores = append(cores, NewFilteringCore(c, SystemFieldPrefix))
	}

	var file io.WriteCloser
	if cfg.Log.File.Enabled {
		file = config.NewFileWriter(cfg.Log.File)
		if file != nil {
			cores = append(cores, NewFilteringCore(buildFileCore(file, atomicLevel), SystemFieldPrefix))
		}
	}

	if opts.LoggerProvider != nil {
		otelCore := otelzap.NewCore(cfg.ServiceName,
			otelzap.WithLoggerProvider(opts.LoggerProvider),
			otelzap.WithVersion(cfg.ServiceVersion),
		)
		// The sentinel stays: otelzap reads the span context from it.
		cores = append(cores, newLevelEnforcer(otelCore, atomicLevel, cfg.Log.OTELLevel))
	}

	var core zapcore.Core
	switch len(cores) {
	case 0:
		core = zapcore.NewNopCore()
	case 1:
		core = cores[0]
	default:
		core = zapcore.NewTee(cores...)
	}

	zopts := buildZapOptions(cfg)
	zopts = append(zopts, zap.WithFatalHook(noExitHook{}))

	res := &ZapFactoryResult{
		Logger:      zap.New(core, zopts...),
		AtomicLevel: atomicLevel,
	}
	if file != nil {
		res.File = file
	}
	return res, nil
}

type noExitHook struct{}

// OnWrite does nothing, so fatal entries never terminate the worker.
func (noExitHook) OnWrite(*zapcore.CheckedEntry, []zapcore.Field) {}

func buildZapOptions(cfg config.Config) []zap.Option {
	// One frame for the Logger methods; callers add their own on top.
	opts := []zap.Option{zap.AddCallerSkip(1)}

	if cfg.Log.Development {
		opts = append(opts,
			zap.Development(),
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
		)
	}

	var static []zap.Field
	if cfg.ServiceName != "" {
		static = append(static, zap.String("service", cfg.ServiceName))
	}
	if cfg.ServiceVersion != "" {
		static = append(static, zap.String("version", cfg.ServiceVersion))
	}
	if len(static) > 0 {
		opts = append(opts, zap.Fields(static...))
	}

	return opts
}

func buildConsoleCores(cfg config.Config, level zapcore.LevelEnabler, opts ZapOptions) []zapcore.Core {
	stdout, stderr := opts.Stdout, opts.Stderr
	if stdout == nil {
		stdout = zapcore.Lock(os.Stdout)
	}
	if stderr == nil {
		stderr = zapcore.Lock(os.Stderr)
	}

	encoder := buildConsoleEncoder(cfg)

	if cfg.Log.ErrorsToStderr {
		// stdout: [level, Warn); stderr: [max(level, Warn), Fatal]
		stdoutLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return level.Enabled(lvl) && lvl < zapcore.WarnLevel
		})
		stderrLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return level.Enabled(lvl) && lvl >= zapcore.WarnLevel
		})

		return []zapcore.Core{
			zapcore.NewCore(encoder, stdout, stdoutLevel),
			zapcore.NewCore(encoder, stderr, stderrLevel),
		}
	}

	return []zapcore.Core{
		zapcore.NewCore(encoder, stdout, level),
	}
}

func buildConsoleEncoder(cfg config.Config) zapcore.Encoder {
	switch cfg.Log.Format {
	case "systemd":
		return buildSystemdEncoder()
	case "pretty":
		return buildPrettyEncoder(cfg)
	case "json":
		return buildJSONEncoder()
	default:
		if cfg.Log.Development {
			return buildPrettyEncoder(cfg)
		}
		return buildJSONEncoder()
	}
}

// syslogPrefix holds the RFC 5424 priority journald strips from each line.
var syslogPrefix = map[zapcore.Level]string{
	zapcore.DebugLevel:  "<7>",
	zapcore.InfoLevel:   "<6>",
	zapcore.WarnLevel:   "<4>",
	zapcore.ErrorLevel:  "<3>",
	zapcore.DPanicLevel: "<2>",
	zapcore.PanicLevel:  "<2>",
	zapcore.FatalLevel:  "<2>",
}

func syslogPriority(level zapcore.Level) string {
	if p, ok := syslogPrefix[level]; ok {
		return p
	}
	return "<6>"
}

// buildSystemdEncoder creates a console encoder for journald.
// Output format: <N>LEVEL   Message   key=value
// journald strips the priority prefix and adds its own timestamp.
func buildSystemdEncoder() zapcore.Encoder {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.TimeKey = ""
	encoderCfg.EncodeTime = nil
	encoderCfg.CallerKey = ""
	encoderCfg.EncodeCaller = nil
	encoderCfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(syslogPriority(l) + l.CapitalString())
	}
	return zapcore.NewConsoleEncoder(encoderCfg)
}

func buildPrettyEncoder(cfg config.Config) zapcore.Encoder {
	encoderCfg := zap.NewDevelopmentEncoderConfig()
	if cfg.Log.Color {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	encoderCfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(encoderCfg)
}

// jsonEncoderConfig is shared by stdout and the log file so that a line
// shipped by a file tailer parses the same as one read from the console.
func jsonEncoderConfig() zapcore.EncoderConfig {
	c := zap.NewProductionEncoderConfig()
	c.TimeKey = "timestamp"
	c.EncodeTime = zapcore.ISO8601TimeEncoder
	c.MessageKey = "msg"
	return c
}

func buildJSONEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(jsonEncoderConfig())
}

func buildFileCore(w io.Writer, level zapcore.LevelEnabler) zapcore.Core {
	return zapcore.NewCore(buildJSONEncoder(), zapcore.AddSync(w), level)
}

// ParseLevel converts a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level { return parseLevel(level) }

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
