package parseable

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"syscall"
	"time"

	"github.com/JupiterMetaLabs/temporal-parseable/internal/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger is the Logger behind NewLogger and Plugin.Logger.
type zapLogger struct {
	zap       *zap.Logger
	atomicLvl zap.AtomicLevel
	file      io.Closer
}

// NewLogger builds a standalone Logger from cfg with console and file output
// only. Plugin.Logger additionally ships entries to the logs stream.
func NewLogger(cfg Config) (Logger, error) {
	return newZapLogger(cfg, core.ZapOptions{})
}

func newZapLogger(cfg Config, opts core.ZapOptions) (*zapLogger, error) {
	res, err := core.NewZapLogger(cfg, opts)
	if err != nil {
		return nil, err
	}
	return &zapLogger{
		// one more frame for write
		zap:       res.Logger.WithOptions(zap.AddCallerSkip(1)),
		atomicLvl: res.AtomicLevel,
		file:      res.File,
	}, nil
}

// write checks lvl, then converts fields through the pool with extra, the
// context fields and the context sentinel appended.
//
// The sentinel carries ctx to the otelzap core, which reads the span context
// from it; console and file cores filter it out. context.Background() and
// context.TODO() are skipped since they can never carry trace information.
// Callers must be exactly one frame above write for caller annotation.
func (l *zapLogger) write(ctx context.Context, lvl zapcore.Level, msg string, fields []Field, extra ...zap.Field) {
	ce := l.zap.Check(lvl, msg)
	if ce == nil {
		return
	}
	withCtx := hasContext(ctx)
	if len(fields) == 0 && len(extra) == 0 && !withCtx {
		ce.Write()
		return
	}

	buf := getZapFields()
	for _, f := range fields {
		*buf = append(*buf, convertField(f))
	}
	*buf = append(*buf, extra...)
	if withCtx {
		*buf = append(*buf, extractContextZapFields(ctx)...)
		*buf = append(*buf, zap.Reflect(core.SentinelKey, ctx))
	}
	ce.Write(*buf...)
	putZapFields(buf)
}

func hasContext(ctx context.Context) bool {
	return ctx != nil && ctx != context.Background() && ctx != context.TODO()
}

func (l *zapLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, zapcore.DebugLevel, msg, fields)
}

func (l *zapLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, zapcore.InfoLevel, msg, fields)
}

func (l *zapLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, zapcore.WarnLevel, msg, fields)
}

// Error attaches err under "error" when non-nil.
func (l *zapLogger) Error(ctx context.Context, msg string, err error, fields ...Field) {
	if err == nil {
		l.write(ctx, zapcore.ErrorLevel, msg, fields)
		return
	}
	l.write(ctx, zapcore.ErrorLevel, msg, fields, zap.Error(err))
}

func (l *zapLogger) With(fields ...Field) Logger {
	return l.derive(l.zap.With(toZapFields(fields)...))
}

func (l *zapLogger) Named(name string) Logger {
	return l.derive(l.zap.Named(name))
}

// withCallerSkip returns a child whose caller annotation skips depth more
// frames, for adapters that wrap the Logger.
func (l *zapLogger) withCallerSkip(depth int) Logger {
	return l.derive(l.zap.WithOptions(zap.AddCallerSkip(depth)))
}

// derive shares the level and file with l. Only the root closes the file.
func (l *zapLogger) derive(z *zap.Logger) *zapLogger {
	return &zapLogger{zap: z, atomicLvl: l.atomicLvl}
}

func (l *zapLogger) Sync() error {
	return l.zap.Sync()
}

func (l *zapLogger) Shutdown(ctx context.Context) error {
	var errs []error
	if err := l.zap.Sync(); err != nil && !isIgnorableSyncError(err) {
		errs = append(errs, fmt.Errorf("zap sync: %w", err))
	}
	if l.file != nil {
		if err := l.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (l *zapLogger) SetLevel(level string) {
	l.atomicLvl.SetLevel(core.ParseLevel(level))
}

func (l *zapLogger) GetLevel() string {
	return l.atomicLvl.Level().String()
}

// isIgnorableSyncError reports errors from syncing a terminal or pipe, which
// do not support fsync.
func isIgnorableSyncError(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EBADF)
}

// zapFieldPool holds scratch slices for write. Activity loggers add a
// handful of Temporal keys on top of the call site's fields, hence 16.
var zapFieldPool = sync.Pool{
	New: func() any {
		buf := make([]zap.Field, 0, 16)
		return &buf
	},
}

func convertField(f Field) zap.Field {
	switch f.Type {
	case StringType:
		return zap.String(f.Key, f.StringVal)
	case Int64Type:
		return zap.Int64(f.Key, f.Integer)
	case Uint64Type:
		if v, ok := f.Interface.(uint64); ok {
			return zap.Uint64(f.Key, v)
		}
		return zap.Any(f.Key, f.Interface)
	case Float64Type:
		return zap.Float64(f.Key, f.Float)
	case BoolType:
		return zap.Bool(f.Key, f.Integer == 1)
	case DurationType:
		return zap.Duration(f.Key, time.Duration(f.Integer))
	case ErrorType:
		if err, ok := f.Interface.(error); ok {
			return zap.NamedError(f.Key, err)
		}
		return zap.Any(f.Key, f.Interface)
	case StringerType:
		if s, ok := f.Interface.(fmt.Stringer); ok {
			return zap.Stringer(f.Key, s)
		}
		return zap.Any(f.Key, f.Interface)
	default:
		return zap.Any(f.Key, f.Interface)
	}
}

func getZapFields() *[]zap.Field {
	ptr := zapFieldPool.Get().(*[]zap.Field)
	*ptr = (*ptr)[:0]
	return ptr
}

// putZapFields clears the slice and returns it to the pool.
func putZapFields(ptr *[]zap.Field) {
	if ptr == nil {
		return
	}
	clear(*ptr)
	*ptr = (*ptr)[:0]
	zapFieldPool.Put(ptr)
}

// toZapFields allocates, for With where zap keeps the slice.
func toZapFields(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	zapFields := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		zapFields = append(zapFields, convertField(f))
	}
	return zapFields
}
