package log

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"moul.io/zapfilter"
)

// Logger is a thin wrapper around zap.Logger. Components get their own
// named logger via Default().Named("component").
type Logger struct {
	l     *zap.Logger
	level zap.AtomicLevel
}

type Field = zap.Field

// field helpers, so callers only import this package
var (
	String     = zap.String
	Int        = zap.Int
	Int32      = zap.Int32
	Uint32     = zap.Uint32
	Float32    = zap.Float32
	Float64    = zap.Float64
	Bool       = zap.Bool
	Duration   = zap.Duration
	Time       = zap.Time
	Any        = zap.Any
	ErrorField = zap.Error
)

var (
	defaultLogger *Logger
	mu            sync.Mutex
)

type Config struct {
	Level   string // zap level name (debug, info, warn, error)
	Format  string // text or json
	Filters string // zapfilter rules, e.g. "debug:cache,timeline *:*"
}

func ParseLevel(arg string) (zapcore.Level, error) {
	return zapcore.ParseLevel(arg)
}

// New builds a logger writing to stderr. With a non-empty Filters spec the
// core is wrapped by zapfilter so single subsystems can be made verbose
// without raising the global level.
func New(cfg Config) (*Logger, error) {
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		var err error
		if lvl, err = ParseLevel(cfg.Level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}
	atom := zap.NewAtomicLevelAt(lvl)

	var encCfg zapcore.EncoderConfig
	var enc zapcore.Encoder
	if cfg.Format == "json" {
		encCfg = zap.NewProductionEncoderConfig()
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), atom)
	if cfg.Filters != "" {
		rules, err := zapfilter.ParseRules(cfg.Filters)
		if err != nil {
			return nil, fmt.Errorf("invalid log filters %q: %w", cfg.Filters, err)
		}
		core = zapfilter.NewFilteringCore(core, rules)
	}
	return &Logger{l: zap.New(core), level: atom}, nil
}

// DevLogger is used in tests and ad hoc tooling.
func DevLogger() *Logger {
	zl, _ := zap.NewDevelopment()
	return &Logger{l: zl, level: zap.NewAtomicLevelAt(zapcore.DebugLevel)}
}

func Default() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		zl, _ := zap.NewProduction()
		defaultLogger = &Logger{l: zl, level: zap.NewAtomicLevelAt(zapcore.InfoLevel)}
	}
	return defaultLogger
}

// ResetDefault replaces the process-wide default logger.
func ResetDefault(arg *Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = arg
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{l: l.l.Named(name), level: l.level}
}

func (l *Logger) SetLevel(lvl zapcore.Level) { l.level.SetLevel(lvl) }

func (l *Logger) Debug(msg string, fields ...Field) { l.l.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...Field)  { l.l.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.l.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...Field) { l.l.Error(msg, fields...) }

func (l *Logger) Sync() error { return l.l.Sync() }

func Debug(msg string, fields ...Field) { Default().Debug(msg, fields...) }
func Info(msg string, fields ...Field)  { Default().Info(msg, fields...) }
func Warn(msg string, fields ...Field)  { Default().Warn(msg, fields...) }
func Error(msg string, fields ...Field) { Default().Error(msg, fields...) }
