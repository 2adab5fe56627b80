package xlog

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logLevel string

const (
	LogLevelDebug logLevel = "DEBUG"
	LogLevelInfo  logLevel = "INFO"
	LogLevelWarn  logLevel = "WARN"
	LogLevelError logLevel = "ERROR"
)

func (lvl logLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelDebug:
		fallthrough
	default:
	}
	return zapcore.DebugLevel
}

func (lvl logLevel) String() string {
	return string(lvl)
}

// ParseLogLevel is case-insensitive, unknown or empty names are DEBUG.
func ParseLogLevel(lvl string) logLevel {
	switch l := logLevel(strings.ToUpper(strings.TrimSpace(lvl))); l {
	case LogLevelInfo, LogLevelWarn, LogLevelError:
		return l
	default:
	}
	return LogLevelDebug
}

type logEncoderType uint8

const (
	JSON logEncoderType = iota
	PlainText
	_encMax
)

func (enc logEncoderType) String() string {
	switch enc {
	case JSON:
		return "json"
	case PlainText:
		return "plaintext"
	default:
	}
	return "unknown"
}

// ParseLogEncoder accepts "json" and "plaintext" (or "console").
func ParseLogEncoder(enc string) logEncoderType {
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "plaintext", "console", "text":
		return PlainText
	default:
	}
	return JSON
}

type logOutWriterType uint8

const (
	StdOut logOutWriterType = iota
	StdErr
	testMemAsOut
	_writerMax
)

const (
	ContextKeyMapToOmitempty = "_"
	ContextKeyMapToItself    = ""
	coreKeyIgnored           = ""
)

// writerRegistry maps the writer types to their syncers. The test
// writer is only present after a test registers it.
type writerRegistry struct {
	lock    sync.RWMutex
	writers map[logOutWriterType]zapcore.WriteSyncer
}

func (r *writerRegistry) register(typ logOutWriterType, ws zapcore.WriteSyncer) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.writers[typ] = ws
}

func (r *writerRegistry) get(typ logOutWriterType) (zapcore.WriteSyncer, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	ws, ok := r.writers[typ]
	return ws, ok
}

var (
	writerMap = &writerRegistry{
		writers: map[logOutWriterType]zapcore.WriteSyncer{
			StdOut: zapcore.Lock(os.Stdout),
			StdErr: zapcore.Lock(os.Stderr),
		},
	}
	encoderMap = map[logEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
		JSON:      zapcore.NewJSONEncoder,
		PlainText: zapcore.NewConsoleEncoder,
	}
)

func getEncoderByType(typ logEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

func getOutWriterByType(typ logOutWriterType) zapcore.WriteSyncer {
	out, ok := writerMap.get(typ)
	if !ok {
		return zapcore.Lock(os.Stdout)
	}
	return out
}

type Banner interface {
	JSON() string
	PlainText() string
}

type xLogCore interface {
	context() context.Context
	timeEncoder() zapcore.TimeEncoder
	levelEncoder() zapcore.LevelEncoder
	writeSyncer() zapcore.WriteSyncer
	outEncoder() func(cfg zapcore.EncoderConfig) zapcore.Encoder

	zapcore.Core
}

// XLogCoreConstructor returns nil if it cannot serve the writer.
type XLogCoreConstructor func(
	context.Context,
	zapcore.LevelEnabler,
	logEncoderType,
	logOutWriterType,
	zapcore.LevelEncoder,
	zapcore.TimeEncoder,
) xLogCore

// XLogger mainly implemented by Uber zap logger.
//
// ErrorStack prints the frames of an infra.ErrorStack as a JSON
// array instead of the zap stacktrace string, so log aggregators
// can parse them.
//
// The context variants extract the registered context keys (trace
// ID, session, etc.) as extra fields.
//
// Logf is for adapters of printf style loggers only.
type XLogger interface {
	zap() *zap.Logger

	IncreaseLogLevel(level zapcore.Level)
	Level() string
	Sync() error
	Banner(banner Banner)

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
	ErrorStack(err error, msg string, fields ...zap.Field)

	DebugContext(ctx context.Context, msg string, fields ...zap.Field)
	InfoContext(ctx context.Context, msg string, fields ...zap.Field)
	WarnContext(ctx context.Context, msg string, fields ...zap.Field)
	ErrorContext(ctx context.Context, err error, msg string, fields ...zap.Field)
	ErrorStackContext(ctx context.Context, err error, msg string, fields ...zap.Field)

	Logf(lvl zapcore.Level, format string, args ...any)
	ErrorStackf(err error, format string, args ...any)
}
