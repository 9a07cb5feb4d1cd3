package log

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	kerrors "github.com/YuminosukeSato/kernelpca/pkg/errors"
)

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	logger zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	z.emit(z.logger.Debug(), msg, fields)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	z.emit(z.logger.Info(), msg, fields)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	z.emit(z.logger.Warn(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	z.emit(z.logger.Error(), msg, fields)
}

func (z *zerologLogger) With(fields ...any) Logger {
	ctx := z.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.logger.GetLevel()
}

// emit attaches the field pairs to the event, giving structured error types
// (zerolog.LogObjectMarshaler) their richer representation.
func (z *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// ZerologProvider is the default LoggerProvider, backed by zerolog.
type ZerologProvider struct {
	mu   sync.RWMutex
	root zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON lines to w.
// The initial level is Warn so that library consumers are not flooded
// with per-fit diagnostics unless they opt in.
func NewZerologProvider(w io.Writer) *ZerologProvider {
	return &ZerologProvider{
		root: zerolog.New(w).Level(zerolog.WarnLevel).With().Timestamp().Logger(),
	}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{logger: p.root}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{logger: p.root.With().Str(ComponentKey, name).Logger()}
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = p.root.Level(toZerologLevel(level))
}

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr)
)

// SetLoggerProvider replaces the process-wide logger provider.
// Pass a TestLoggerProvider in tests to capture output.
func SetLoggerProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

// GetLogger returns the default logger instance.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with a component name.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}

// SetLevel adjusts the minimum level of the default provider.
func SetLevel(level Level) {
	providerMu.RLock()
	defer providerMu.RUnlock()
	defaultProvider.SetLevel(level)
}

// Warnings raised through pkg/errors are routed to the structured logger.
// The hook lives here because errors cannot import log.
func init() {
	kerrors.SetZerologWarnFunc(func(warning error) {
		GetLogger().Warn("model warning", ErrAttrKey, warning)
	})
}
