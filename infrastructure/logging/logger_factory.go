package logging

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/infrastructure/config"
)

type LoggerFactoryImpl struct {
	config  *config.LoggingConfig
	console io.Writer

	mu      sync.Mutex
	clients []*PromtailLogger
}

// NewLoggerFactory creates loggers from config. Console output goes to stderr
// so it never mixes with command output.
func NewLoggerFactory(config *config.LoggingConfig) *LoggerFactoryImpl {
	return NewLoggerFactoryWithWriter(config, os.Stderr)
}

func NewLoggerFactoryWithWriter(config *config.LoggingConfig, console io.Writer) *LoggerFactoryImpl {
	return &LoggerFactoryImpl{
		config:  config,
		console: console,
	}
}

func (f *LoggerFactoryImpl) CreateLogger(component string) domain.Logger {
	if f.config == nil {
		return &NoOpLogger{}
	}
	minLevel := ParseLogLevel(f.config.Level)

	if f.config.Promtail == nil || f.config.Promtail.URL == "" {
		return NewLevelFilterLogger(NewConsoleLogger(f.console, component), minLevel)
	}

	promtailLogger, err := NewPromtailLogger(f.config.Promtail, component)
	if err != nil {
		// Fall back to the console if promtail is not available
		fallback := NewLevelFilterLogger(NewConsoleLogger(f.console, component), minLevel)
		fallback.Warn(context.Background(), "Promtail unavailable, logging to console",
			domain.ErrorField(err))
		return fallback
	}

	f.mu.Lock()
	f.clients = append(f.clients, promtailLogger)
	f.mu.Unlock()

	var logger domain.Logger = NewLevelFilterLogger(promtailLogger, minLevel)

	// Wrap with debug logger if debug mode is enabled
	if f.config.Debug {
		logger = NewDebugLogger(logger, component, f.console)
	}

	return logger
}

// Shutdown flushes and closes every promtail client created so far
func (f *LoggerFactoryImpl) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, client := range f.clients {
		_ = client.Shutdown()
	}
	f.clients = nil
	return nil
}

// LevelFilterLogger filters log messages based on minimum level
type LevelFilterLogger struct {
	wrapped  domain.Logger
	minLevel domain.LogLevel
}

func NewLevelFilterLogger(wrapped domain.Logger, minLevel domain.LogLevel) *LevelFilterLogger {
	return &LevelFilterLogger{
		wrapped:  wrapped,
		minLevel: minLevel,
	}
}

func (l *LevelFilterLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelDebug >= l.minLevel {
		l.wrapped.Debug(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelInfo >= l.minLevel {
		l.wrapped.Info(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelWarn >= l.minLevel {
		l.wrapped.Warn(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelError >= l.minLevel {
		l.wrapped.Error(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &LevelFilterLogger{
		wrapped:  l.wrapped.WithFields(fields...),
		minLevel: l.minLevel,
	}
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) Info(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Warn(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) WithFields(fields ...domain.Field) domain.Logger {
	return n
}
