package logging

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ca-srg/habitflow/domain"
)

// DebugLogger forwards to a wrapped logger and mirrors every non-debug entry
// to the console, so Loki-backed runs still show output locally.
type DebugLogger struct {
	wrapped   domain.Logger
	component string
	out       io.Writer
	fields    []domain.Field
	mu        *sync.Mutex
}

func NewDebugLogger(wrapped domain.Logger, component string, out io.Writer) *DebugLogger {
	return &DebugLogger{
		wrapped:   wrapped,
		component: component,
		out:       out,
		mu:        &sync.Mutex{},
	}
}

func (d *DebugLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Debug(ctx, msg, fields...)
	d.mirror(domain.LogLevelDebug, msg, fields...)
}

func (d *DebugLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Info(ctx, msg, fields...)
	d.mirror(domain.LogLevelInfo, msg, fields...)
}

func (d *DebugLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Warn(ctx, msg, fields...)
	d.mirror(domain.LogLevelWarn, msg, fields...)
}

func (d *DebugLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	d.wrapped.Error(ctx, msg, fields...)
	d.mirror(domain.LogLevelError, msg, fields...)
}

func (d *DebugLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &DebugLogger{
		wrapped:   d.wrapped.WithFields(fields...),
		component: d.component,
		out:       d.out,
		fields:    mergeFields(d.fields, fields),
		mu:        d.mu,
	}
}

func (d *DebugLogger) mirror(level domain.LogLevel, msg string, fields ...domain.Field) {
	// Debug entries only go to the wrapped logger
	if level == domain.LogLevelDebug || d.out == nil {
		return
	}

	line := formatLine(time.Now(), level, d.component, msg, mergeFields(d.fields, fields))

	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = fmt.Fprintln(d.out, line)
}

func (d *DebugLogger) Shutdown() error {
	if shutdowner, ok := d.wrapped.(interface{ Shutdown() error }); ok {
		return shutdowner.Shutdown()
	}
	return nil
}
