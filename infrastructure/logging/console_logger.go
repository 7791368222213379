package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ca-srg/habitflow/domain"
)

// ConsoleLogger writes one line per entry to a writer, usually stderr
type ConsoleLogger struct {
	out       io.Writer
	component string
	fields    []domain.Field
	mu        *sync.Mutex
	now       func() time.Time
}

func NewConsoleLogger(out io.Writer, component string) *ConsoleLogger {
	return &ConsoleLogger{
		out:       out,
		component: component,
		mu:        &sync.Mutex{},
		now:       time.Now,
	}
}

func (c *ConsoleLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	c.write(domain.LogLevelDebug, msg, fields...)
}

func (c *ConsoleLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	c.write(domain.LogLevelInfo, msg, fields...)
}

func (c *ConsoleLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	c.write(domain.LogLevelWarn, msg, fields...)
}

func (c *ConsoleLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	c.write(domain.LogLevelError, msg, fields...)
}

func (c *ConsoleLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &ConsoleLogger{
		out:       c.out,
		component: c.component,
		fields:    mergeFields(c.fields, fields),
		mu:        c.mu,
		now:       c.now,
	}
}

func (c *ConsoleLogger) write(level domain.LogLevel, msg string, fields ...domain.Field) {
	line := formatLine(c.now(), level, c.component, msg, mergeFields(c.fields, fields))

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.out, line)
}

func formatLine(ts time.Time, level domain.LogLevel, component, msg string, fields []domain.Field) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s] %s", ts.Format("2006-01-02T15:04:05.000Z07:00"), levelToString(level), component, msg)
	if len(fields) > 0 {
		b.WriteString(" {")
		b.WriteString(formatFields(fields))
		b.WriteString("}")
	}
	return b.String()
}

func formatFields(fields []domain.Field) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s=%v", field.Key, field.Value))
	}
	return strings.Join(parts, ", ")
}

func mergeFields(base, extra []domain.Field) []domain.Field {
	merged := make([]domain.Field, 0, len(base)+len(extra))
	merged = append(merged, base...)
	return append(merged, extra...)
}
