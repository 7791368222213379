package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/infrastructure/config"
)

// MockLogger is a test logger that tracks method calls
type MockLogger struct {
	debugCalls []string
	infoCalls  []string
	warnCalls  []string
	errorCalls []string
	fields     []domain.Field
}

func (m *MockLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	m.debugCalls = append(m.debugCalls, msg)
}

func (m *MockLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	m.infoCalls = append(m.infoCalls, msg)
}

func (m *MockLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	m.warnCalls = append(m.warnCalls, msg)
}

func (m *MockLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	m.errorCalls = append(m.errorCalls, msg)
}

func (m *MockLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &MockLogger{
		fields: append(append([]domain.Field{}, m.fields...), fields...),
	}
}

func TestDebugLogger_MirrorsToConsole(t *testing.T) {
	mockLogger := &MockLogger{}
	var out bytes.Buffer
	debugLogger := NewDebugLogger(mockLogger, "catchup", &out)
	ctx := context.Background()

	debugLogger.Debug(ctx, "replaying day")
	debugLogger.Info(ctx, "habit resolved", domain.NewField("habit_id", "h1"))
	debugLogger.Warn(ctx, "timezone fallback")
	debugLogger.Error(ctx, "save failed")

	assert.Equal(t, []string{"replaying day"}, mockLogger.debugCalls)
	assert.Equal(t, []string{"habit resolved"}, mockLogger.infoCalls)
	assert.Equal(t, []string{"timezone fallback"}, mockLogger.warnCalls)
	assert.Equal(t, []string{"save failed"}, mockLogger.errorCalls)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[INFO] [catchup] habit resolved {habit_id=h1}")
	assert.Contains(t, lines[1], "[WARN]")
	assert.Contains(t, lines[2], "[ERROR]")
	assert.NotContains(t, out.String(), "replaying day")
}

func TestDebugLogger_WithFields(t *testing.T) {
	mockLogger := &MockLogger{}
	var out bytes.Buffer

	child := NewDebugLogger(mockLogger, "completion", &out).WithFields(domain.NewField("owner_id", "alice"))
	child.Info(context.Background(), "done")

	assert.Contains(t, out.String(), "done {owner_id=alice}")
	assert.Empty(t, mockLogger.infoCalls)
}

func TestConsoleLogger(t *testing.T) {
	var out bytes.Buffer
	logger := NewConsoleLogger(&out, "cli").WithFields(domain.NewField("owner_id", "bob"))

	logger.Warn(context.Background(), "unknown timezone", domain.NewField("timezone", "Mars/Base"))

	line := out.String()
	assert.Contains(t, line, "[WARN] [cli] unknown timezone")
	assert.Contains(t, line, "owner_id=bob, timezone=Mars/Base")
}

func TestLevelFilterLogger(t *testing.T) {
	mockLogger := &MockLogger{}
	logger := NewLevelFilterLogger(mockLogger, domain.LogLevelWarn)
	ctx := context.Background()

	logger.Debug(ctx, "d")
	logger.Info(ctx, "i")
	logger.Warn(ctx, "w")
	logger.Error(ctx, "e")

	assert.Empty(t, mockLogger.debugCalls)
	assert.Empty(t, mockLogger.infoCalls)
	assert.Equal(t, []string{"w"}, mockLogger.warnCalls)
	assert.Equal(t, []string{"e"}, mockLogger.errorCalls)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, domain.LogLevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, domain.LogLevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, domain.LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, domain.LogLevelInfo, ParseLogLevel("chatty"))
}

func TestLoggerFactory_ConsoleFallback(t *testing.T) {
	var out bytes.Buffer
	factory := NewLoggerFactoryWithWriter(&config.LoggingConfig{
		Level:    "info",
		Promtail: &config.PromtailConfig{URL: ""},
	}, &out)

	logger := factory.CreateLogger("main")
	logger.Debug(context.Background(), "hidden")
	logger.Info(context.Background(), "shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "[INFO] [main] shown")
	assert.NoError(t, factory.Shutdown())
}

func TestLoggerFactory_NilConfig(t *testing.T) {
	factory := NewLoggerFactoryWithWriter(nil, &bytes.Buffer{})
	assert.IsType(t, &NoOpLogger{}, factory.CreateLogger("main"))
}
