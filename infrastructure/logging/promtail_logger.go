package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/ic2hrmk/promtail"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/infrastructure/config"
)

const promtailBatchSize = 100

// PromtailLogger pushes entries to Loki. Fields go into the log line, not
// into labels, to keep stream cardinality bounded.
type PromtailLogger struct {
	client    promtail.Client
	component string
	fields    []domain.Field
	owned     bool
}

func NewPromtailLogger(cfg *config.PromtailConfig, component string) (*PromtailLogger, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("promtail URL is not configured")
	}

	// Default labels for all logs
	defaultLabels := map[string]string{
		"app":       "habitflow",
		"component": component,
	}

	batchWait := time.Duration(cfg.BatchWaitSeconds) * time.Second
	if batchWait <= 0 {
		batchWait = time.Second
	}

	client, err := promtail.NewJSONv1Client(
		cfg.URL,
		defaultLabels,
		promtail.WithSendBatchSize(promtailBatchSize),
		promtail.WithSendBatchTimeout(batchWait),
		promtail.WithBasicAuth(cfg.Username, cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create promtail client: %w", err)
	}

	return &PromtailLogger{
		client:    client,
		component: component,
		owned:     true,
	}, nil
}

func (p *PromtailLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelDebug, msg, fields...)
}

func (p *PromtailLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelInfo, msg, fields...)
}

func (p *PromtailLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelWarn, msg, fields...)
}

func (p *PromtailLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	p.log(domain.LogLevelError, msg, fields...)
}

// WithFields returns a child that shares the client; only the parent closes it
func (p *PromtailLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &PromtailLogger{
		client:    p.client,
		component: p.component,
		fields:    mergeFields(p.fields, fields),
	}
}

func (p *PromtailLogger) log(level domain.LogLevel, msg string, fields ...domain.Field) {
	labels := map[string]string{
		"level": levelToString(level),
	}

	line := msg
	if all := mergeFields(p.fields, fields); len(all) > 0 {
		line = msg + " {" + formatFields(all) + "}"
	}

	p.client.LogfWithLabels(toPromtailLevel(level), labels, "%s", line)
}

func toPromtailLevel(level domain.LogLevel) promtail.Level {
	switch level {
	case domain.LogLevelDebug:
		return promtail.Debug
	case domain.LogLevelInfo:
		return promtail.Info
	case domain.LogLevelWarn:
		return promtail.Warn
	case domain.LogLevelError:
		return promtail.Error
	default:
		return promtail.Info
	}
}

func (p *PromtailLogger) Shutdown() error {
	if p.owned && p.client != nil {
		p.client.Close()
	}
	return nil
}
