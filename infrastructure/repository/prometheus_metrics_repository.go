package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/repository"
	"github.com/ca-srg/habitflow/infrastructure/config"
)

// Gauge names pushed after each owner pass
const (
	MetricHabitsTotal         = "habitflow_habits_total"
	MetricGraceCandidates     = "habitflow_grace_candidates"
	MetricHabitsJunked        = "habitflow_habits_junked"
	MetricLongestActiveStreak = "habitflow_longest_active_streak"
)

// PrometheusMetricsRepository implements MetricsRepository using Prometheus Remote Write
type PrometheusMetricsRepository struct {
	config    *config.PrometheusConfig
	rwClient  *RemoteWriteClient
	hostLabel string
}

// NewPrometheusMetricsRepository creates a new Prometheus metrics repository
func NewPrometheusMetricsRepository(cfg *config.PrometheusConfig) (*PrometheusMetricsRepository, error) {
	if cfg == nil {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("prometheus config is nil"))
	}
	if cfg.RemoteWriteURL == "" {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("remote write url is empty"))
	}

	hostLabel := cfg.HostLabel
	if hostLabel == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostLabel = "unknown"
		} else {
			hostLabel = hostname
		}
	}

	var authConfig *AuthConfig
	if cfg.RemoteWriteUsername != "" && cfg.RemoteWritePassword != "" {
		authConfig = &AuthConfig{
			Username: cfg.RemoteWriteUsername,
			Password: cfg.RemoteWritePassword,
		}
	}

	rwClient, err := NewRemoteWriteClient(cfg.RemoteWriteURL, time.Duration(cfg.TimeoutSec)*time.Second, authConfig)
	if err != nil {
		return nil, repository.NewMetricsRepositoryError("initialize", err)
	}

	return &PrometheusMetricsRepository{
		config:    cfg,
		rwClient:  rwClient,
		hostLabel: hostLabel,
	}, nil
}

// SendHabitGauges pushes the four habit gauges in a single write request
func (r *PrometheusMetricsRepository) SendHabitGauges(ctx context.Context, gauges *entity.HabitGauges) error {
	if gauges == nil {
		return repository.NewMetricsRepositoryError("send", fmt.Errorf("gauges are nil"))
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.config.TimeoutSec)*time.Second)
	defer cancel()

	if err := r.rwClient.Send(ctx, r.samples(gauges)); err != nil {
		if ctx.Err() != nil {
			return repository.NewMetricsRepositoryError("send", fmt.Errorf("timeout: %w", err))
		}
		return repository.NewMetricsRepositoryError("send", err)
	}
	return nil
}

func (r *PrometheusMetricsRepository) samples(g *entity.HabitGauges) []gaugeSample {
	labels := map[string]string{
		"host":  r.hostLabel,
		"owner": g.OwnerID,
	}
	if g.Timezone != "" {
		labels["timezone"] = g.Timezone
	}
	if g.TimezoneOffset != "" {
		labels["timezone_offset"] = g.TimezoneOffset
	}

	ts := g.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	ms := ts.UnixMilli()

	return []gaugeSample{
		{Name: MetricHabitsTotal, Value: float64(g.HabitsTotal), Labels: labels, TimestampMs: ms},
		{Name: MetricGraceCandidates, Value: float64(g.GraceCandidates), Labels: labels, TimestampMs: ms},
		{Name: MetricHabitsJunked, Value: float64(g.Junked), Labels: labels, TimestampMs: ms},
		{Name: MetricLongestActiveStreak, Value: float64(g.LongestActiveStreak), Labels: labels, TimestampMs: ms},
	}
}

// Close cleans up resources
func (r *PrometheusMetricsRepository) Close() error {
	// Remote Write client doesn't require explicit cleanup
	return nil
}
