package repository

import (
	"context"

	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/repository"
)

// NoOpMetricsRepository is used when no remote write URL is configured
type NoOpMetricsRepository struct{}

// NewNoOpMetricsRepository creates a new no-op metrics repository
func NewNoOpMetricsRepository() repository.MetricsRepository {
	return &NoOpMetricsRepository{}
}

// SendHabitGauges does nothing
func (r *NoOpMetricsRepository) SendHabitGauges(ctx context.Context, gauges *entity.HabitGauges) error {
	return nil
}

// Close does nothing
func (r *NoOpMetricsRepository) Close() error {
	return nil
}
