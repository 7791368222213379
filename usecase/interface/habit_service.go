package usecase

import (
	"context"
	"time"

	"github.com/ca-srg/habitflow/domain/entity"
)

// HabitService is the thin create/read surface over the habit store
type HabitService interface {
	Create(ctx context.Context, ownerID, name, timezone string, ref time.Time) (entity.Habit, error)
	List(ctx context.Context, ownerID string) ([]entity.Habit, error)
	Get(ctx context.Context, habitID string) (entity.Habit, error)
	History(ctx context.Context, habitID string) ([]*entity.Completion, error)
}
