package usecase

import (
	"context"
	"time"

	"github.com/ca-srg/habitflow/domain/entity"
)

// CompletionResult is the committed snapshot and its audit record
type CompletionResult struct {
	Habit      entity.Habit
	Completion *entity.Completion
}

// CompletionService records completions. Both operations resolve the habit
// to the current local day first.
type CompletionService interface {
	// CompleteForToday fails with DOUBLE_COMPLETION if today is already credited
	CompleteForToday(ctx context.Context, habitID string, meta entity.CompletionMeta, timezone string, ref time.Time) (*CompletionResult, error)

	// CompleteForYesterday redeems the grace window, or fails with GRACE_WINDOW_EXPIRED
	CompleteForYesterday(ctx context.Context, habitID string, meta entity.CompletionMeta, timezone string, ref time.Time) (*CompletionResult, error)
}
