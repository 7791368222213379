package repository

import (
	"context"

	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/valueobject"
)

// HabitRepository persists habit snapshots. Writes are compare-and-swap on
// Habit.Version so concurrent resolution and completion of the same habit
// cannot overwrite each other.
type HabitRepository interface {
	// Create inserts a new habit at version 1 and returns the stored snapshot
	Create(ctx context.Context, h entity.Habit) (entity.Habit, error)

	// FindByID returns NOT_FOUND when the habit does not exist
	FindByID(ctx context.Context, id string) (entity.Habit, error)

	// FindByOwner returns every habit of the owner ordered by creation day and name
	FindByOwner(ctx context.Context, ownerID string) ([]entity.Habit, error)

	// Save overwrites the habit if its stored version still equals
	// expectedVersion, and returns the snapshot with the bumped version.
	// A version mismatch returns CONFLICT.
	Save(ctx context.Context, h entity.Habit, expectedVersion int64) (entity.Habit, error)

	// SaveWithCompletion is Save plus an appended completion record, in one transaction
	SaveWithCompletion(ctx context.Context, h entity.Habit, expectedVersion int64, c *entity.Completion) (entity.Habit, error)
}

// CompletionRepository reads the completion audit log
type CompletionRepository interface {
	// FindByHabit returns the habit's completions, oldest first
	FindByHabit(ctx context.Context, habitID string) ([]*entity.Completion, error)

	// FindByOwnerBetween returns the owner's completions whose day lies in
	// [from, to]; a zero bound is open
	FindByOwnerBetween(ctx context.Context, ownerID string, from, to valueobject.LocalDate) ([]*entity.Completion, error)
}
