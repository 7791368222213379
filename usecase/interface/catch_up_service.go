package usecase

import (
	"context"
	"time"

	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/valueobject"
)

// ResolveResult is one habit brought up to date with the current local day
type ResolveResult struct {
	Habit entity.Habit
	// Grace is set when yesterday can still be redeemed
	Grace *entity.GraceCandidate
	// Changed reports whether any lifecycle field moved
	Changed bool
	// DaysReplayed counts the rollovers applied one by one
	DaysReplayed int
	// Collapsed reports that days past the replay cap were folded into one rollover
	Collapsed bool
}

// CatchUpProcessor replays the days a habit has not seen yet. It reads no
// clock and performs no I/O.
type CatchUpProcessor interface {
	Resolve(h entity.Habit, loc *time.Location, ref time.Time) ResolveResult
}

// ResolveFailure is a habit left untouched during an owner pass
type ResolveFailure struct {
	HabitID string
	Err     error
}

// ResolveOwnerResult summarizes an owner pass
type ResolveOwnerResult struct {
	OwnerID  string
	Today    valueobject.LocalDate
	Timezone string
	// TimezoneFallback reports that the configured zone was unknown and UTC was used
	TimezoneFallback bool

	// Habits holds every resolved snapshot in repository order
	Habits []entity.Habit
	// Grace lists the grace window candidates, oldest habit first
	Grace   []entity.GraceCandidate
	Changed int
	Failed  []ResolveFailure
}

// CatchUpService resolves stored habits and commits the result
type CatchUpService interface {
	// ResolveHabit resolves and saves one habit
	ResolveHabit(ctx context.Context, habitID string, timezone string, ref time.Time) (*ResolveResult, error)

	// ResolveOwner resolves every habit of the owner in parallel. Habits
	// that fail are listed in Failed; the others are still committed.
	ResolveOwner(ctx context.Context, ownerID string, timezone string, ref time.Time) (*ResolveOwnerResult, error)
}
