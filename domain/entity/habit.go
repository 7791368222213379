package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/valueobject"
)

// MaxHabitNameLength bounds the display label
const MaxHabitNameLength = 120

// Habit is the persisted snapshot of one habit. It is a plain value: the
// lifecycle functions take a Habit and return a new one, so two snapshots can
// be compared with ==.
type Habit struct {
	ID      string
	OwnerID string
	Name    string

	State         valueobject.HabitState
	Streak        int
	LongestStreak int

	// LastCompletedDay is the last local day a completion was credited for
	LastCompletedDay valueobject.LocalDate
	// LastResolvedDay is the catch-up watermark
	LastResolvedDay valueobject.LocalDate
	JunkedSince     valueobject.LocalDate
	CreatedDay      valueobject.LocalDate
	// GraceCreditDay is the local day a grace redemption was recorded on.
	// The next rollover folds it into LastCompletedDay.
	GraceCreditDay valueobject.LocalDate
	NeglectedDays  int

	Version int64
}

// NewHabit creates a lively habit on the owner's current local day. A new
// habit counts as resolved through its creation day.
func NewHabit(ownerID, name string, today valueobject.LocalDate) (Habit, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Habit{}, domain.ErrInvalidInput("ownerID", "must not be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Habit{}, domain.ErrInvalidInput("name", "must not be empty")
	}
	if utf8.RuneCountInString(name) > MaxHabitNameLength {
		return Habit{}, domain.ErrInvalidInput("name", fmt.Sprintf("must be at most %d characters", MaxHabitNameLength))
	}
	if today.IsZero() {
		return Habit{}, domain.ErrInvalidInput("today", "must be set")
	}

	return Habit{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Name:            name,
		State:           valueobject.HabitStateLively,
		CreatedDay:      today,
		LastResolvedDay: today,
	}, nil
}

// NeverCompleted reports whether no completion has ever been credited
func (h Habit) NeverCompleted() bool {
	return h.LastCompletedDay.IsZero()
}

// DaysSinceCompletion returns the calendar days from the last credited
// completion to asOf, or valueobject.InfiniteDays if there is none.
func (h Habit) DaysSinceCompletion(asOf valueobject.LocalDate) int {
	return h.LastCompletedDay.DaysUntil(asOf)
}

// SameLifecycle reports whether two snapshots agree on every field the
// lifecycle owns, ignoring the watermark and version.
func (h Habit) SameLifecycle(o Habit) bool {
	h.LastResolvedDay, o.LastResolvedDay = valueobject.LocalDate{}, valueobject.LocalDate{}
	h.Version, o.Version = 0, 0
	return h == o
}

// Validate checks the structural invariants of the snapshot
func (h Habit) Validate() error {
	violation := func(rule string) error {
		return domain.ErrInvariantViolation(h.ID, rule).
			WithDetails("state", h.State.String()).
			WithDetails("streak", h.Streak).
			WithDetails("longestStreak", h.LongestStreak)
	}

	if !h.State.Valid() {
		return violation("state is known")
	}
	if h.Streak < 0 {
		return violation("streak >= 0")
	}
	if h.LongestStreak < h.Streak {
		return violation("longest_streak >= streak")
	}
	if h.NeglectedDays < 0 {
		return violation("neglected_days >= 0")
	}

	switch h.State {
	case valueobject.HabitStateDoneToday, valueobject.HabitStateDoneYesterday:
		if h.NeverCompleted() {
			return violation("done states have a completion day")
		}
		if !h.JunkedSince.IsZero() {
			return violation("junked_since is cleared outside junked")
		}
	case valueobject.HabitStateJunked:
		if h.Streak != 0 {
			return violation("junked streak is zero")
		}
		if h.JunkedSince.IsZero() {
			return violation("junked habits have junked_since")
		}
	case valueobject.HabitStateLively:
		if !h.JunkedSince.IsZero() {
			return violation("junked_since is cleared outside junked")
		}
	}

	if h.Streak == 0 && h.State != valueobject.HabitStateJunked && !h.NeverCompleted() {
		return violation("streak = 0 implies junked or never completed")
	}
	if h.Streak > 0 && h.NeverCompleted() {
		return violation("a positive streak has a completion day")
	}
	if !h.CreatedDay.IsZero() && !h.LastResolvedDay.IsZero() && h.LastResolvedDay.Before(h.CreatedDay) {
		return violation("watermark is not before creation")
	}
	return nil
}
