package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ca-srg/habitflow/domain/valueobject"
)

// CompletionMeta carries what the caller knows about a completion
type CompletionMeta struct {
	Note   string
	Source string // cli, scheduler, api
}

// Completion is an append-only audit record of a credited completion
type Completion struct {
	ID         string
	HabitID    string
	OwnerID    string
	Day        valueobject.LocalDate
	Kind       valueobject.CompletionKind
	Note       string
	Source     string
	Streak     int
	RecordedAt time.Time
}

// NewCompletion records that h was credited for day
func NewCompletion(h Habit, kind valueobject.CompletionKind, day valueobject.LocalDate, meta CompletionMeta, recordedAt time.Time) *Completion {
	return &Completion{
		ID:         uuid.NewString(),
		HabitID:    h.ID,
		OwnerID:    h.OwnerID,
		Day:        day,
		Kind:       kind,
		Note:       meta.Note,
		Source:     meta.Source,
		Streak:     h.Streak,
		RecordedAt: recordedAt.UTC(),
	}
}
