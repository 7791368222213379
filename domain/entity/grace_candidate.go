package entity

import (
	"sort"

	"github.com/ca-srg/habitflow/domain/valueobject"
)

// GraceReason explains why a habit is offered the grace window
type GraceReason string

const (
	GraceReasonDoneYesterday GraceReason = "done_yesterday"
	GraceReasonMissedOneDay  GraceReason = "missed_one_day"
)

// GraceCandidate is a habit whose resolved state still allows redeeming yesterday
type GraceCandidate struct {
	Habit  Habit
	Reason GraceReason
	Day    valueobject.LocalDate
}

// NewGraceCandidate returns a candidate for h on today, or nil if h is not eligible
func NewGraceCandidate(h Habit, today valueobject.LocalDate) *GraceCandidate {
	reason := GraceReasonFor(h, today)
	if reason == "" {
		return nil
	}
	return &GraceCandidate{Habit: h, Reason: reason, Day: today}
}

// SortGraceCandidates orders candidates by creation day, then name, then ID
func SortGraceCandidates(candidates []GraceCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Habit, candidates[j].Habit
		if a.CreatedDay != b.CreatedDay {
			return a.CreatedDay.Before(b.CreatedDay)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
