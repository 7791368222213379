package entity

import (
	"time"

	"github.com/ca-srg/habitflow/domain/valueobject"
)

// HabitGauges is the per-owner summary pushed to the metrics backend after a resolution pass
type HabitGauges struct {
	OwnerID             string
	Timestamp           time.Time
	HabitsTotal         int
	GraceCandidates     int
	Junked              int
	LongestActiveStreak int
	Timezone            string
	TimezoneOffset      string
}

// NewHabitGauges summarizes a set of resolved habits
func NewHabitGauges(ownerID string, timestamp time.Time, habits []Habit, graceCandidates int) *HabitGauges {
	g := &HabitGauges{
		OwnerID:         ownerID,
		Timestamp:       timestamp,
		HabitsTotal:     len(habits),
		GraceCandidates: graceCandidates,
	}
	for _, h := range habits {
		if h.State == valueobject.HabitStateJunked {
			g.Junked++
			continue
		}
		g.LongestActiveStreak = max(g.LongestActiveStreak, h.Streak)
	}
	return g
}

// WithTimezone sets timezone information
func (g *HabitGauges) WithTimezone(timezone, offset string) *HabitGauges {
	g.Timezone = timezone
	g.TimezoneOffset = offset
	return g
}
