package entity

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/valueobject"
)

func TestNewHabit(t *testing.T) {
	h, err := NewHabit(" owner ", "  stretch  ", day(1))
	require.NoError(t, err)

	_, parseErr := uuid.Parse(h.ID)
	assert.NoError(t, parseErr)
	assert.Equal(t, "owner", h.OwnerID)
	assert.Equal(t, "stretch", h.Name)
	assert.Equal(t, valueobject.HabitStateLively, h.State)
	assert.Equal(t, day(1), h.CreatedDay)
	assert.Equal(t, day(1), h.LastResolvedDay)
	assert.True(t, h.NeverCompleted())
	assert.Zero(t, h.Version)
	assert.NoError(t, h.Validate())
}

func TestNewHabit_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		habit   string
		today   valueobject.LocalDate
	}{
		{"empty owner", "", "read", day(1)},
		{"empty name", "owner", "   ", day(1)},
		{"long name", "owner", strings.Repeat("a", MaxHabitNameLength+1), day(1)},
		{"no day", "owner", "read", valueobject.LocalDate{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHabit(tt.ownerID, tt.habit, tt.today)
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidInput))
		})
	}
}

func TestHabit_Validate(t *testing.T) {
	valid := completedHabit(valueobject.HabitStateDoneToday, day(2), 2)
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(h *Habit)
	}{
		{"unknown state", func(h *Habit) { h.State = "sleeping" }},
		{"negative streak", func(h *Habit) { h.Streak = -1 }},
		{"longest below streak", func(h *Habit) { h.LongestStreak = 1 }},
		{"done without completion day", func(h *Habit) { h.LastCompletedDay = valueobject.LocalDate{} }},
		{"junked with streak", func(h *Habit) {
			h.State = valueobject.HabitStateJunked
			h.JunkedSince = day(3)
		}},
		{"junked without junked since", func(h *Habit) {
			h.State = valueobject.HabitStateJunked
			h.Streak = 0
		}},
		{"lively with junked since", func(h *Habit) {
			h.State = valueobject.HabitStateLively
			h.JunkedSince = day(3)
		}},
		{"zero streak after completing", func(h *Habit) {
			h.State = valueobject.HabitStateLively
			h.Streak = 0
		}},
		{"watermark before creation", func(h *Habit) {
			h.CreatedDay = day(5)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := valid
			tt.mutate(&h)

			err := h.Validate()
			require.Error(t, err)
			assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvariantViolation))
		})
	}
}

func TestSortGraceCandidates(t *testing.T) {
	mk := func(id, name string, created valueobject.LocalDate) GraceCandidate {
		return GraceCandidate{Habit: Habit{ID: id, Name: name, CreatedDay: created}}
	}
	candidates := []GraceCandidate{
		mk("c", "walk", day(3)),
		mk("b", "read", day(3)),
		mk("a", "read", day(3)),
		mk("z", "zzz", day(1)),
	}

	SortGraceCandidates(candidates)

	var ids []string
	for _, c := range candidates {
		ids = append(ids, c.Habit.ID)
	}
	assert.Equal(t, []string{"z", "a", "b", "c"}, ids)
}

func TestNewGraceCandidate(t *testing.T) {
	c := NewGraceCandidate(completedHabit(valueobject.HabitStateDoneYesterday, day(2), 1), day(3))
	require.NotNil(t, c)
	assert.Equal(t, GraceReasonDoneYesterday, c.Reason)
	assert.Equal(t, day(3), c.Day)

	assert.Nil(t, NewGraceCandidate(completedHabit(valueobject.HabitStateDoneToday, day(3), 1), day(3)))
}

func TestNewHabitGauges(t *testing.T) {
	habits := []Habit{
		completedHabit(valueobject.HabitStateDoneToday, day(3), 4),
		completedHabit(valueobject.HabitStateLively, day(2), 7),
		{State: valueobject.HabitStateJunked, LongestStreak: 12},
	}

	g := NewHabitGauges("owner", day(3).StartIn(nil), habits, 1).WithTimezone("UTC", "+00:00")

	assert.Equal(t, 3, g.HabitsTotal)
	assert.Equal(t, 1, g.GraceCandidates)
	assert.Equal(t, 1, g.Junked)
	assert.Equal(t, 7, g.LongestActiveStreak)
	assert.Equal(t, "UTC", g.Timezone)
}
