package entity

import (
	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/valueobject"
)

// Apply runs one lifecycle event for the local day asOf and returns the next
// snapshot. It reads no clock and performs no I/O. When nothing applies the
// input is returned unchanged, so callers can detect a no-op with ==.
func Apply(h Habit, ev valueobject.Event, asOf valueobject.LocalDate) Habit {
	switch ev {
	case valueobject.EventDayRollover:
		return rollover(h, asOf)
	case valueobject.EventDailyDecay:
		return decay(h, asOf)
	}
	return h
}

func rollover(h Habit, asOf valueobject.LocalDate) Habit {
	switch h.State {
	case valueobject.HabitStateDoneToday:
		if asOf.After(h.LastCompletedDay) {
			h.State = valueobject.HabitStateDoneYesterday
		}
		return h

	case valueobject.HabitStateDoneYesterday:
		// A redemption recorded on the day that just ended counts as that
		// day's completion.
		if !h.GraceCreditDay.IsZero() && h.GraceCreditDay == asOf.AddDays(-1) {
			h.LastCompletedDay = valueobject.MaxDate(h.LastCompletedDay, h.GraceCreditDay)
			h.GraceCreditDay = valueobject.LocalDate{}
			return h
		}
		switch elapsed := h.DaysSinceCompletion(asOf); {
		case elapsed == 1:
			h.State = valueobject.HabitStateLively
		case elapsed >= 2:
			return junk(h, asOf, elapsed)
		}
		return h

	case valueobject.HabitStateLively:
		if h.NeverCompleted() {
			return h
		}
		if elapsed := h.DaysSinceCompletion(asOf); elapsed >= 2 {
			return junk(h, asOf, elapsed)
		}
		return h

	case valueobject.HabitStateJunked:
		return decay(h, asOf)
	}
	return h
}

func junk(h Habit, asOf valueobject.LocalDate, elapsed int) Habit {
	h.State = valueobject.HabitStateJunked
	h.Streak = 0
	h.JunkedSince = asOf
	h.NeglectedDays = elapsed
	h.GraceCreditDay = valueobject.LocalDate{}
	return h
}

// decay refreshes the neglect counter of a junked habit. The value is derived
// from asOf alone, so applying it twice for the same day changes nothing.
func decay(h Habit, asOf valueobject.LocalDate) Habit {
	if h.State != valueobject.HabitStateJunked {
		return h
	}
	from := h.LastCompletedDay
	if from.IsZero() {
		from = h.JunkedSince
	}
	if from.IsZero() {
		return h
	}
	if n := from.DaysUntil(asOf); n >= 0 {
		h.NeglectedDays = n
	}
	return h
}

// IsGraceEligible reports whether the one-day grace window is open on today
func IsGraceEligible(h Habit, today valueobject.LocalDate) bool {
	if !h.GraceCreditDay.IsZero() && h.GraceCreditDay == today {
		return false
	}
	switch h.State {
	case valueobject.HabitStateDoneYesterday:
		return true
	case valueobject.HabitStateLively:
		return h.DaysSinceCompletion(today) == 1
	}
	return false
}

// GraceReasonFor names why h is grace eligible on today, or returns "" when it is not
func GraceReasonFor(h Habit, today valueobject.LocalDate) GraceReason {
	if !IsGraceEligible(h, today) {
		return ""
	}
	if h.State == valueobject.HabitStateDoneYesterday {
		return GraceReasonDoneYesterday
	}
	return GraceReasonMissedOneDay
}

// CompleteToday credits a completion for today. A junked habit is revived
// with a fresh streak of one.
func CompleteToday(h Habit, today valueobject.LocalDate) (Habit, error) {
	if h.LastResolvedDay.After(today) {
		return h, domain.ErrStaleReference(h.ID, today.String(), h.LastResolvedDay.String())
	}
	if h.State == valueobject.HabitStateDoneToday {
		return h, domain.ErrDoubleCompletion(h.ID, today.String())
	}
	if !h.GraceCreditDay.IsZero() && h.GraceCreditDay == today {
		return h, domain.ErrDoubleCompletion(h.ID, today.String()).
			WithDetails("graceCreditDay", h.GraceCreditDay.String())
	}
	if !h.LastCompletedDay.IsZero() && !today.After(h.LastCompletedDay) {
		return h, domain.ErrStaleReference(h.ID, today.String(), h.LastCompletedDay.String()).
			WithDetails("lastCompletedDay", h.LastCompletedDay.String())
	}

	next := h
	if next.State == valueobject.HabitStateJunked {
		next.Streak = 1
	} else {
		next.Streak++
	}
	next.State = valueobject.HabitStateDoneToday
	next.LastCompletedDay = today
	next.JunkedSince = valueobject.LocalDate{}
	next.NeglectedDays = 0
	next.LongestStreak = max(next.LongestStreak, next.Streak)

	if err := next.Validate(); err != nil {
		return h, err
	}
	return next, nil
}

// CompleteYesterday redeems the grace window: yesterday is credited as if the
// user had acted before the rollover. The redemption is remembered on today so
// the next rollover keeps the streak alive.
func CompleteYesterday(h Habit, today valueobject.LocalDate) (Habit, error) {
	if h.LastResolvedDay.After(today) {
		return h, domain.ErrStaleReference(h.ID, today.String(), h.LastResolvedDay.String())
	}
	if !IsGraceEligible(h, today) {
		return h, domain.ErrGraceWindowExpired(h.ID, h.State.String()).
			WithDetails("today", today.String()).
			WithDetails("lastCompletedDay", h.LastCompletedDay.String())
	}

	next := h
	next.LastCompletedDay = valueobject.MaxDate(next.LastCompletedDay, today.AddDays(-1))
	next.State = valueobject.HabitStateDoneYesterday
	next.Streak++
	next.GraceCreditDay = today
	next.LongestStreak = max(next.LongestStreak, next.Streak)

	if err := next.Validate(); err != nil {
		return h, err
	}
	return next, nil
}
