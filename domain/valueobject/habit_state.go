package valueobject

import "fmt"

// HabitState is the lifecycle position of a habit relative to the owner's current local day
type HabitState string

const (
	// HabitStateLively is an active habit not yet done today
	HabitStateLively HabitState = "lively"
	// HabitStateDoneToday means a completion was credited for the current local day
	HabitStateDoneToday HabitState = "done_today"
	// HabitStateDoneYesterday means the last credited completion was for the previous local day
	HabitStateDoneYesterday HabitState = "done_yesterday"
	// HabitStateJunked means the grace window closed unused and the streak was reset
	HabitStateJunked HabitState = "junked"
)

// HabitStates lists every state in display order
var HabitStates = []HabitState{
	HabitStateLively,
	HabitStateDoneToday,
	HabitStateDoneYesterday,
	HabitStateJunked,
}

// Valid reports whether s is a known state
func (s HabitState) Valid() bool {
	switch s {
	case HabitStateLively, HabitStateDoneToday, HabitStateDoneYesterday, HabitStateJunked:
		return true
	}
	return false
}

func (s HabitState) String() string {
	return string(s)
}

// ParseHabitState converts stored text into a HabitState
func ParseHabitState(s string) (HabitState, error) {
	state := HabitState(s)
	if !state.Valid() {
		return "", fmt.Errorf("unknown habit state %q", s)
	}
	return state, nil
}

// Event is a time-triggered input to the lifecycle transition
type Event string

const (
	// EventDayRollover fires once for every local day boundary a habit crosses
	EventDayRollover Event = "day_rollover"
	// EventDailyDecay refreshes the neglect accounting of a junked habit
	EventDailyDecay Event = "daily_decay"
)

// Valid reports whether e is a known event
func (e Event) Valid() bool {
	switch e {
	case EventDayRollover, EventDailyDecay:
		return true
	}
	return false
}

func (e Event) String() string {
	return string(e)
}

// ParseEvent converts text into an Event
func ParseEvent(s string) (Event, error) {
	ev := Event(s)
	if !ev.Valid() {
		return "", fmt.Errorf("unknown habit event %q", s)
	}
	return ev, nil
}

// CompletionKind distinguishes a same-day completion from a grace redemption
type CompletionKind string

const (
	CompletionKindToday     CompletionKind = "today"
	CompletionKindYesterday CompletionKind = "yesterday"
)

// Valid reports whether k is a known completion kind
func (k CompletionKind) Valid() bool {
	return k == CompletionKindToday || k == CompletionKindYesterday
}

func (k CompletionKind) String() string {
	return string(k)
}
