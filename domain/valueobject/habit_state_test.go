package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHabitState(t *testing.T) {
	for _, s := range HabitStates {
		parsed, err := ParseHabitState(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
		assert.True(t, parsed.Valid())
	}

	_, err := ParseHabitState("sleeping")
	assert.Error(t, err)
	assert.False(t, HabitState("").Valid())
}

func TestParseEvent(t *testing.T) {
	ev, err := ParseEvent("day_rollover")
	require.NoError(t, err)
	assert.Equal(t, EventDayRollover, ev)

	ev, err = ParseEvent("daily_decay")
	require.NoError(t, err)
	assert.Equal(t, EventDailyDecay, ev)

	_, err = ParseEvent("weekly_review")
	assert.Error(t, err)
}

func TestCompletionKind_Valid(t *testing.T) {
	assert.True(t, CompletionKindToday.Valid())
	assert.True(t, CompletionKindYesterday.Valid())
	assert.False(t, CompletionKind("tomorrow").Valid())
}
