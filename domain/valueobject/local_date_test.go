package valueobject

import (
	"encoding/json"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalDate(t *testing.T) {
	d := NewLocalDate(2024, time.January, 32)

	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 1, d.Day())
	assert.Equal(t, "2024-02-01", d.String())
	assert.False(t, d.IsZero())
	assert.True(t, LocalDate{}.IsZero())
}

func TestParseLocalDate(t *testing.T) {
	d, err := ParseLocalDate("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, NewLocalDate(2024, time.March, 10), d)

	_, err = ParseLocalDate("2024/03/10")
	assert.Error(t, err)

	_, err = ParseLocalDate("2024-02-30")
	assert.Error(t, err)
}

func TestLocalDateOf(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	instant := time.Date(2024, time.January, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-02", LocalDateOf(instant, tokyo).String())
	assert.Equal(t, "2024-01-01", LocalDateOf(instant, ny).String())
	assert.Equal(t, "2024-01-01", LocalDateOf(instant, nil).String())
}

func TestLocalDate_AddDays(t *testing.T) {
	tests := []struct {
		name     string
		date     LocalDate
		n        int
		expected string
	}{
		{"next day", NewLocalDate(2024, time.January, 1), 1, "2024-01-02"},
		{"month end", NewLocalDate(2024, time.January, 31), 1, "2024-02-01"},
		{"leap day", NewLocalDate(2024, time.February, 28), 1, "2024-02-29"},
		{"year end", NewLocalDate(2023, time.December, 31), 1, "2024-01-01"},
		{"backwards", NewLocalDate(2024, time.March, 1), -1, "2024-02-29"},
		{"across dst", NewLocalDate(2024, time.March, 9), 2, "2024-03-11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.date.AddDays(tt.n).String())
		})
	}

	assert.True(t, LocalDate{}.AddDays(3).IsZero())
}

func TestLocalDate_DaysUntil(t *testing.T) {
	jan1 := NewLocalDate(2024, time.January, 1)

	assert.Equal(t, 0, jan1.DaysUntil(jan1))
	assert.Equal(t, 1, jan1.DaysUntil(NewLocalDate(2024, time.January, 2)))
	assert.Equal(t, -1, jan1.DaysUntil(NewLocalDate(2023, time.December, 31)))
	assert.Equal(t, 366, jan1.DaysUntil(NewLocalDate(2025, time.January, 1)))
	assert.Equal(t, 2, NewLocalDate(2024, time.March, 9).DaysUntil(NewLocalDate(2024, time.March, 11)))
	assert.Equal(t, InfiniteDays, LocalDate{}.DaysUntil(jan1))
}

func TestLocalDate_Ordering(t *testing.T) {
	a := NewLocalDate(2024, time.January, 31)
	b := NewLocalDate(2024, time.February, 1)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(NewLocalDate(2024, time.January, 31)))
	assert.Equal(t, b, MaxDate(a, b))
	assert.Equal(t, b, MaxDate(b, a))
	assert.Equal(t, a, MaxDate(LocalDate{}, a))
	assert.Equal(t, a, MaxDate(a, LocalDate{}))
}

func TestLocalDate_StartIn(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	start := NewLocalDate(2024, time.March, 10).StartIn(ny)
	assert.Equal(t, time.Date(2024, time.March, 10, 5, 0, 0, 0, time.UTC), start.UTC())

	start = NewLocalDate(2024, time.March, 11).StartIn(ny)
	assert.Equal(t, time.Date(2024, time.March, 11, 4, 0, 0, 0, time.UTC), start.UTC())
}

func TestLocalDate_JSON(t *testing.T) {
	type wrapper struct {
		Day  LocalDate `json:"day"`
		Gone LocalDate `json:"gone"`
	}

	data, err := json.Marshal(wrapper{Day: NewLocalDate(2024, time.January, 2)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-01-02","gone":null}`, string(data))

	var decoded wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"day":"2024-01-03","gone":null}`), &decoded))
	assert.Equal(t, NewLocalDate(2024, time.January, 3), decoded.Day)
	assert.True(t, decoded.Gone.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"day":"yesterday"}`), &decoded))
}

func TestLocalDate_SQL(t *testing.T) {
	v, err := NewLocalDate(2024, time.January, 2).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", v)

	v, err = LocalDate{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	var d LocalDate
	require.NoError(t, d.Scan("2024-01-05"))
	assert.Equal(t, "2024-01-05", d.String())

	require.NoError(t, d.Scan([]byte("2024-01-06")))
	assert.Equal(t, "2024-01-06", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestLocalDate_Civil(t *testing.T) {
	d := NewLocalDate(2024, time.March, 10)

	assert.Equal(t, civil.Date{Year: 2024, Month: time.March, Day: 10}, d.Civil())
	assert.Equal(t, d, FromCivil(d.Civil()))
	assert.True(t, FromCivil(civil.Date{Year: 2024, Month: time.February, Day: 30}).IsZero())
	assert.True(t, FromCivil(civil.Date{}).IsZero())
	assert.Equal(t, civil.Date{}, LocalDate{}.Civil())
}
