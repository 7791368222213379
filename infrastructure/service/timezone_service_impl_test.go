package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/valueobject"
	"github.com/ca-srg/habitflow/infrastructure/logging"
)

func newTestTimezoneService() *TimezoneServiceImpl {
	return NewTimezoneServiceImpl(&logging.NoOpLogger{})
}

func mustLoad(t *testing.T, s *TimezoneServiceImpl, name string) *time.Location {
	t.Helper()
	loc, err := s.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestTimezoneServiceImpl_LoadLocation(t *testing.T) {
	service := newTestTimezoneService()

	t.Run("valid zone is cached", func(t *testing.T) {
		loc := mustLoad(t, service, "Asia/Tokyo")
		assert.Equal(t, "Asia/Tokyo", loc.String())

		again := mustLoad(t, service, "Asia/Tokyo")
		assert.Same(t, loc, again)
	})

	t.Run("unknown zone falls back to UTC", func(t *testing.T) {
		loc, err := service.LoadLocation("Mars/Olympus_Mons")
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeTimezone))
		assert.Equal(t, time.UTC, loc)
	})

	t.Run("empty zone falls back to UTC", func(t *testing.T) {
		loc, err := service.LoadLocation("  ")
		require.Error(t, err)
		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeTimezone))
		assert.Equal(t, time.UTC, loc)
	})

	t.Run("system zone never returns nil", func(t *testing.T) {
		loc, _ := service.LoadLocation(SystemTimezoneName)
		assert.NotNil(t, loc)
	})
}

func TestTimezoneServiceImpl_StartOfLocalDay(t *testing.T) {
	service := newTestTimezoneService()
	tokyo := mustLoad(t, service, "Asia/Tokyo")

	// 2024-01-15 20:00 UTC is already 2024-01-16 05:00 in Tokyo
	ref := time.Date(2024, time.January, 15, 20, 0, 0, 0, time.UTC)

	start := service.StartOfLocalDay(tokyo, ref)
	assert.Equal(t, time.Date(2024, time.January, 15, 15, 0, 0, 0, time.UTC), start.UTC())

	next := service.StartOfNextLocalDay(tokyo, ref)
	assert.Equal(t, 24*time.Hour, next.Sub(start))

	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), service.StartOfLocalDay(nil, ref.Add(-time.Hour)))
}

func TestTimezoneServiceImpl_DSTBoundaries(t *testing.T) {
	service := newTestTimezoneService()
	ny := mustLoad(t, service, "America/New_York")

	tests := []struct {
		name     string
		ref      time.Time
		expected time.Duration
	}{
		{"spring forward is 23h", time.Date(2024, time.March, 10, 12, 0, 0, 0, ny), 23 * time.Hour},
		{"fall back is 25h", time.Date(2024, time.November, 3, 12, 0, 0, 0, ny), 25 * time.Hour},
		{"day before spring forward is 24h", time.Date(2024, time.March, 9, 12, 0, 0, 0, ny), 24 * time.Hour},
		{"day after fall back is 24h", time.Date(2024, time.November, 4, 12, 0, 0, 0, ny), 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := service.StartOfLocalDay(ny, tt.ref)
			next := service.StartOfNextLocalDay(ny, tt.ref)

			assert.Equal(t, tt.expected, next.Sub(start))
			assert.Equal(t, 0, next.In(ny).Hour())
			assert.Equal(t, 0, start.In(ny).Hour())
		})
	}
}

func TestTimezoneServiceImpl_DayClassifier(t *testing.T) {
	service := newTestTimezoneService()
	ny := mustLoad(t, service, "America/New_York")

	// 23:30 on the spring-forward day and 00:30 the next day are 24h apart in wall
	// time but only 23h apart in elapsed time.
	lateSat := time.Date(2024, time.March, 9, 23, 30, 0, 0, ny)
	earlyMon := time.Date(2024, time.March, 11, 0, 30, 0, 0, ny)

	assert.Equal(t, 2, service.DaysElapsed(service.LocalDateOf(lateSat, ny), earlyMon, ny))
	assert.True(t, service.IsExactlyNLocalDaysBefore(lateSat, earlyMon, 2, ny))
	assert.False(t, service.IsExactlyNLocalDaysBefore(lateSat, earlyMon, 1, ny))
	assert.True(t, service.IsSameLocalDay(lateSat, lateSat.Add(20*time.Minute), ny))
	assert.False(t, service.IsSameLocalDay(lateSat, lateSat.Add(40*time.Minute), ny))
	assert.Equal(t, valueobject.InfiniteDays, service.DaysElapsed(valueobject.LocalDate{}, earlyMon, ny))
}

func TestTimezoneServiceImpl_TimezoneInfo(t *testing.T) {
	service := newTestTimezoneService()
	ny := mustLoad(t, service, "America/New_York")

	winter := service.TimezoneInfo(ny, time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "America/New_York", winter.Name)
	assert.Equal(t, "-05:00", winter.Offset)
	assert.Equal(t, -5*3600, winter.OffsetSeconds)
	assert.False(t, winter.IsDST)
	assert.Equal(t, DetectionConfig, winter.DetectionMethod)

	summer := service.TimezoneInfo(ny, time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "-04:00", summer.Offset)
	assert.True(t, summer.IsDST)

	fallback := service.TimezoneInfo(nil, time.Now())
	assert.Equal(t, "UTC", fallback.Name)
	assert.Equal(t, DetectionFallback, fallback.DetectionMethod)

	india := service.TimezoneInfo(mustLoad(t, service, "Asia/Kolkata"), time.Now())
	assert.Equal(t, "+05:30", india.Offset)
}

func TestTimezoneServiceImpl_TimezoneInfoDetectionMethod(t *testing.T) {
	t.Setenv("TZ", "Pacific/Auckland")
	service := newTestTimezoneService()

	system := mustLoad(t, service, SystemTimezoneName)
	info := service.TimezoneInfo(system, time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "Pacific/Auckland", info.Name)
	assert.Equal(t, DetectionTZEnv, info.DetectionMethod)

	configured := service.TimezoneInfo(mustLoad(t, service, "Europe/Berlin"), time.Now())
	assert.Equal(t, DetectionConfig, configured.DetectionMethod)

	unloaded := service.TimezoneInfo(time.FixedZone("X", 3600), time.Now())
	assert.Equal(t, DetectionConfig, unloaded.DetectionMethod)
}
