package repository

import (
	"time"

	"github.com/ca-srg/habitflow/domain/valueobject"
)

// TimezoneService computes local day boundaries. Every method takes the
// reference instant explicitly; nothing here reads a clock.
type TimezoneService interface {
	// LoadLocation resolves an IANA zone name. An empty or unknown name
	// returns time.UTC together with a TIMEZONE_ERROR.
	LoadLocation(name string) (*time.Location, error)

	// StartOfLocalDay returns the instant of local midnight on the day containing ref
	StartOfLocalDay(loc *time.Location, ref time.Time) time.Time

	// StartOfNextLocalDay returns local midnight of the following calendar day
	StartOfNextLocalDay(loc *time.Location, ref time.Time) time.Time

	// LocalDateOf returns the calendar date containing ref in loc
	LocalDateOf(ref time.Time, loc *time.Location) valueobject.LocalDate

	// DaysElapsed counts local calendar days from past to the day of ref,
	// or valueobject.InfiniteDays when past is absent
	DaysElapsed(past valueobject.LocalDate, ref time.Time, loc *time.Location) int

	// IsSameLocalDay reports whether a and b fall on the same local date
	IsSameLocalDay(a, b time.Time, loc *time.Location) bool

	// IsExactlyNLocalDaysBefore reports whether past is exactly n local days before ref
	IsExactlyNLocalDaysBefore(past, ref time.Time, n int, loc *time.Location) bool

	// TimezoneInfo returns timezone information for logging/metrics
	TimezoneInfo(loc *time.Location, ref time.Time) TimezoneInfo
}

// TimezoneInfo contains timezone information for logging and metrics
type TimezoneInfo struct {
	// Name is the timezone name (e.g., "America/New_York", "Asia/Tokyo")
	Name string

	// Offset is the UTC offset in the format "+09:00" or "-05:00"
	Offset string

	// OffsetSeconds is the offset from UTC in seconds
	OffsetSeconds int

	// IsDST indicates whether daylight saving time is active at the reference instant
	IsDST bool

	// DetectionMethod indicates how the timezone was determined
	// Values: "config", "fallback"
	DetectionMethod string
}
