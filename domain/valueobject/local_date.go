package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"
)

// LocalDateLayout is the canonical text form of a LocalDate
const LocalDateLayout = "2006-01-02"

// InfiniteDays is returned by day counts whose starting date is absent
const InfiniteDays = math.MaxInt32

// LocalDate is a calendar date as observed in some timezone, with no time of
// day attached. The zero value means "no date".
type LocalDate struct {
	date civil.Date
}

// NewLocalDate builds a LocalDate, normalizing out-of-range values the same
// way time.Date does (January 32 becomes February 1).
func NewLocalDate(year int, month time.Month, day int) LocalDate {
	return LocalDate{date: civil.DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))}
}

// FromCivil wraps a civil date; an invalid one becomes the zero LocalDate
func FromCivil(d civil.Date) LocalDate {
	if !d.IsValid() {
		return LocalDate{}
	}
	return LocalDate{date: d}
}

// ParseLocalDate parses a YYYY-MM-DD string
func ParseLocalDate(s string) (LocalDate, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid local date %q: %w", s, err)
	}
	return LocalDate{date: d}, nil
}

// LocalDateOf returns the calendar date containing t in loc
func LocalDateOf(t time.Time, loc *time.Location) LocalDate {
	if loc == nil {
		loc = time.UTC
	}
	return LocalDate{date: civil.DateOf(t.In(loc))}
}

// Civil returns the underlying civil date
func (d LocalDate) Civil() civil.Date { return d.date }

// Year returns the calendar year
func (d LocalDate) Year() int { return d.date.Year }

// Month returns the calendar month
func (d LocalDate) Month() time.Month { return d.date.Month }

// Day returns the day of the month
func (d LocalDate) Day() int { return d.date.Day }

// IsZero reports whether the date is absent
func (d LocalDate) IsZero() bool { return d == LocalDate{} }

// Equal reports whether both values name the same calendar day
func (d LocalDate) Equal(o LocalDate) bool { return d == o }

// AddDays returns the date n calendar days away
func (d LocalDate) AddDays(n int) LocalDate {
	if d.IsZero() {
		return d
	}
	return LocalDate{date: d.date.AddDays(n)}
}

// DaysUntil returns the signed number of calendar days from d to other.
// InfiniteDays is returned when d is zero.
func (d LocalDate) DaysUntil(other LocalDate) int {
	if d.IsZero() || other.IsZero() {
		return InfiniteDays
	}
	return other.date.DaysSince(d.date)
}

// Before reports whether d is an earlier calendar day than other
func (d LocalDate) Before(other LocalDate) bool {
	return d.date.Before(other.date)
}

// After reports whether d is a later calendar day than other
func (d LocalDate) After(other LocalDate) bool {
	return d.date.After(other.date)
}

// StartIn returns the instant of local midnight on d in loc. Midnights that do
// not exist in loc are normalized forward by time.Date.
func (d LocalDate) StartIn(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return d.date.In(loc)
}

// String formats d as YYYY-MM-DD, or "" when absent
func (d LocalDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.date.String()
}

// MaxDate returns the later of two dates; a zero date loses to any other
func MaxDate(a, b LocalDate) LocalDate {
	if a.IsZero() {
		return b
	}
	if b.IsZero() || !b.After(a) {
		return a
	}
	return b
}

// MarshalJSON writes the date as a string, or null when absent
func (d LocalDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a YYYY-MM-DD string, an empty string or null
func (d *LocalDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = LocalDate{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	return d.scanString(s)
}

// Value stores the date as TEXT, or NULL when absent
func (d LocalDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan reads a TEXT or NULL column
func (d *LocalDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = LocalDate{}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case time.Time:
		*d = LocalDate{date: civil.DateOf(v)}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into LocalDate", src)
	}
}

func (d *LocalDate) scanString(s string) error {
	if s == "" {
		*d = LocalDate{}
		return nil
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
