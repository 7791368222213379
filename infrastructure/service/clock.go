package service

import (
	"fmt"
	"strings"
	"time"
)

// Clock is the only place the application reads the current instant.
// The resolution core receives instants from its callers instead.
type Clock interface {
	Now() time.Time
}

// SystemClock uses the actual system time
type SystemClock struct{}

// Now returns the current system time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant. It backs the time travel
// override and tests.
type FixedClock struct {
	fixedTime time.Time
}

// NewFixedClock creates a clock frozen at t
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{fixedTime: t}
}

// Now returns the fixed time
func (c *FixedClock) Now() time.Time {
	return c.fixedTime
}

// Set moves the clock to t
func (c *FixedClock) Set(t time.Time) {
	c.fixedTime = t
}

// AdvanceDays moves the clock forward by whole local days in loc, keeping the
// wall clock time even across DST changes.
func (c *FixedClock) AdvanceDays(days int, loc *time.Location) {
	local := c.fixedTime.In(orUTC(loc))
	c.fixedTime = local.AddDate(0, 0, days)
}

// NewClock returns a FixedClock when override holds an RFC3339 instant and a
// SystemClock when it is empty.
func NewClock(override string) (Clock, error) {
	override = strings.TrimSpace(override)
	if override == "" {
		return SystemClock{}, nil
	}
	t, err := time.Parse(time.RFC3339, override)
	if err != nil {
		return SystemClock{}, fmt.Errorf("invalid time override %q: %w", override, err)
	}
	return NewFixedClock(t), nil
}

var (
	_ Clock = SystemClock{}
	_ Clock = (*FixedClock)(nil)
)
