package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/repository"
	"github.com/ca-srg/habitflow/domain/valueobject"
)

// SystemTimezoneName asks LoadLocation to detect the host timezone
const SystemTimezoneName = "Local"

// Detection methods reported by TimezoneInfo
const (
	DetectionConfig    = "config"
	DetectionTimeLocal = "time_local"
	DetectionTZEnv     = "tz_env"
	DetectionLocaltime = "etc_localtime"
	DetectionFallback  = "fallback"
)

// TimezoneServiceImpl implements the TimezoneService interface
type TimezoneServiceImpl struct {
	logger     domain.Logger
	locationMu sync.RWMutex
	locations  map[string]*time.Location
	methods    map[*time.Location]string
}

// NewTimezoneServiceImpl creates a new instance of TimezoneServiceImpl
func NewTimezoneServiceImpl(logger domain.Logger) *TimezoneServiceImpl {
	return &TimezoneServiceImpl{
		logger:    logger,
		locations: make(map[string]*time.Location),
		methods:   make(map[*time.Location]string),
	}
}

// LoadLocation resolves an IANA zone name, caching successful lookups.
// Failures return time.UTC with a TIMEZONE_ERROR so callers can keep going.
func (s *TimezoneServiceImpl) LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, domain.ErrTimezoneParse(name, fmt.Errorf("timezone name is empty"))
	}

	s.locationMu.RLock()
	if loc, ok := s.locations[name]; ok {
		s.locationMu.RUnlock()
		return loc, nil
	}
	s.locationMu.RUnlock()

	var (
		loc    *time.Location
		method = DetectionConfig
		err    error
	)
	if name == SystemTimezoneName {
		loc, method, err = s.detectSystemTimezone()
	} else {
		loc, err = time.LoadLocation(name)
	}
	if err != nil {
		return time.UTC, domain.ErrTimezoneParse(name, err)
	}

	s.locationMu.Lock()
	s.locations[name] = loc
	if _, seen := s.methods[loc]; !seen {
		s.methods[loc] = method
	}
	s.locationMu.Unlock()
	return loc, nil
}

// StartOfLocalDay returns the instant of local midnight on the day containing ref
func (s *TimezoneServiceImpl) StartOfLocalDay(loc *time.Location, ref time.Time) time.Time {
	return valueobject.LocalDateOf(ref, orUTC(loc)).StartIn(orUTC(loc))
}

// StartOfNextLocalDay is computed from the next calendar date rather than
// ref+24h, so it lands on midnight across DST changes.
func (s *TimezoneServiceImpl) StartOfNextLocalDay(loc *time.Location, ref time.Time) time.Time {
	return valueobject.LocalDateOf(ref, orUTC(loc)).AddDays(1).StartIn(orUTC(loc))
}

// LocalDateOf returns the calendar date containing ref in loc
func (s *TimezoneServiceImpl) LocalDateOf(ref time.Time, loc *time.Location) valueobject.LocalDate {
	return valueobject.LocalDateOf(ref, orUTC(loc))
}

// DaysElapsed counts calendar days from past to the local day of ref
func (s *TimezoneServiceImpl) DaysElapsed(past valueobject.LocalDate, ref time.Time, loc *time.Location) int {
	if past.IsZero() {
		return valueobject.InfiniteDays
	}
	return past.DaysUntil(s.LocalDateOf(ref, loc))
}

// IsSameLocalDay reports whether a and b fall on the same local date
func (s *TimezoneServiceImpl) IsSameLocalDay(a, b time.Time, loc *time.Location) bool {
	return s.LocalDateOf(a, loc) == s.LocalDateOf(b, loc)
}

// IsExactlyNLocalDaysBefore reports whether past is exactly n local days before ref
func (s *TimezoneServiceImpl) IsExactlyNLocalDaysBefore(past, ref time.Time, n int, loc *time.Location) bool {
	return s.LocalDateOf(past, loc).DaysUntil(s.LocalDateOf(ref, loc)) == n
}

// TimezoneInfo returns timezone information for logging/metrics. Locations
// that did not come through LoadLocation report DetectionConfig.
func (s *TimezoneServiceImpl) TimezoneInfo(loc *time.Location, ref time.Time) repository.TimezoneInfo {
	if loc == nil {
		return repository.TimezoneInfo{
			Name:            "UTC",
			Offset:          "+00:00",
			OffsetSeconds:   0,
			IsDST:           false,
			DetectionMethod: DetectionFallback,
		}
	}

	s.locationMu.RLock()
	method, ok := s.methods[loc]
	s.locationMu.RUnlock()
	if !ok {
		method = DetectionConfig
	}

	local := ref.In(loc)
	_, offset := local.Zone()

	return repository.TimezoneInfo{
		Name:            loc.String(),
		Offset:          formatOffset(offset),
		OffsetSeconds:   offset,
		IsDST:           local.IsDST(),
		DetectionMethod: method,
	}
}

// formatOffset formats offset seconds as +HH:MM or -HH:MM
func formatOffset(offset int) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
}

// detectSystemTimezone detects the host timezone and names the method that found it
func (s *TimezoneServiceImpl) detectSystemTimezone() (*time.Location, string, error) {
	ctx := context.Background()

	// Method 1: time.Local when it carries a real zone name
	if loc := time.Local; loc != nil && loc.String() != "Local" {
		s.logger.Debug(ctx, "Detected timezone using time.Local",
			domain.NewField("timezone", loc.String()))
		return loc, DetectionTimeLocal, nil
	}

	// Method 2: TZ environment variable
	if tzEnv := os.Getenv("TZ"); tzEnv != "" {
		loc, err := time.LoadLocation(tzEnv)
		if err == nil {
			s.logger.Debug(ctx, "Detected timezone from TZ environment variable",
				domain.NewField("timezone", loc.String()))
			return loc, DetectionTZEnv, nil
		}
		s.logger.Warn(ctx, "Failed to load timezone from TZ environment variable",
			domain.NewField("TZ", tzEnv),
			domain.ErrorField(err))
	}

	// Method 3: /etc/localtime symlink (e.g. /usr/share/zoneinfo/America/New_York)
	if linkPath, err := os.Readlink("/etc/localtime"); err == nil {
		if parts := strings.Split(linkPath, "/zoneinfo/"); len(parts) > 1 {
			if loc, err := time.LoadLocation(parts[1]); err == nil {
				s.logger.Debug(ctx, "Detected timezone from /etc/localtime",
					domain.NewField("timezone", loc.String()))
				return loc, DetectionLocaltime, nil
			}
		}
	}

	return nil, "", fmt.Errorf("system timezone could not be detected")
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
