package impl

import (
	"time"

	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/repository"
	"github.com/ca-srg/habitflow/domain/valueobject"
	"github.com/ca-srg/habitflow/infrastructure/config"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// CatchUpProcessorImpl implements CatchUpProcessor
type CatchUpProcessorImpl struct {
	maxCatchUpDays int
	tzService      repository.TimezoneService
}

// NewCatchUpProcessor creates a processor that replays at most maxCatchUpDays
// rollovers one by one
func NewCatchUpProcessor(maxCatchUpDays int, tzService repository.TimezoneService) *CatchUpProcessorImpl {
	if maxCatchUpDays < config.MinCatchUpDays {
		maxCatchUpDays = config.MinCatchUpDays
	}
	return &CatchUpProcessorImpl{
		maxCatchUpDays: maxCatchUpDays,
		tzService:      tzService,
	}
}

// Resolve replays every local day after the watermark through the day of ref.
// A habit whose watermark is today or later, or that was created after
// today, is returned as is.
func (p *CatchUpProcessorImpl) Resolve(h entity.Habit, loc *time.Location, ref time.Time) usecase.ResolveResult {
	today := p.tzService.LocalDateOf(ref, loc)

	if (!h.LastResolvedDay.IsZero() && !h.LastResolvedDay.Before(today)) || today.Before(h.CreatedDay) {
		return usecase.ResolveResult{
			Habit: h,
			Grace: entity.NewGraceCandidate(h, today),
		}
	}

	start := h.LastResolvedDay.AddDays(1)
	if h.LastResolvedDay.IsZero() {
		start = h.CreatedDay.AddDays(1)
	}
	if start.IsZero() {
		start = today
	}

	pending := max(start.DaysUntil(today)+1, 0)
	replay := min(pending, p.maxCatchUpDays)

	next := h
	for i := 0; i < replay; i++ {
		next = entity.Apply(next, valueobject.EventDayRollover, start.AddDays(i))
	}

	// Every snapshot is at a fixed point after three rollovers, so the
	// remaining days reduce to one rollover on today.
	collapsed := pending > replay
	if collapsed {
		next = entity.Apply(next, valueobject.EventDayRollover, today)
	}

	grace := entity.NewGraceCandidate(next, today)
	if grace == nil && next.State == valueobject.HabitStateJunked {
		next = entity.Apply(next, valueobject.EventDailyDecay, today)
	}
	next.LastResolvedDay = today
	if grace != nil {
		grace.Habit = next
	}

	return usecase.ResolveResult{
		Habit:        next,
		Grace:        grace,
		Changed:      !next.SameLifecycle(h),
		DaysReplayed: replay,
		Collapsed:    collapsed,
	}
}
