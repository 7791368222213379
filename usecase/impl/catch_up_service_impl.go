package impl

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/repository"
	"github.com/ca-srg/habitflow/infrastructure/config"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// CatchUpServiceImpl implements CatchUpService
type CatchUpServiceImpl struct {
	habitRepo   repository.HabitRepository
	metricsRepo repository.MetricsRepository
	tzService   repository.TimezoneService
	processor   usecase.CatchUpProcessor
	config      *config.CatchUpConfig
	logger      domain.Logger
}

// NewCatchUpService creates a new catch-up service. metricsRepo may be nil.
func NewCatchUpService(
	habitRepo repository.HabitRepository,
	metricsRepo repository.MetricsRepository,
	tzService repository.TimezoneService,
	processor usecase.CatchUpProcessor,
	cfg *config.CatchUpConfig,
	logger domain.Logger,
) *CatchUpServiceImpl {
	return &CatchUpServiceImpl{
		habitRepo:   habitRepo,
		metricsRepo: metricsRepo,
		tzService:   tzService,
		processor:   processor,
		config:      cfg,
		logger:      logger,
	}
}

// ResolveHabit resolves and saves one habit
func (s *CatchUpServiceImpl) ResolveHabit(ctx context.Context, habitID string, timezone string, ref time.Time) (*usecase.ResolveResult, error) {
	loc, _ := loadLocation(ctx, s.tzService, s.logger, timezone)

	h, err := s.habitRepo.FindByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("resolve habit %s: %w", habitID, err)
	}

	res, err := s.commit(ctx, h, loc, ref)
	if err != nil {
		return nil, fmt.Errorf("resolve habit %s: %w", habitID, err)
	}
	return res, nil
}

// ResolveOwner resolves every habit of ownerID, at most Workers at a time
func (s *CatchUpServiceImpl) ResolveOwner(ctx context.Context, ownerID string, timezone string, ref time.Time) (*usecase.ResolveOwnerResult, error) {
	loc, fallback := loadLocation(ctx, s.tzService, s.logger, timezone)
	today := s.tzService.LocalDateOf(ref, loc)
	logger := s.logger.WithFields(
		domain.NewField("owner_id", ownerID),
		domain.NewField("today", today.String()))

	habits, err := s.habitRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("resolve owner %s: %w", ownerID, err)
	}

	results := make([]*usecase.ResolveResult, len(habits))
	errs := make([]error, len(habits))

	var g errgroup.Group
	g.SetLimit(max(s.config.Workers, 1))
	for i := range habits {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = s.commit(ctx, habits[i], loc, ref)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve owner %s: %w", ownerID, err)
	}

	out := &usecase.ResolveOwnerResult{
		OwnerID:          ownerID,
		Today:            today,
		Timezone:         loc.String(),
		TimezoneFallback: fallback,
		Habits:           make([]entity.Habit, 0, len(habits)),
	}
	for i, h := range habits {
		if errs[i] != nil {
			logger.Warn(ctx, "Habit left unresolved",
				domain.NewField("habit_id", h.ID),
				domain.ErrorField(errs[i]))
			out.Failed = append(out.Failed, usecase.ResolveFailure{HabitID: h.ID, Err: errs[i]})
			out.Habits = append(out.Habits, h)
			continue
		}
		res := results[i]
		out.Habits = append(out.Habits, res.Habit)
		if res.Grace != nil {
			out.Grace = append(out.Grace, *res.Grace)
		}
		if res.Changed {
			out.Changed++
		}
	}
	entity.SortGraceCandidates(out.Grace)

	logger.Info(ctx, "Owner resolved",
		domain.NewField("habits", len(out.Habits)),
		domain.NewField("changed", out.Changed),
		domain.NewField("grace_candidates", len(out.Grace)),
		domain.NewField("failed", len(out.Failed)))

	s.reportGauges(ctx, out, loc, ref)
	return out, nil
}

// commit resolves h and saves it, reloading and resolving again on a version
// conflict
func (s *CatchUpServiceImpl) commit(ctx context.Context, h entity.Habit, loc *time.Location, ref time.Time) (*usecase.ResolveResult, error) {
	for attempt := 0; ; attempt++ {
		res := s.processor.Resolve(h, loc, ref)
		if res.Habit == h {
			return &res, nil
		}

		saved, err := s.habitRepo.Save(ctx, res.Habit, h.Version)
		if err == nil {
			res.Habit = saved
			if res.Grace != nil {
				res.Grace.Habit = saved
			}
			if res.Collapsed {
				s.logger.Debug(ctx, "Collapsed long absence",
					domain.NewField("habit_id", h.ID),
					domain.NewField("days_replayed", res.DaysReplayed))
			}
			return &res, nil
		}
		if !domain.IsErrorCode(err, domain.ErrCodeConflict) || attempt >= s.config.MaxConflictRetries {
			return nil, err
		}

		s.logger.Debug(ctx, "Version conflict, reloading habit",
			domain.NewField("habit_id", h.ID),
			domain.NewField("attempt", attempt+1))
		if h, err = s.habitRepo.FindByID(ctx, h.ID); err != nil {
			return nil, err
		}
	}
}

func (s *CatchUpServiceImpl) reportGauges(ctx context.Context, res *usecase.ResolveOwnerResult, loc *time.Location, ref time.Time) {
	if s.metricsRepo == nil {
		return
	}
	info := s.tzService.TimezoneInfo(loc, ref)
	gauges := entity.NewHabitGauges(res.OwnerID, ref, res.Habits, len(res.Grace)).
		WithTimezone(info.Name, info.Offset)
	if err := s.metricsRepo.SendHabitGauges(ctx, gauges); err != nil {
		s.logger.Warn(ctx, "Failed to send habit gauges",
			domain.NewField("owner_id", res.OwnerID),
			domain.ErrorField(err))
	}
}

// loadLocation resolves timezone, falling back to UTC with a warning
func loadLocation(ctx context.Context, tzService repository.TimezoneService, logger domain.Logger, timezone string) (*time.Location, bool) {
	loc, err := tzService.LoadLocation(timezone)
	if loc == nil {
		loc = time.UTC
	}
	if err != nil {
		logger.Warn(ctx, "Unknown timezone, using UTC",
			domain.NewField("timezone", timezone),
			domain.ErrorField(err))
		return loc, true
	}
	return loc, false
}
