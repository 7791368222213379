package impl

import (
	"context"
	"fmt"
	"time"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/repository"
	"github.com/ca-srg/habitflow/domain/valueobject"
	"github.com/ca-srg/habitflow/infrastructure/config"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// CompletionServiceImpl implements CompletionService
type CompletionServiceImpl struct {
	habitRepo repository.HabitRepository
	catchUp   usecase.CatchUpService
	tzService repository.TimezoneService
	config    *config.CatchUpConfig
	logger    domain.Logger
}

// NewCompletionService creates a new completion service
func NewCompletionService(
	habitRepo repository.HabitRepository,
	catchUp usecase.CatchUpService,
	tzService repository.TimezoneService,
	cfg *config.CatchUpConfig,
	logger domain.Logger,
) *CompletionServiceImpl {
	return &CompletionServiceImpl{
		habitRepo: habitRepo,
		catchUp:   catchUp,
		tzService: tzService,
		config:    cfg,
		logger:    logger,
	}
}

// CompleteForToday credits today
func (s *CompletionServiceImpl) CompleteForToday(ctx context.Context, habitID string, meta entity.CompletionMeta, timezone string, ref time.Time) (*usecase.CompletionResult, error) {
	return s.complete(ctx, habitID, valueobject.CompletionKindToday, meta, timezone, ref)
}

// CompleteForYesterday redeems the grace window
func (s *CompletionServiceImpl) CompleteForYesterday(ctx context.Context, habitID string, meta entity.CompletionMeta, timezone string, ref time.Time) (*usecase.CompletionResult, error) {
	return s.complete(ctx, habitID, valueobject.CompletionKindYesterday, meta, timezone, ref)
}

func (s *CompletionServiceImpl) complete(ctx context.Context, habitID string, kind valueobject.CompletionKind, meta entity.CompletionMeta, timezone string, ref time.Time) (*usecase.CompletionResult, error) {
	loc, _ := s.tzService.LoadLocation(timezone)
	if loc == nil {
		loc = time.UTC
	}
	today := s.tzService.LocalDateOf(ref, loc)
	logger := s.logger.WithFields(
		domain.NewField("habit_id", habitID),
		domain.NewField("kind", kind.String()),
		domain.NewField("today", today.String()))

	for attempt := 0; ; attempt++ {
		// Resolution commits the catch-up on its own, so a rejected
		// completion still leaves the habit on the current day.
		resolved, err := s.catchUp.ResolveHabit(ctx, habitID, timezone, ref)
		if err != nil {
			return nil, fmt.Errorf("complete habit %s: %w", habitID, err)
		}
		current := resolved.Habit

		next, day, err := apply(current, kind, today)
		if err != nil {
			switch domain.GetErrorCode(err) {
			case domain.ErrCodeInvariantViolation:
				logger.Error(ctx, "Completion would break a habit invariant", domain.ErrorField(err))
			case domain.ErrCodeStaleReference:
				logger.Warn(ctx, "Completion day is behind the habit",
					domain.NewField("last_resolved_day", current.LastResolvedDay.String()),
					domain.ErrorField(err))
			}
			return nil, err
		}

		completion := entity.NewCompletion(next, kind, day, meta, ref)
		saved, err := s.habitRepo.SaveWithCompletion(ctx, next, current.Version, completion)
		if err == nil {
			logger.Info(ctx, "Completion recorded",
				domain.NewField("day", day.String()),
				domain.NewField("streak", saved.Streak),
				domain.NewField("source", meta.Source))
			return &usecase.CompletionResult{Habit: saved, Completion: completion}, nil
		}
		if !domain.IsErrorCode(err, domain.ErrCodeConflict) || attempt >= s.config.MaxConflictRetries {
			return nil, fmt.Errorf("complete habit %s: %w", habitID, err)
		}
		logger.Debug(ctx, "Version conflict, retrying completion", domain.NewField("attempt", attempt+1))
	}
}

func apply(h entity.Habit, kind valueobject.CompletionKind, today valueobject.LocalDate) (entity.Habit, valueobject.LocalDate, error) {
	if kind == valueobject.CompletionKindYesterday {
		next, err := entity.CompleteYesterday(h, today)
		return next, today.AddDays(-1), err
	}
	next, err := entity.CompleteToday(h, today)
	return next, today, err
}
