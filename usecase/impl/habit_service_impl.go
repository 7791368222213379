package impl

import (
	"context"
	"fmt"
	"time"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/repository"
)

// HabitServiceImpl implements HabitService
type HabitServiceImpl struct {
	habitRepo      repository.HabitRepository
	completionRepo repository.CompletionRepository
	tzService      repository.TimezoneService
	logger         domain.Logger
}

// NewHabitService creates a new habit service
func NewHabitService(
	habitRepo repository.HabitRepository,
	completionRepo repository.CompletionRepository,
	tzService repository.TimezoneService,
	logger domain.Logger,
) *HabitServiceImpl {
	return &HabitServiceImpl{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		tzService:      tzService,
		logger:         logger,
	}
}

// Create stores a new lively habit on the owner's current local day
func (s *HabitServiceImpl) Create(ctx context.Context, ownerID, name, timezone string, ref time.Time) (entity.Habit, error) {
	loc, _ := loadLocation(ctx, s.tzService, s.logger, timezone)

	h, err := entity.NewHabit(ownerID, name, s.tzService.LocalDateOf(ref, loc))
	if err != nil {
		return entity.Habit{}, err
	}

	created, err := s.habitRepo.Create(ctx, h)
	if err != nil {
		return entity.Habit{}, fmt.Errorf("create habit: %w", err)
	}

	s.logger.Info(ctx, "Habit created",
		domain.NewField("habit_id", created.ID),
		domain.NewField("owner_id", created.OwnerID),
		domain.NewField("created_day", created.CreatedDay.String()))
	return created, nil
}

func (s *HabitServiceImpl) List(ctx context.Context, ownerID string) ([]entity.Habit, error) {
	habits, err := s.habitRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

func (s *HabitServiceImpl) Get(ctx context.Context, habitID string) (entity.Habit, error) {
	return s.habitRepo.FindByID(ctx, habitID)
}

// History returns the habit's completions, oldest first
func (s *HabitServiceImpl) History(ctx context.Context, habitID string) ([]*entity.Completion, error) {
	if _, err := s.habitRepo.FindByID(ctx, habitID); err != nil {
		return nil, err
	}
	completions, err := s.completionRepo.FindByHabit(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("habit history: %w", err)
	}
	return completions, nil
}
