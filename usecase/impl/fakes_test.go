package impl

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/valueobject"
	"github.com/ca-srg/habitflow/infrastructure/config"
	"github.com/ca-srg/habitflow/infrastructure/logging"
	"github.com/ca-srg/habitflow/infrastructure/service"
)

// memoryHabitStore is an in-memory HabitRepository and CompletionRepository
// with compare-and-swap saves
type memoryHabitStore struct {
	mu          sync.Mutex
	habits      map[string]entity.Habit
	completions []*entity.Completion

	// conflicts makes the next N saves lose a race against another writer
	conflicts int
	// saveErr fails every save of the given habit
	saveErr map[string]error
	saves   int
}

func newMemoryHabitStore() *memoryHabitStore {
	return &memoryHabitStore{
		habits:  make(map[string]entity.Habit),
		saveErr: make(map[string]error),
	}
}

func (s *memoryHabitStore) Create(ctx context.Context, h entity.Habit) (entity.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h.Version = 1
	s.habits[h.ID] = h
	return h, nil
}

func (s *memoryHabitStore) FindByID(ctx context.Context, id string) (entity.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.habits[id]
	if !ok {
		return entity.Habit{}, domain.ErrNotFound("habit", id)
	}
	return h, nil
}

func (s *memoryHabitStore) FindByOwner(ctx context.Context, ownerID string) ([]entity.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Habit
	for _, h := range s.habits {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memoryHabitStore) Save(ctx context.Context, h entity.Habit, expectedVersion int64) (entity.Habit, error) {
	return s.save(h, expectedVersion, nil)
}

func (s *memoryHabitStore) SaveWithCompletion(ctx context.Context, h entity.Habit, expectedVersion int64, c *entity.Completion) (entity.Habit, error) {
	if c == nil {
		return entity.Habit{}, domain.ErrInvalidInput("completion", "must not be nil")
	}
	return s.save(h, expectedVersion, c)
}

func (s *memoryHabitStore) save(h entity.Habit, expectedVersion int64, c *entity.Completion) (entity.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveErr[h.ID]; err != nil {
		return entity.Habit{}, err
	}
	stored, ok := s.habits[h.ID]
	if !ok {
		return entity.Habit{}, domain.ErrNotFound("habit", h.ID)
	}
	if s.conflicts > 0 {
		s.conflicts--
		stored.Version++
		s.habits[h.ID] = stored
	}
	if stored.Version != expectedVersion {
		return entity.Habit{}, domain.ErrConflict(h.ID, expectedVersion).
			WithDetails("storedVersion", stored.Version)
	}

	h.Version = expectedVersion + 1
	s.habits[h.ID] = h
	if c != nil {
		s.completions = append(s.completions, c)
	}
	s.saves++
	return h, nil
}

func (s *memoryHabitStore) FindByHabit(ctx context.Context, habitID string) ([]*entity.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Completion
	for _, c := range s.completions {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memoryHabitStore) FindByOwnerBetween(ctx context.Context, ownerID string, from, to valueobject.LocalDate) ([]*entity.Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Completion
	for _, c := range s.completions {
		if c.OwnerID != ownerID {
			continue
		}
		if (!from.IsZero() && c.Day.Before(from)) || (!to.IsZero() && c.Day.After(to)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *memoryHabitStore) put(h entity.Habit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.Version == 0 {
		h.Version = 1
	}
	s.habits[h.ID] = h
}

func (s *memoryHabitStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// MockMetricsRepository is a testify mock of repository.MetricsRepository
type MockMetricsRepository struct {
	mock.Mock
}

func (m *MockMetricsRepository) SendHabitGauges(ctx context.Context, gauges *entity.HabitGauges) error {
	args := m.Called(ctx, gauges)
	return args.Error(0)
}

func (m *MockMetricsRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

type testServices struct {
	store      *memoryHabitStore
	tz         *service.TimezoneServiceImpl
	catchUp    *CatchUpServiceImpl
	completion *CompletionServiceImpl
	habits     *HabitServiceImpl
}

func testCatchUpConfig() *config.CatchUpConfig {
	return &config.CatchUpConfig{MaxCatchUpDays: 400, Workers: 2, MaxConflictRetries: 3}
}

func newTestServices(t *testing.T, metrics *MockMetricsRepository) *testServices {
	t.Helper()
	logger := &logging.NoOpLogger{}
	store := newMemoryHabitStore()
	tz := service.NewTimezoneServiceImpl(logger)
	cfg := testCatchUpConfig()

	var catchUp *CatchUpServiceImpl
	if metrics != nil {
		catchUp = NewCatchUpService(store, metrics, tz, NewCatchUpProcessor(cfg.MaxCatchUpDays, tz), cfg, logger)
	} else {
		catchUp = NewCatchUpService(store, nil, tz, NewCatchUpProcessor(cfg.MaxCatchUpDays, tz), cfg, logger)
	}
	return &testServices{
		store:      store,
		tz:         tz,
		catchUp:    catchUp,
		completion: NewCompletionService(store, catchUp, tz, cfg, logger),
		habits:     NewHabitService(store, store, tz, logger),
	}
}

// jan returns noon UTC on the given day of January 2024
func jan(day int) time.Time {
	return time.Date(2024, time.January, day, 12, 0, 0, 0, time.UTC)
}

func janDay(day int) valueobject.LocalDate {
	return valueobject.NewLocalDate(2024, time.January, day)
}

func (ts *testServices) createHabit(t *testing.T, owner, name string, ref time.Time) entity.Habit {
	t.Helper()
	h, err := ts.habits.Create(context.Background(), owner, name, "UTC", ref)
	require.NoError(t, err)
	return h
}

var cli = entity.CompletionMeta{Source: "cli"}
