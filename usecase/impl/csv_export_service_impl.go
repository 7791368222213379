package impl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
	"github.com/ca-srg/habitflow/domain/repository"
	"github.com/ca-srg/habitflow/domain/valueobject"
	"github.com/ca-srg/habitflow/infrastructure/config"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// CSVExportServiceImpl implements CSVExportService
type CSVExportServiceImpl struct {
	habitRepo      repository.HabitRepository
	completionRepo repository.CompletionRepository
	csvWriter      repository.CSVWriterRepository
	tzService      repository.TimezoneService
	config         *config.CSVExportConfig
	logger         domain.Logger
}

// NewCSVExportService creates a new CSV export service
func NewCSVExportService(
	habitRepo repository.HabitRepository,
	completionRepo repository.CompletionRepository,
	csvWriter repository.CSVWriterRepository,
	tzService repository.TimezoneService,
	cfg *config.CSVExportConfig,
	logger domain.Logger,
) *CSVExportServiceImpl {
	return &CSVExportServiceImpl{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		csvWriter:      csvWriter,
		tzService:      tzService,
		config:         cfg,
		logger:         logger,
	}
}

// Export writes the owner's completions between From and To to a CSV file
func (s *CSVExportServiceImpl) Export(ctx context.Context, options usecase.CSVExportOptions) (*usecase.CSVExportResult, error) {
	loc, _ := loadLocation(ctx, s.tzService, s.logger, options.Timezone)
	today := s.tzService.LocalDateOf(options.Ref, loc)

	from, to, err := s.dateRange(options.From, options.To, today)
	if err != nil {
		return nil, err
	}

	req := entity.NewExportRequest(options.OwnerID, from, to, options.OutputPath)
	if len(options.HabitIDs) > 0 {
		req.WithHabits(options.HabitIDs)
	}
	outputPath := s.outputPath(req, options)

	s.logger.Info(ctx, "Starting CSV export",
		domain.NewField("owner_id", options.OwnerID),
		domain.NewField("output_path", outputPath),
		domain.NewField("range", req.GetDateRange()))

	habits, err := s.habitRepo.FindByOwner(ctx, options.OwnerID)
	if err != nil {
		return nil, domain.ErrCSVExportWithCause("load habits", "failed to load habits", err)
	}
	byID := make(map[string]entity.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	all, err := s.completionRepo.FindByOwnerBetween(ctx, options.OwnerID, from, to)
	if err != nil {
		return nil, domain.ErrCSVExportWithCause("load completions", "failed to load completions", err)
	}
	completions := make([]*entity.Completion, 0, len(all))
	for _, c := range all {
		if req.IncludesHabit(c.HabitID) {
			completions = append(completions, c)
		}
	}

	if len(completions) == 0 {
		s.logger.Warn(ctx, "No completions found for the export range",
			domain.NewField("range", req.GetDateRange()))
	}

	if err := s.csvWriter.Write(byID, completions, outputPath); err != nil {
		return nil, domain.ErrCSVExportWithCause("write CSV", "failed to write CSV file", err)
	}

	s.logger.Info(ctx, "CSV export completed",
		domain.NewField("output_path", outputPath),
		domain.NewField("rows", len(completions)))

	return &usecase.CSVExportResult{
		OutputPath: outputPath,
		Rows:       len(completions),
		From:       from,
		To:         to,
	}, nil
}

// dateRange fills in the configured window and checks its bounds
func (s *CSVExportServiceImpl) dateRange(from, to, today valueobject.LocalDate) (valueobject.LocalDate, valueobject.LocalDate, error) {
	if to.IsZero() {
		to = today
	}
	if from.IsZero() {
		from = to.AddDays(-s.config.DefaultStartDays)
	}
	if to.Before(from) {
		return from, to, domain.ErrInvalidInput("date range", "end date must not be before start date")
	}
	if span := from.DaysUntil(to); span > s.config.MaxExportDays {
		return from, to, domain.ErrInvalidInput("date range",
			fmt.Sprintf("range of %d days exceeds the maximum of %d", span, s.config.MaxExportDays))
	}
	return from, to, nil
}

// outputPath resolves a directory, or an empty path, to a generated file name
func (s *CSVExportServiceImpl) outputPath(req *entity.ExportRequest, options usecase.CSVExportOptions) string {
	path := config.ExpandPath(options.OutputPath)
	if path == "" {
		return filepath.Join(config.ExpandPath(s.config.DefaultOutputPath), req.GenerateFilename(options.Ref))
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, req.GenerateFilename(options.Ref))
	}
	return path
}
