package repository

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
)

var csvHeader = []string{"day", "habit_id", "habit_name", "kind", "streak", "source", "note", "recorded_at"}

// CSVWriterRepositoryImpl writes completion history as CSV
type CSVWriterRepositoryImpl struct {
	logger domain.Logger
}

// NewCSVWriterRepository creates a new CSV writer repository
func NewCSVWriterRepository(logger domain.Logger) *CSVWriterRepositoryImpl {
	return &CSVWriterRepositoryImpl{
		logger: logger,
	}
}

// Write writes one row per completion to outputPath. habits resolves habit
// names; a completion whose habit is unknown keeps an empty name.
func (r *CSVWriterRepositoryImpl) Write(habits map[string]entity.Habit, completions []*entity.Completion, outputPath string) (err error) {
	if err := r.validateOutputPath(outputPath); err != nil {
		return err
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return domain.ErrFileOperationWithCause("create directory", dir, err)
	}

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return domain.ErrFileOperationWithCause("create file", outputPath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			r.logger.Error(context.TODO(), "Failed to close CSV file",
				domain.ErrorField(closeErr),
				domain.NewField("path", outputPath))
			if err == nil {
				err = domain.ErrFileOperationWithCause("close file", outputPath, closeErr)
			}
		}
	}()

	// UTF-8 BOM so spreadsheet apps detect the encoding
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return domain.ErrCSVExportWithCause("write BOM", "failed to write UTF-8 BOM", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return domain.ErrCSVExportWithCause("write header", "failed to write CSV header", err)
	}

	for _, c := range completions {
		row := []string{
			c.Day.String(),
			c.HabitID,
			sanitizeCSVField(habits[c.HabitID].Name),
			c.Kind.String(),
			strconv.Itoa(c.Streak),
			sanitizeCSVField(c.Source),
			sanitizeCSVField(c.Note),
			c.RecordedAt.UTC().Format(time.RFC3339),
		}
		if err := writer.Write(row); err != nil {
			return domain.ErrCSVExportWithCause("write record", "failed to write completion "+c.ID, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return domain.ErrCSVExportWithCause("flush", "failed to flush CSV writer", err)
	}

	r.logger.Info(context.TODO(), "CSV export completed",
		domain.NewField("outputPath", outputPath),
		domain.NewField("records", len(completions)))
	return nil
}

// validateOutputPath only allows visible .csv files outside system directories
func (r *CSVWriterRepositoryImpl) validateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ErrInvalidInput("outputPath", "must not be empty")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return domain.ErrPathTraversal(path)
		}
	}

	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) && !isTempPath(cleanPath) {
		for _, dir := range []string{"/etc", "/usr", "/bin", "/sbin", "/var", "/proc", "/sys", "/dev"} {
			if cleanPath == dir || strings.HasPrefix(cleanPath, dir+"/") {
				return domain.ErrSystemDirectory(path)
			}
		}
	}

	base := filepath.Base(cleanPath)
	if strings.HasPrefix(base, ".") {
		return domain.ErrInvalidInput("outputPath", "cannot write to hidden files")
	}
	if filepath.Ext(cleanPath) != ".csv" {
		return domain.ErrInvalidInput("outputPath", "file must have .csv extension")
	}
	return nil
}

func isTempPath(path string) bool {
	tmp := filepath.Clean(os.TempDir())
	return strings.HasPrefix(path, "/tmp/") || strings.HasPrefix(path, "/var/folders/") || strings.HasPrefix(path, tmp+string(filepath.Separator))
}

// sanitizeCSVField prefixes values a spreadsheet would evaluate as a formula
func sanitizeCSVField(field string) string {
	if field == "" {
		return field
	}
	switch field[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + field
	}
	upper := strings.ToUpper(field)
	for _, pattern := range []string{"=CMD", "=DDE", "@SUM", "IMPORTXML", "WEBSERVICE"} {
		if strings.Contains(upper, pattern) {
			return "'" + field
		}
	}
	return field
}
