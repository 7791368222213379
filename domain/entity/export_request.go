package entity

import (
	"time"

	"github.com/ca-srg/habitflow/domain/valueobject"
)

// ExportRequest represents a request to export completion history
type ExportRequest struct {
	OwnerID    string
	From       valueobject.LocalDate
	To         valueobject.LocalDate
	OutputPath string
	HabitIDs   []string // Empty means all habits
}

// NewExportRequest creates a new export request
func NewExportRequest(ownerID string, from, to valueobject.LocalDate, outputPath string) *ExportRequest {
	return &ExportRequest{
		OwnerID:    ownerID,
		From:       from,
		To:         to,
		OutputPath: outputPath,
		HabitIDs:   []string{},
	}
}

// WithHabits restricts the export to the given habits
func (e *ExportRequest) WithHabits(ids []string) *ExportRequest {
	e.HabitIDs = ids
	return e
}

// IncludesHabit reports whether id passes the habit filter
func (e *ExportRequest) IncludesHabit(id string) bool {
	if len(e.HabitIDs) == 0 {
		return true
	}
	for _, h := range e.HabitIDs {
		if h == id {
			return true
		}
	}
	return false
}

// GetDateRange returns a formatted date range string
func (e *ExportRequest) GetDateRange() string {
	if e.From == e.To {
		return e.From.String()
	}
	return e.From.String() + "_to_" + e.To.String()
}

// GenerateFilename generates a filename for the export
func (e *ExportRequest) GenerateFilename(now time.Time) string {
	return "habitflow_completions_" + e.GetDateRange() + "_" + now.Format("20060102_150405") + ".csv"
}
