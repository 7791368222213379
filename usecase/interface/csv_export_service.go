package usecase

import (
	"context"
	"time"

	"github.com/ca-srg/habitflow/domain/valueobject"
)

// CSVExportService defines the interface for CSV export use cases
type CSVExportService interface {
	// Export writes the owner's completion history to a CSV file
	Export(ctx context.Context, options CSVExportOptions) (*CSVExportResult, error)
}

// CSVExportOptions represents options for CSV export
type CSVExportOptions struct {
	OwnerID    string
	OutputPath string // file or directory; empty uses the configured directory
	// From and To bound the local days; zero values use the configured window ending today
	From     valueobject.LocalDate
	To       valueobject.LocalDate
	HabitIDs []string
	Timezone string
	Ref      time.Time
}

// CSVExportResult describes a finished export
type CSVExportResult struct {
	OutputPath string
	Rows       int
	From       valueobject.LocalDate
	To         valueobject.LocalDate
}
