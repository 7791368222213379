package repository

import (
	"github.com/ca-srg/habitflow/domain/entity"
)

// CSVWriterRepository defines the interface for writing CSV files
type CSVWriterRepository interface {
	Write(habits map[string]entity.Habit, completions []*entity.Completion, outputPath string) error
}
