package presenter

import (
	"fmt"
	"io"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// Presenter renders command results. ConsolePresenterImpl and
// JSONPresenterImpl both implement it.
type Presenter interface {
	PrintHabit(h entity.Habit) error
	PrintHabits(habits []entity.Habit) error
	PrintResolve(res *usecase.ResolveOwnerResult) error
	PrintCompletion(res *usecase.CompletionResult) error
	PrintHistory(h entity.Habit, completions []*entity.Completion) error
	PrintExport(res *usecase.CSVExportResult) error
	PrintConfig(cfg map[string]interface{}) error
	PrintMessage(msg string) error
	PrintError(err error)
}

const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats lists the accepted --format values
var ValidFormats = []string{FormatText, FormatJSON}

// New returns the presenter for format writing results to out and errors to errOut
func New(format string, out, errOut io.Writer) (Presenter, error) {
	switch format {
	case FormatText, "":
		return NewConsolePresenter(out, errOut), nil
	case FormatJSON:
		return NewJSONPresenter(out, errOut), nil
	}
	return nil, fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
}

// FriendlyMessage turns the recoverable domain errors into short user-facing text
func FriendlyMessage(err error) string {
	switch domain.GetErrorCode(err) {
	case domain.ErrCodeDoubleCompletion:
		return "already done today"
	case domain.ErrCodeGraceWindowExpired:
		return "grace window has closed"
	case domain.ErrCodeStaleReference:
		return "that day is already behind this habit, check --now"
	case domain.ErrCodeNotFound:
		return "habit not found"
	case domain.ErrCodeConflict:
		return "habit was changed by another session, try again"
	}
	return err.Error()
}
