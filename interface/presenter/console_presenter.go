package presenter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ca-srg/habitflow/domain/entity"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// shortIDLength is how much of a habit ID the tables show
const shortIDLength = 8

// ConsolePresenterImpl renders results as text tables
type ConsolePresenterImpl struct {
	writer    io.Writer
	errWriter io.Writer
}

// NewConsolePresenter creates a new console presenter
func NewConsolePresenter(out, errOut io.Writer) *ConsolePresenterImpl {
	return &ConsolePresenterImpl{writer: out, errWriter: errOut}
}

// PrintError prints the user-facing form of err
func (p *ConsolePresenterImpl) PrintError(err error) {
	_, _ = fmt.Fprintf(p.errWriter, "Error: %s\n", FriendlyMessage(err))
}

func (p *ConsolePresenterImpl) PrintMessage(msg string) error {
	_, _ = fmt.Fprintln(p.writer, msg)
	return nil
}

func (p *ConsolePresenterImpl) PrintHabit(h entity.Habit) error {
	_, _ = fmt.Fprintf(p.writer, "Created habit %q (%s)\n", h.Name, h.ID)
	return nil
}

// PrintHabits prints one row per habit
func (p *ConsolePresenterImpl) PrintHabits(habits []entity.Habit) error {
	if len(habits) == 0 {
		_, _ = fmt.Fprintln(p.writer, "No habits yet. Add one with: habitflow add <name>")
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tSTATE\tSTREAK\tBEST\tLAST DONE")
	for _, h := range habits {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			shortID(h.ID),
			p.truncateString(h.Name, 30),
			stateLabel(h),
			h.Streak,
			h.LongestStreak,
			orDash(h.LastCompletedDay.String()))
	}
	return w.Flush()
}

// PrintResolve prints the habit table followed by the grace window and any failures
func (p *ConsolePresenterImpl) PrintResolve(res *usecase.ResolveOwnerResult) error {
	_, _ = fmt.Fprintf(p.writer, "Today is %s (%s)\n", res.Today, res.Timezone)
	if res.TimezoneFallback {
		_, _ = fmt.Fprintln(p.errWriter, "Warning: configured timezone is unknown, using UTC")
	}
	_, _ = fmt.Fprintln(p.writer)

	if err := p.PrintHabits(res.Habits); err != nil {
		return err
	}

	if len(res.Grace) > 0 {
		_, _ = fmt.Fprintln(p.writer)
		_, _ = fmt.Fprintln(p.writer, "Grace window open, redeem yesterday with: habitflow redeem <habit>")
		for _, g := range res.Grace {
			_, _ = fmt.Fprintf(p.writer, "  - %s (%s, streak %d)\n", g.Habit.Name, g.Reason, g.Habit.Streak)
		}
	}

	if len(res.Failed) > 0 {
		_, _ = fmt.Fprintln(p.errWriter)
		_, _ = fmt.Fprintf(p.errWriter, "%d habit(s) could not be resolved and will be retried:\n", len(res.Failed))
		for _, f := range res.Failed {
			_, _ = fmt.Fprintf(p.errWriter, "  - %s: %v\n", shortID(f.HabitID), f.Err)
		}
	}
	return nil
}

func (p *ConsolePresenterImpl) PrintCompletion(res *usecase.CompletionResult) error {
	h := res.Habit
	_, _ = fmt.Fprintf(p.writer, "%s done for %s. Streak: %d (best %d)\n",
		h.Name, res.Completion.Day, h.Streak, h.LongestStreak)
	return nil
}

func (p *ConsolePresenterImpl) PrintHistory(h entity.Habit, completions []*entity.Completion) error {
	_, _ = fmt.Fprintf(p.writer, "History of %s\n", h.Name)
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 50))
	if len(completions) == 0 {
		_, _ = fmt.Fprintln(p.writer, "No completions recorded")
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DAY\tKIND\tSTREAK\tSOURCE\tNOTE")
	for _, c := range completions {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			c.Day, c.Kind, c.Streak, orDash(c.Source), p.truncateString(c.Note, 40))
	}
	return w.Flush()
}

func (p *ConsolePresenterImpl) PrintExport(res *usecase.CSVExportResult) error {
	_, _ = fmt.Fprintf(p.writer, "Exported %d completion(s) from %s to %s\n", res.Rows, res.From, res.To)
	_, _ = fmt.Fprintf(p.writer, "Output: %s\n", res.OutputPath)
	return nil
}

// PrintConfig prints the configuration as indented key: value lines
func (p *ConsolePresenterImpl) PrintConfig(cfg map[string]interface{}) error {
	p.printMap(cfg, 0)
	return nil
}

func (p *ConsolePresenterImpl) printMap(m map[string]interface{}, depth int) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	indent := strings.Repeat("  ", depth)
	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]interface{}:
			_, _ = fmt.Fprintf(p.writer, "%s%s:\n", indent, k)
			p.printMap(v, depth+1)
		case map[string]string:
			_, _ = fmt.Fprintf(p.writer, "%s%s:\n", indent, k)
			nested := make(map[string]interface{}, len(v))
			for nk, nv := range v {
				nested[nk] = nv
			}
			p.printMap(nested, depth+1)
		default:
			_, _ = fmt.Fprintf(p.writer, "%s%s: %v\n", indent, k, v)
		}
	}
}

func (p *ConsolePresenterImpl) truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func stateLabel(h entity.Habit) string {
	if h.NeglectedDays > 0 {
		return fmt.Sprintf("%s (%dd)", h.State, h.NeglectedDays)
	}
	return h.State.String()
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
