package presenter

import (
	"encoding/json"
	"io"

	"github.com/ca-srg/habitflow/domain"
	"github.com/ca-srg/habitflow/domain/entity"
	usecase "github.com/ca-srg/habitflow/usecase/interface"
)

// JSONPresenterImpl renders results as indented JSON documents
type JSONPresenterImpl struct {
	encoder    *json.Encoder
	errEncoder *json.Encoder
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter(out, errOut io.Writer) *JSONPresenterImpl {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	errEncoder := json.NewEncoder(errOut)
	errEncoder.SetIndent("", "  ")

	return &JSONPresenterImpl{encoder: encoder, errEncoder: errEncoder}
}

type habitJSON struct {
	ID               string `json:"id"`
	OwnerID          string `json:"ownerId"`
	Name             string `json:"name"`
	State            string `json:"state"`
	Streak           int    `json:"streak"`
	LongestStreak    int    `json:"longestStreak"`
	LastCompletedDay string `json:"lastCompletedDay,omitempty"`
	LastResolvedDay  string `json:"lastResolvedDay,omitempty"`
	JunkedSince      string `json:"junkedSince,omitempty"`
	CreatedDay       string `json:"createdDay"`
	NeglectedDays    int    `json:"neglectedDays,omitempty"`
	Version          int64  `json:"version"`
}

func toHabitJSON(h entity.Habit) habitJSON {
	return habitJSON{
		ID:               h.ID,
		OwnerID:          h.OwnerID,
		Name:             h.Name,
		State:            h.State.String(),
		Streak:           h.Streak,
		LongestStreak:    h.LongestStreak,
		LastCompletedDay: h.LastCompletedDay.String(),
		LastResolvedDay:  h.LastResolvedDay.String(),
		JunkedSince:      h.JunkedSince.String(),
		CreatedDay:       h.CreatedDay.String(),
		NeglectedDays:    h.NeglectedDays,
		Version:          h.Version,
	}
}

func toHabitsJSON(habits []entity.Habit) []habitJSON {
	out := make([]habitJSON, len(habits))
	for i, h := range habits {
		out[i] = toHabitJSON(h)
	}
	return out
}

type completionJSON struct {
	ID         string `json:"id"`
	HabitID    string `json:"habitId"`
	Day        string `json:"day"`
	Kind       string `json:"kind"`
	Streak     int    `json:"streak"`
	Source     string `json:"source,omitempty"`
	Note       string `json:"note,omitempty"`
	RecordedAt string `json:"recordedAt"`
}

func toCompletionJSON(c *entity.Completion) completionJSON {
	return completionJSON{
		ID:         c.ID,
		HabitID:    c.HabitID,
		Day:        c.Day.String(),
		Kind:       c.Kind.String(),
		Streak:     c.Streak,
		Source:     c.Source,
		Note:       c.Note,
		RecordedAt: c.RecordedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

func (p *JSONPresenterImpl) PrintHabit(h entity.Habit) error {
	return p.encoder.Encode(toHabitJSON(h))
}

func (p *JSONPresenterImpl) PrintHabits(habits []entity.Habit) error {
	return p.encoder.Encode(map[string]interface{}{
		"habits": toHabitsJSON(habits),
	})
}

func (p *JSONPresenterImpl) PrintResolve(res *usecase.ResolveOwnerResult) error {
	grace := make([]map[string]interface{}, len(res.Grace))
	for i, g := range res.Grace {
		grace[i] = map[string]interface{}{
			"habitId": g.Habit.ID,
			"name":    g.Habit.Name,
			"reason":  string(g.Reason),
			"streak":  g.Habit.Streak,
		}
	}
	failed := make([]map[string]string, len(res.Failed))
	for i, f := range res.Failed {
		failed[i] = map[string]string{
			"habitId": f.HabitID,
			"error":   f.Err.Error(),
		}
	}

	return p.encoder.Encode(map[string]interface{}{
		"ownerId":          res.OwnerID,
		"today":            res.Today.String(),
		"timezone":         res.Timezone,
		"timezoneFallback": res.TimezoneFallback,
		"changed":          res.Changed,
		"habits":           toHabitsJSON(res.Habits),
		"grace":            grace,
		"failed":           failed,
	})
}

func (p *JSONPresenterImpl) PrintCompletion(res *usecase.CompletionResult) error {
	return p.encoder.Encode(map[string]interface{}{
		"habit":      toHabitJSON(res.Habit),
		"completion": toCompletionJSON(res.Completion),
	})
}

func (p *JSONPresenterImpl) PrintHistory(h entity.Habit, completions []*entity.Completion) error {
	items := make([]completionJSON, len(completions))
	for i, c := range completions {
		items[i] = toCompletionJSON(c)
	}
	return p.encoder.Encode(map[string]interface{}{
		"habit":       toHabitJSON(h),
		"completions": items,
	})
}

func (p *JSONPresenterImpl) PrintExport(res *usecase.CSVExportResult) error {
	return p.encoder.Encode(map[string]interface{}{
		"outputPath": res.OutputPath,
		"rows":       res.Rows,
		"from":       res.From.String(),
		"to":         res.To.String(),
	})
}

func (p *JSONPresenterImpl) PrintConfig(cfg map[string]interface{}) error {
	return p.encoder.Encode(cfg)
}

func (p *JSONPresenterImpl) PrintMessage(msg string) error {
	return p.encoder.Encode(map[string]string{"message": msg})
}

// PrintError writes the error to errOut with its domain code
func (p *JSONPresenterImpl) PrintError(err error) {
	body := map[string]string{
		"message": FriendlyMessage(err),
		"detail":  err.Error(),
	}
	if code := domain.GetErrorCode(err); code != "" {
		body["code"] = string(code)
	}
	_ = p.errEncoder.Encode(map[string]interface{}{"error": body})
}
