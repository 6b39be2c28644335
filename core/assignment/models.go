package assignment

import (
	"bytes"
	"encoding/json"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
)

type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusSubmitted  Status = "submitted"
	StatusGraded     Status = "graded"
)

var (
	statusLabels = map[Status]string{
		StatusNotStarted: "Not Started",
		StatusInProgress: "In Progress",
		StatusSubmitted:  "Submitted",
		StatusGraded:     "Graded",
	}

	statusRanks = map[Status]int{
		StatusNotStarted: 0,
		StatusInProgress: 1,
		StatusSubmitted:  2,
		StatusGraded:     3,
	}
)

func (s Status) Label() string { return statusLabels[s] }

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Criterion is one line of a structured grading rubric.
type Criterion struct {
	MaxScore float64 `json:"maxScore"`
	Weight   float64 `json:"weight"`
}

// Criteria is either a free-text rubric ("Code quality: 30%, ...") or a structured one.
// It decodes from and encodes to a JSON string or object accordingly.
type Criteria struct {
	Text  string
	Items map[string]Criterion
}

func (c Criteria) IsStructured() bool { return len(c.Items) > 0 }

func (c Criteria) IsZero() bool { return c.Text == "" && len(c.Items) == 0 }

// Equal compares two rubrics; used to detect edits.
func (c Criteria) Equal(o Criteria) bool {
	if c.Text != o.Text || len(c.Items) != len(o.Items) {
		return false
	}
	for name, item := range c.Items {
		if other, ok := o.Items[name]; !ok || other != item {
			return false
		}
	}
	return true
}

func (c Criteria) MarshalJSON() ([]byte, error) {
	if c.IsStructured() {
		return json.Marshal(c.Items)
	}
	return json.Marshal(c.Text)
}

func (c *Criteria) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*c = Criteria{}
		return nil
	case len(b) > 0 && b[0] == '{':
		items := make(map[string]Criterion)
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*c = Criteria{Items: items}
		return nil
	default:
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		*c = Criteria{Text: text}
		return nil
	}
}

type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Assignment struct {
	ID              int          `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	DueDate         core.Date    `json:"dueDate"`
	ScheduleID      int          `json:"scheduleId,omitempty"`
	Schedule        string       `json:"schedule"`
	EstimatedTime   string       `json:"estimatedTime,omitempty"`
	GradingCriteria Criteria     `json:"gradingCriteria"`
	Status          Status       `json:"status"`
	IsPublished     bool         `json:"isPublished"`
	HasSubmissions  bool         `json:"hasSubmissions"`
	Attachments     []Attachment `json:"attachments,omitempty"`
	IsPastDue       bool         `json:"isPastDue"`
	StatusLabel     string       `json:"statusLabel,omitempty"`
}

// PastDue reports whether the due date is before today and the work is neither submitted nor graded.
func (a Assignment) PastDue(today core.Date) bool {
	if a.Status == StatusSubmitted || a.Status == StatusGraded {
		return false
	}
	return !a.DueDate.IsZero() && a.DueDate.Before(today)
}

// Decorate fills in the derived display fields.
func (a Assignment) Decorate(today core.Date) Assignment {
	a.IsPastDue = a.PastDue(today)
	a.StatusLabel = a.Status.Label()
	return a
}

// Advance moves the assignment to status s. Statuses only move forward.
func Advance(a Assignment, s Status) Assignment {
	if statusRanks[s] > statusRanks[a.Status] || !a.Status.Valid() {
		a.Status = s
		a.StatusLabel = s.Label()
	}
	return a
}
