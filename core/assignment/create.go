package assignment

import (
	"github.com/Eddy-Prime/SE-Complete-Project/core"
)

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	DueDate         core.Date    `json:"dueDate"`
	ScheduleID      int          `json:"scheduleId"`
	Schedule        string       `json:"schedule"`
	EstimatedTime   string       `json:"estimatedTime"`
	GradingCriteria Criteria     `json:"gradingCriteria"`
	Attachments     []Attachment `json:"attachments"`
	IsPublished     bool         `json:"isPublished"`
}

// Validate reports every missing field at once, then a due date set before today.
func (na *NewAssignment) Validate(today core.Date) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Schedule = core.CleanString(na.Schedule)
	na.EstimatedTime = core.CleanString(na.EstimatedTime)

	var flds []core.FieldError
	missing := func(field string) {
		flds = append(flds, core.FieldError{Field: field, Error: (&MissingFieldError{Field: field}).Error()})
	}
	if na.Title == "" {
		missing("title")
	}
	if na.Description == "" {
		missing("description")
	}
	if na.DueDate.IsZero() {
		missing("dueDate")
	}
	if na.ScheduleID == 0 && na.Schedule == "" {
		missing("schedule")
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}

	if na.DueDate.Before(today) {
		return core.NewFieldError("dueDate", errDueDateInPast)
	}
	return nil
}
