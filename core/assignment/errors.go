package assignment

import (
	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("Assignment not found")
	ErrForbidden = errors.New("only lecturers can manage assignments")

	errDueDateInPast = "Due date cannot be in the past"

	fieldLabels = map[string]string{
		"title":       "Title",
		"description": "Description",
		"dueDate":     "Due date",
		"schedule":    "Schedule",
	}
)

// MissingFieldError is returned when a required field is empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	label, ok := fieldLabels[e.Field]
	if !ok {
		label = e.Field
	}
	return label + " is required"
}

// ImmutableFieldError is returned when editing a field locked by publication.
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return "Cannot change the " + e.Field + " of a published assignment"
}

// DeadlineRegressionError is returned when moving the due date earlier once students have submitted.
type DeadlineRegressionError struct{}

func (e *DeadlineRegressionError) Error() string {
	return "Cannot reduce deadline of an assignment with existing submissions"
}
