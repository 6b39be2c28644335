package grading

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	errOverallRequired = "Please provide an overall grade"
	errUnknownAction   = errors.New("unknown grading action")
)

// MissingFeedbackError is returned when a grade or a revision request has no feedback.
type MissingFeedbackError struct {
	Revision bool
}

func (e *MissingFeedbackError) Error() string {
	if e.Revision {
		return "Please provide feedback for the revision request"
	}
	return "Please provide feedback"
}

// InvalidGradeError is returned for a grade (or a criterion score) outside its valid range.
type InvalidGradeError struct {
	Grade     string
	Criterion string
	Min       float64
	Max       float64
}

func (e *InvalidGradeError) Error() string {
	if e.Criterion != "" {
		return fmt.Sprintf("Score %s for %s must be between %s and %s", e.Grade, e.Criterion, formatNumber(e.Min), formatNumber(e.Max))
	}
	return fmt.Sprintf("Grade %s must be between %s and %s", e.Grade, formatNumber(e.Min), formatNumber(e.Max))
}
