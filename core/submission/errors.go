package submission

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
)

var (
	ErrNotFound      = errors.New("Submission not found")
	ErrDraftNotFound = errors.New("no draft saved")
	ErrForbidden     = errors.New("only students can submit assignments")
	ErrNotLecturer   = errors.New("only lecturers can review submissions")

	errContentRequired = "Please provide some content for your submission"
)

// DeadlinePassedError is returned for a final submission after the due date when late work is refused.
type DeadlinePassedError struct {
	Assignment string
	DueDate    core.Date
}

func (e *DeadlinePassedError) Error() string {
	return fmt.Sprintf("The deadline for %s has passed (due %s)", e.Assignment, e.DueDate)
}
