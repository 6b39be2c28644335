package schedule

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("Schedule not found")

// CapacityError is returned when enrolling in a schedule that has no seat left.
type CapacityError struct {
	Schedule string
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Cannot enroll in %s. Schedule has reached maximum capacity.", e.Schedule)
}

// ConflictError is returned when a schedule overlaps another enrolled schedule.
type ConflictError struct {
	Schedule string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("Cannot enroll in %s. This schedule conflicts with another enrolled schedule.", e.Schedule)
}

// AlreadyEnrolledError is returned when the student already holds a seat in the schedule.
type AlreadyEnrolledError struct {
	Schedule string
}

func (e *AlreadyEnrolledError) Error() string {
	return fmt.Sprintf("You are already enrolled in %s.", e.Schedule)
}
