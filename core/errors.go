package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewFieldError is a ValidationError on a single field whose message is also the error message.
func NewFieldError(field, msg string) error {
	return &ValidationError{Err: errors.New(msg), Fields: []FieldError{{Field: field, Error: msg}}}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// RemoteError is returned when the courses API answers with a non-2xx status (Status > 0)
// or cannot be reached at all (Status == 0).
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status == 0 {
		return fmt.Sprintf("courses api unreachable: %v", e.Err)
	}
	return fmt.Sprintf("courses api: unexpected status %d", e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Unreachable reports a transport failure (no response received).
func (e *RemoteError) Unreachable() bool { return e.Status == 0 }

// AsRemoteError returns the RemoteError wrapped by err, if any.
func AsRemoteError(err error) (*RemoteError, bool) {
	rErr, ok := errors.Cause(err).(*RemoteError)
	return rErr, ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
