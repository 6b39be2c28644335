package assignment

import (
	"context"
	"time"
)

// ChangeLogEntry records one accepted edit of an assignment.
type ChangeLogEntry struct {
	ID           string    `json:"id"`
	AssignmentID int       `json:"assignmentId"`
	Changes      []string  `json:"changes"`
	Detail       string    `json:"detail,omitempty"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ChangeLogRepository interface {
	AddChangeLog(ctx context.Context, entry ChangeLogEntry) error
	// ListChangeLog returns the entries of an assignment, newest first.
	ListChangeLog(ctx context.Context, assignmentID int) ([]ChangeLogEntry, error)
}
