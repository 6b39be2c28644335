package grading

import (
	"context"
	"time"
)

type RecordKind string

const (
	KindGrade    RecordKind = "grade"
	KindRevision RecordKind = "revision"
)

// Record is a grade or a revision request given on a submission.
type Record struct {
	ID             string            `json:"id"`
	AssignmentID   int               `json:"assignmentId"`
	SubmissionID   int               `json:"submissionId"`
	Kind           RecordKind        `json:"kind"`
	Grade          string            `json:"grade,omitempty"`
	CriteriaGrades map[string]string `json:"criteriaGrades,omitempty"`
	Feedback       string            `json:"feedback"`
	Grader         string            `json:"grader"`
	CreatedAt      time.Time         `json:"createdAt"`
}

type RecordRepository interface {
	AddRecord(ctx context.Context, r Record) error
	// ListRecords returns the records of an assignment, newest first.
	ListRecords(ctx context.Context, assignmentID int) ([]Record, error)
}
