package submission

import (
	"time"

	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusLate      Status = "late"
	StatusGraded    Status = "graded"
)

type HistoryType string

const (
	HistoryDraft     HistoryType = "draft"
	HistorySubmitted HistoryType = "submitted"
)

type Submission struct {
	ID             int                     `json:"id"`
	AssignmentID   int                     `json:"assignmentId"`
	StudentName    string                  `json:"studentName"`
	StudentNumber  string                  `json:"studentNumber,omitempty"`
	SubmissionDate time.Time               `json:"submissionDate"`
	Content        string                  `json:"content"`
	Attachments    []assignment.Attachment `json:"attachments"`
	IsGraded       bool                    `json:"isGraded"`
	Grade          string                  `json:"grade,omitempty"`
	CriteriaGrades map[string]string       `json:"criteriaGrades,omitempty"`
	Feedback       string                  `json:"feedback,omitempty"`
	Status         Status                  `json:"status"`
	Late           bool                    `json:"late"`
	LateNote       string                  `json:"lateNote,omitempty"`
}

// NewSubmission is what gets sent to the courses API on a final submission.
type NewSubmission struct {
	StudentName   string                  `json:"studentName"`
	StudentNumber string                  `json:"studentNumber"`
	Content       string                  `json:"content"`
	Attachments   []assignment.Attachment `json:"attachments"`
	Late          bool                    `json:"late"`
	LateNote      string                  `json:"lateNote,omitempty"`
}

// Draft is the saved, not yet submitted, work of a student on an assignment.
type Draft struct {
	AssignmentID int                     `json:"assignmentId"`
	Student      string                  `json:"student"`
	Content      string                  `json:"content"`
	Attachments  []assignment.Attachment `json:"attachments"`
	LastSaved    time.Time               `json:"lastSaved"`
}

type HistoryEntry struct {
	ID           string                  `json:"id"`
	AssignmentID int                     `json:"assignmentId"`
	Student      string                  `json:"student"`
	Type         HistoryType             `json:"type"`
	Timestamp    time.Time               `json:"timestamp"`
	Content      string                  `json:"content"`
	Attachments  []assignment.Attachment `json:"attachments"`
}

// File is an attachment uploaded with a submission.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Request is a draft save or a final submission. Attachments are files already stored,
// typically carried over from the draft; Files are new uploads.
type Request struct {
	Content     string                  `json:"content" form:"content"`
	Attachments []assignment.Attachment `json:"attachments"`
	Files       []File                  `json:"-"`
	IsDraft     bool                    `json:"isDraft" form:"isDraft"`
	LateNote    string                  `json:"lateNote" form:"lateNote"`
}

type Result struct {
	Submission *Submission           `json:"submission,omitempty"`
	Draft      *Draft                `json:"draft,omitempty"`
	Assignment assignment.Assignment `json:"assignment"`
	Status     Status                `json:"status"`
}
