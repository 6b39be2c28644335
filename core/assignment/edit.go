package assignment

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
)

// State is the edit state of an assignment; each step locks more fields.
type State int

const (
	StateDraft State = iota
	StatePublished
	StatePublishedWithSubmissions
)

func StateOf(a Assignment) State {
	switch {
	case a.IsPublished && a.HasSubmissions:
		return StatePublishedWithSubmissions
	case a.IsPublished:
		return StatePublished
	default:
		return StateDraft
	}
}

// ValidateEdit checks proposed against the rules of current's state and returns the first violation:
//   - Draft: title, description and due date are required.
//   - Published: title and schedule are read-only; description and due date are still required.
//   - PublishedWithSubmissions: the due date can only move forward.
func ValidateEdit(current, proposed Assignment) error {
	state := StateOf(current)

	if state == StateDraft && core.CleanString(proposed.Title) == "" {
		return &MissingFieldError{Field: "title"}
	}
	if core.CleanString(proposed.Description) == "" {
		return &MissingFieldError{Field: "description"}
	}
	if proposed.DueDate.IsZero() {
		return &MissingFieldError{Field: "dueDate"}
	}

	if state >= StatePublished {
		if core.CleanString(proposed.Title) != current.Title {
			return &ImmutableFieldError{Field: "title"}
		}
		if (proposed.Schedule != "" && proposed.Schedule != current.Schedule) ||
			(proposed.ScheduleID != 0 && proposed.ScheduleID != current.ScheduleID) {
			return &ImmutableFieldError{Field: "schedule"}
		}
	}

	if state == StatePublishedWithSubmissions && proposed.DueDate.Before(current.DueDate) {
		return &DeadlineRegressionError{}
	}
	return nil
}

// Merge returns current with the editable fields of proposed applied.
func Merge(current, proposed Assignment) Assignment {
	out := current
	out.Title = core.CleanString(proposed.Title)
	out.Description = core.CleanString(proposed.Description)
	out.DueDate = proposed.DueDate
	out.EstimatedTime = core.CleanString(proposed.EstimatedTime)
	out.GradingCriteria = proposed.GradingCriteria
	out.Attachments = proposed.Attachments
	out.IsPublished = current.IsPublished || proposed.IsPublished
	if proposed.Schedule != "" {
		out.Schedule = proposed.Schedule
	}
	if proposed.ScheduleID != 0 {
		out.ScheduleID = proposed.ScheduleID
	}
	return out
}

// ChangeSet lists the human-readable changes between two versions of an assignment.
type ChangeSet struct {
	Changes         []string
	DescriptionDiff string
}

func (cs ChangeSet) IsEmpty() bool { return len(cs.Changes) == 0 }

func Changes(current, updated Assignment) ChangeSet {
	var cs ChangeSet
	if updated.Title != current.Title {
		cs.Changes = append(cs.Changes, "Title updated")
	}
	if updated.Description != current.Description {
		cs.Changes = append(cs.Changes, "Description updated")
		cs.DescriptionDiff = descriptionDiff(current.Description, updated.Description)
	}
	switch {
	case updated.DueDate.After(current.DueDate):
		cs.Changes = append(cs.Changes, "Due date extended")
	case !updated.DueDate.Equal(current.DueDate):
		cs.Changes = append(cs.Changes, "Due date changed")
	}
	if updated.Schedule != current.Schedule {
		cs.Changes = append(cs.Changes, "Schedule changed")
	}
	if updated.EstimatedTime != current.EstimatedTime {
		cs.Changes = append(cs.Changes, "Estimated time updated")
	}
	if !updated.GradingCriteria.Equal(current.GradingCriteria) {
		cs.Changes = append(cs.Changes, "Grading criteria updated")
	}
	if !sameAttachments(current.Attachments, updated.Attachments) {
		cs.Changes = append(cs.Changes, "Attachments updated")
	}
	if updated.IsPublished && !current.IsPublished {
		cs.Changes = append(cs.Changes, "Published")
	}
	return cs
}

func descriptionDiff(a, b string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(ensureNewline(a)),
		B:        difflib.SplitLines(ensureNewline(b)),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

func sameAttachments(a, b []Attachment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
