package submission

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

var (
	MsgDraftSaved    = "Draft saved successfully"
	MsgSubmitted     = "Assignment submitted successfully"
	MsgSubmittedLate = "Assignment submitted after the deadline"

	nowFunc = time.Now // mockable
)

type (
	// Backend is the part of the courses API that stores final submissions.
	Backend interface {
		CreateSubmission(ctx context.Context, token string, assignmentID int, ns NewSubmission) (Submission, error)
		ListSubmissions(ctx context.Context, token string, assignmentID int) ([]Submission, error)
		GetSubmission(ctx context.Context, token string, assignmentID, submissionID int) (Submission, error)
	}

	// Assignments resolves the assignment a submission belongs to.
	Assignments interface {
		Get(ctx context.Context, sess session.Session, id int) (assignment.Assignment, error)
	}

	// DraftStore keeps at most one draft per student and assignment.
	DraftStore interface {
		SaveDraft(ctx context.Context, d Draft) error
		GetDraft(ctx context.Context, assignmentID int, student string) (Draft, error)
		DeleteDraft(ctx context.Context, assignmentID int, student string) error
	}

	HistoryRepository interface {
		AddHistory(ctx context.Context, e HistoryEntry) error
		// ListHistory returns the entries of a student on an assignment, oldest first.
		ListHistory(ctx context.Context, assignmentID int, student string) ([]HistoryEntry, error)
	}

	// FileStore stores uploaded attachments and returns their public URL.
	FileStore interface {
		Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	}

	// Policy decides what happens to final submissions after the due date.
	Policy struct {
		AllowLate bool
	}

	Service struct {
		backend     Backend
		assignments Assignments
		drafts      DraftStore
		history     HistoryRepository
		files       FileStore
		policy      Policy
		logger      core.Logger
		inflight    singleflight.Group
	}
)

func NewPolicy(conf *core.Config) Policy {
	return Policy{AllowLate: conf.Submission.AllowLate}
}

func NewService(backend Backend, assignments Assignments, drafts DraftStore, history HistoryRepository, files FileStore, policy Policy, logger core.Logger) *Service {
	return &Service{
		backend:     backend,
		assignments: assignments,
		drafts:      drafts,
		history:     history,
		files:       files,
		policy:      policy,
		logger:      logger,
	}
}

// Submit saves a draft or hands in the final work of the session's student.
// Final submissions need content; after the due date they are tagged late or refused, depending on the policy.
// Identical concurrent final submissions by the same session share one call to the courses API.
func (svc *Service) Submit(ctx context.Context, sess session.Session, assignmentID int, req Request) (Result, core.StatusMessage, error) {
	if !sess.IsStudent() {
		return Result{}, core.Failure(ErrForbidden.Error()), ErrForbidden
	}
	req.Content = strings.TrimSpace(req.Content)
	req.LateNote = strings.TrimSpace(req.LateNote)
	if !req.IsDraft && req.Content == "" {
		err := core.NewFieldError("content", errContentRequired)
		return Result{}, core.Failure(err.Error()), err
	}

	a, err := svc.assignments.Get(ctx, sess, assignmentID)
	if err != nil {
		return Result{}, core.Failure(err.Error()), err
	}

	if req.IsDraft {
		return svc.saveDraft(ctx, sess, a, req)
	}

	late := core.DateOf(nowFunc()).After(a.DueDate) && !a.DueDate.IsZero()
	if late && !svc.policy.AllowLate {
		err := &DeadlinePassedError{Assignment: a.Title, DueDate: a.DueDate}
		return Result{}, core.Failure(err.Error()), err
	}

	key := sess.ID + ":" + strconv.Itoa(assignmentID) + ":" + req.digest()
	v, err, _ := svc.inflight.Do(key, func() (interface{}, error) {
		return svc.submit(ctx, sess, a, req, late)
	})
	if err != nil {
		return Result{}, core.Failure(err.Error()), err
	}
	res := v.(Result)
	if res.Status == StatusLate {
		return res, core.Success(MsgSubmittedLate), nil
	}
	return res, core.Success(MsgSubmitted), nil
}

func (svc *Service) saveDraft(ctx context.Context, sess session.Session, a assignment.Assignment, req Request) (Result, core.StatusMessage, error) {
	attachments, err := svc.upload(ctx, sess, a.ID, req)
	if err != nil {
		return Result{}, core.Failure(err.Error()), err
	}

	d := Draft{
		AssignmentID: a.ID,
		Student:      sess.Identifier(),
		Content:      req.Content,
		Attachments:  attachments,
		LastSaved:    nowFunc().UTC(),
	}
	if err = svc.drafts.SaveDraft(ctx, d); err != nil {
		err = errors.Wrap(err, "saving draft")
		return Result{}, core.Failure(err.Error()), err
	}
	svc.record(ctx, sess, HistoryEntry{
		AssignmentID: a.ID,
		Type:         HistoryDraft,
		Timestamp:    d.LastSaved,
		Content:      d.Content,
		Attachments:  d.Attachments,
	})

	res := Result{
		Draft:      &d,
		Assignment: assignment.Advance(a, assignment.StatusInProgress),
		Status:     StatusDraft,
	}
	return res, core.Success(MsgDraftSaved), nil
}

func (svc *Service) submit(ctx context.Context, sess session.Session, a assignment.Assignment, req Request, late bool) (Result, error) {
	attachments, err := svc.upload(ctx, sess, a.ID, req)
	if err != nil {
		return Result{}, err
	}

	ns := NewSubmission{
		StudentName:   sess.FullName,
		StudentNumber: sess.StudentNumber,
		Content:       req.Content,
		Attachments:   attachments,
		Late:          late,
	}
	if late {
		ns.LateNote = req.LateNote
	}
	sub, err := svc.backend.CreateSubmission(ctx, sess.Token, a.ID, ns)
	if err != nil {
		return Result{}, errors.Wrap(err, "submitting assignment")
	}
	sub.Late = sub.Late || late
	switch {
	case sub.IsGraded:
		sub.Status = StatusGraded
	case sub.Late:
		sub.Status = StatusLate
	default:
		sub.Status = StatusSubmitted
	}

	if err = svc.drafts.DeleteDraft(ctx, a.ID, sess.Identifier()); err != nil && errors.Cause(err) != ErrDraftNotFound {
		svc.logger.Error(fmt.Sprintf("deleting draft of assignment %d: %v", a.ID, err), err, sess.LogUser())
	}
	svc.record(ctx, sess, HistoryEntry{
		AssignmentID: a.ID,
		Type:         HistorySubmitted,
		Timestamp:    nowFunc().UTC(),
		Content:      ns.Content,
		Attachments:  ns.Attachments,
	})

	return Result{
		Submission: &sub,
		Assignment: assignment.Advance(a, assignment.StatusSubmitted),
		Status:     sub.Status,
	}, nil
}

// digest identifies the submitted work; only requests with the same digest share a backend call.
func (req Request) digest() string {
	h := sha256.New()
	write := func(s string) {
		_, _ = io.WriteString(h, strconv.Itoa(len(s))+":"+s)
	}
	write(req.Content)
	write(req.LateNote)
	for _, a := range req.Attachments {
		write(a.Name)
		write(a.URL)
	}
	for _, f := range req.Files {
		write(f.Name)
		write(f.ContentType)
		_, _ = io.WriteString(h, strconv.Itoa(len(f.Data))+":")
		_, _ = h.Write(f.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// upload stores the request's new files after the attachments it already carries, keeping their order.
func (svc *Service) upload(ctx context.Context, sess session.Session, assignmentID int, req Request) ([]assignment.Attachment, error) {
	out := make([]assignment.Attachment, 0, len(req.Attachments)+len(req.Files))
	out = append(out, req.Attachments...)
	for _, f := range req.Files {
		key := path.Join("submissions", strconv.Itoa(assignmentID), sess.Identifier(), uuid.New().String()+"-"+path.Base(f.Name))
		url, err := svc.files.Upload(ctx, key, bytes.NewReader(f.Data), int64(len(f.Data)), f.ContentType)
		if err != nil {
			return nil, errors.Wrapf(err, "uploading %s", f.Name)
		}
		out = append(out, assignment.Attachment{Name: f.Name, URL: url})
	}
	return out, nil
}

func (svc *Service) record(ctx context.Context, sess session.Session, e HistoryEntry) {
	e.ID = uuid.New().String()
	e.Student = sess.Identifier()
	if e.Attachments == nil {
		e.Attachments = []assignment.Attachment{}
	}
	if err := svc.history.AddHistory(ctx, e); err != nil {
		svc.logger.Error(fmt.Sprintf("recording submission history of assignment %d: %v", e.AssignmentID, err), err, sess.LogUser())
	}
}

// Draft returns the saved draft of the session's student, or ErrDraftNotFound.
func (svc *Service) Draft(ctx context.Context, sess session.Session, assignmentID int) (Draft, error) {
	d, err := svc.drafts.GetDraft(ctx, assignmentID, sess.Identifier())
	if err != nil {
		if errors.Cause(err) == ErrDraftNotFound {
			return Draft{}, ErrDraftNotFound
		}
		return Draft{}, errors.Wrap(err, "getting draft")
	}
	return d, nil
}

func (svc *Service) History(ctx context.Context, sess session.Session, assignmentID int) ([]HistoryEntry, error) {
	entries, err := svc.history.ListHistory(ctx, assignmentID, sess.Identifier())
	if err != nil {
		return nil, errors.Wrap(err, "listing submission history")
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

// List returns the submissions of an assignment, for lecturers.
func (svc *Service) List(ctx context.Context, sess session.Session, assignmentID int) ([]Submission, error) {
	if !sess.CanTeach() {
		return nil, ErrNotLecturer
	}
	list, err := svc.backend.ListSubmissions(ctx, sess.Token, assignmentID)
	if err != nil {
		if rErr, ok := core.AsRemoteError(err); ok && rErr.Status == http.StatusNotFound {
			return nil, assignment.ErrNotFound
		}
		return nil, errors.Wrap(err, "listing submissions")
	}
	for i := range list {
		list[i] = normalize(list[i])
	}
	return list, nil
}

func (svc *Service) Get(ctx context.Context, sess session.Session, assignmentID, submissionID int) (Submission, error) {
	if !sess.CanTeach() {
		return Submission{}, ErrNotLecturer
	}
	sub, err := svc.backend.GetSubmission(ctx, sess.Token, assignmentID, submissionID)
	if err != nil {
		if rErr, ok := core.AsRemoteError(err); ok && rErr.Status == http.StatusNotFound {
			return Submission{}, ErrNotFound
		}
		return Submission{}, errors.Wrap(err, "getting submission")
	}
	return normalize(sub), nil
}

func normalize(s Submission) Submission {
	if s.Attachments == nil {
		s.Attachments = []assignment.Attachment{}
	}
	if s.CriteriaGrades == nil {
		s.CriteriaGrades = map[string]string{}
	}
	if s.Status == "" {
		switch {
		case s.IsGraded:
			s.Status = StatusGraded
		case s.Late:
			s.Status = StatusLate
		default:
			s.Status = StatusSubmitted
		}
	}
	return s
}
