package grading

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

var (
	MsgGraded       = "Grade saved successfully"
	MsgRevisionSent = "Feedback sent successfully"

	nowFunc = time.Now // mockable
)

type (
	Assignments interface {
		Get(ctx context.Context, sess session.Session, id int) (assignment.Assignment, error)
	}

	Submissions interface {
		List(ctx context.Context, sess session.Session, assignmentID int) ([]submission.Submission, error)
		Get(ctx context.Context, sess session.Session, assignmentID, submissionID int) (submission.Submission, error)
	}

	// Rosters lists schedules with their enrolled students, to find who to notify.
	Rosters interface {
		ListSchedules(ctx context.Context, token string) ([]schedule.Schedule, error)
	}

	Service struct {
		assignments Assignments
		submissions Submissions
		rosters     Rosters
		records     RecordRepository
		mailSvc     core.EmailService
		policy      Policy
		logger      core.Logger
	}

	// Review is a submission as the grading page shows it.
	Review struct {
		Assignment assignment.Assignment `json:"assignment"`
		Submission submission.Submission `json:"submission"`
		Records    []Record              `json:"records"`
	}

	gradeNotice struct {
		StudentName    string
		AssignmentID   int
		Title          string
		Grade          string
		CriteriaGrades map[string]string
		Feedback       string
	}
)

func NewService(assignments Assignments, submissions Submissions, rosters Rosters, records RecordRepository, mailSvc core.EmailService, policy Policy, logger core.Logger) *Service {
	return &Service{
		assignments: assignments,
		submissions: submissions,
		rosters:     rosters,
		records:     records,
		mailSvc:     mailSvc,
		policy:      policy,
		logger:      logger,
	}
}

// Submissions lists the submissions of an assignment with their latest grade applied.
func (svc *Service) Submissions(ctx context.Context, sess session.Session, assignmentID int) ([]submission.Submission, error) {
	list, err := svc.submissions.List(ctx, sess, assignmentID)
	if err != nil {
		return nil, err
	}
	records, err := svc.records.ListRecords(ctx, assignmentID)
	if err != nil {
		return nil, errors.Wrap(err, "listing grade records")
	}
	for i := range list {
		list[i] = overlay(list[i], records)
	}
	return list, nil
}

func (svc *Service) Review(ctx context.Context, sess session.Session, assignmentID, submissionID int) (Review, error) {
	a, err := svc.assignments.Get(ctx, sess, assignmentID)
	if err != nil {
		return Review{}, err
	}
	sub, err := svc.submissions.Get(ctx, sess, assignmentID, submissionID)
	if err != nil {
		return Review{}, err
	}
	all, err := svc.records.ListRecords(ctx, assignmentID)
	if err != nil {
		return Review{}, errors.Wrap(err, "listing grade records")
	}
	records := make([]Record, 0)
	for _, r := range all {
		if r.SubmissionID == submissionID {
			records = append(records, r)
		}
	}
	return Review{Assignment: a, Submission: overlay(sub, records), Records: records}, nil
}

// Apply grades a submission or asks for a revision.
// Nothing is recorded and nobody is notified when the action is invalid.
func (svc *Service) Apply(ctx context.Context, sess session.Session, assignmentID, submissionID int, act Action) (submission.Submission, core.StatusMessage, error) {
	rv, err := svc.Review(ctx, sess, assignmentID, submissionID)
	if err != nil {
		return submission.Submission{}, core.Failure(err.Error()), err
	}

	rec := Record{
		AssignmentID: assignmentID,
		SubmissionID: submissionID,
		Grader:       sess.Username,
	}
	var msg string
	switch act := act.(type) {
	case Grade:
		g, err := svc.policy.Validate(act, rv.Assignment.GradingCriteria)
		if err != nil {
			return rv.Submission, core.Failure(err.Error()), err
		}
		rec.Kind = KindGrade
		rec.Grade = g.Overall
		rec.CriteriaGrades = g.CriteriaGrades
		rec.Feedback = g.Feedback
		msg = MsgGraded
	case RequestRevision:
		act.Feedback = strings.TrimSpace(act.Feedback)
		if act.Feedback == "" {
			err := &MissingFeedbackError{Revision: true}
			return rv.Submission, core.Failure(err.Error()), err
		}
		rec.Kind = KindRevision
		rec.Feedback = act.Feedback
		msg = MsgRevisionSent
	default:
		return rv.Submission, core.Failure(errUnknownAction.Error()), errUnknownAction
	}

	rec.ID = uuid.New().String()
	rec.CreatedAt = nowFunc().UTC()
	if err = svc.records.AddRecord(ctx, rec); err != nil {
		err = errors.Wrap(err, "saving grade record")
		return rv.Submission, core.Failure(err.Error()), err
	}

	sub := overlay(rv.Submission, []Record{rec})
	svc.notifyStudent(ctx, sess, rv.Assignment, sub, rec)
	return sub, core.Success(msg), nil
}

// Preview recomputes the overall grade of a criteria table for an assignment.
func (svc *Service) Preview(ctx context.Context, sess session.Session, assignmentID int, criteriaGrades map[string]string) (Sheet, error) {
	a, err := svc.assignments.Get(ctx, sess, assignmentID)
	if err != nil {
		return Sheet{}, err
	}
	names := make([]string, 0, len(criteriaGrades))
	for name := range criteriaGrades {
		names = append(names, name)
	}
	sort.Strings(names)

	s := Sheet{CriteriaGrades: map[string]string{}}
	for _, name := range names {
		s = SetCriterionScore(s, a.GradingCriteria.Items, name, criteriaGrades[name])
	}
	return s, nil
}

// overlay applies the newest record of the submission, records being sorted newest first.
func overlay(sub submission.Submission, records []Record) submission.Submission {
	for _, r := range records {
		if r.SubmissionID != sub.ID {
			continue
		}
		sub.Feedback = r.Feedback
		if r.Kind == KindGrade {
			sub.IsGraded = true
			sub.Grade = r.Grade
			sub.CriteriaGrades = r.CriteriaGrades
			sub.Status = submission.StatusGraded
		}
		return sub
	}
	return sub
}

func (svc *Service) notifyStudent(ctx context.Context, sess session.Session, a assignment.Assignment, sub submission.Submission, rec Record) {
	schedules, err := svc.rosters.ListSchedules(ctx, sess.Token)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("loading roster of assignment %d: %v", a.ID, err), err, sess.LogUser())
		return
	}

	var to *mail.Address
	for _, s := range schedules {
		if !(s.ID == a.ScheduleID || (a.ScheduleID == 0 && s.Name == a.Schedule)) {
			continue
		}
		for _, st := range s.Students {
			name := st.User.FirstName + " " + st.User.LastName
			if st.User.Email != "" && ((sub.StudentNumber != "" && st.StudentNumber == sub.StudentNumber) || name == sub.StudentName) {
				to = &mail.Address{Name: name, Address: st.User.Email}
				break
			}
		}
	}
	if to == nil {
		svc.logger.Warn(fmt.Sprintf("no email address for %s on assignment %d", sub.StudentName, a.ID))
		return
	}

	msg := &core.EmailMessage{
		To: []mail.Address{*to},
		TemplateData: gradeNotice{
			StudentName:    sub.StudentName,
			AssignmentID:   a.ID,
			Title:          a.Title,
			Grade:          rec.Grade,
			CriteriaGrades: rec.CriteriaGrades,
			Feedback:       rec.Feedback,
		},
	}
	if rec.Kind == KindGrade {
		msg.Subject = fmt.Sprintf("%s has been graded", a.Title)
		msg.TemplateName = "grade_released"
	} else {
		msg.Subject = fmt.Sprintf("Revision requested for %s", a.Title)
		msg.TemplateName = "revision_requested"
	}
	svc.mailSvc.SendMessages(msg)
}
