package assignment

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

var (
	MsgCreated = "Assignment created successfully"
	MsgUpdated = "Assignment updated successfully"

	nowFunc = time.Now // mockable
)

type (
	// Backend is the part of the courses API that manages assignments.
	Backend interface {
		ListAssignments(ctx context.Context, token string) ([]Assignment, error)
		ListScheduleAssignments(ctx context.Context, token string, scheduleID int) ([]Assignment, error)
		GetAssignment(ctx context.Context, token string, id int) (Assignment, error)
		CreateAssignment(ctx context.Context, token string, na NewAssignment) (Assignment, error)
		UpdateAssignment(ctx context.Context, token string, a Assignment) (Assignment, error)
	}

	// Rosters lists schedules with their enrolled students.
	Rosters interface {
		ListSchedules(ctx context.Context, token string) ([]schedule.Schedule, error)
	}

	Service struct {
		backend Backend
		rosters Rosters
		changes ChangeLogRepository
		mailSvc core.EmailService
		logger  core.Logger
	}

	updateNotice struct {
		StudentName  string
		AssignmentID int
		Title        string
		Schedule     string
		DueDate      string
		Changes      []string
	}
)

func NewService(backend Backend, rosters Rosters, changes ChangeLogRepository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		backend: backend,
		rosters: rosters,
		changes: changes,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func today() core.Date { return core.DateOf(nowFunc()) }

// Dashboard lists the session's assignments through DeriveView.
func (svc *Service) Dashboard(ctx context.Context, sess session.Session, opts ViewOptions) (View, error) {
	if opts.Today.IsZero() {
		opts.Today = today()
	}
	opts.Clean()
	if err := opts.Validate(); err != nil {
		return View{}, err
	}
	list, err := svc.backend.ListAssignments(ctx, sess.Token)
	if err != nil {
		return View{}, errors.Wrap(err, "listing assignments")
	}
	return DeriveView(list, opts)
}

func (svc *Service) ForSchedule(ctx context.Context, sess session.Session, scheduleID int) ([]Assignment, error) {
	list, err := svc.backend.ListScheduleAssignments(ctx, sess.Token, scheduleID)
	if err != nil {
		return nil, errors.Wrap(err, "listing schedule assignments")
	}
	t := today()
	for i := range list {
		list[i] = list[i].Decorate(t)
	}
	return list, nil
}

func (svc *Service) Get(ctx context.Context, sess session.Session, id int) (Assignment, error) {
	a, err := svc.backend.GetAssignment(ctx, sess.Token, id)
	if err != nil {
		if rErr, ok := core.AsRemoteError(err); ok && rErr.Status == http.StatusNotFound {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return a.Decorate(today()), nil
}

func (svc *Service) Create(ctx context.Context, sess session.Session, na NewAssignment) (Assignment, core.StatusMessage, error) {
	if !sess.CanTeach() {
		return Assignment{}, core.Failure(ErrForbidden.Error()), ErrForbidden
	}
	if err := na.Validate(today()); err != nil {
		return Assignment{}, core.Failure(err.Error()), err
	}
	a, err := svc.backend.CreateAssignment(ctx, sess.Token, na)
	if err != nil {
		return Assignment{}, core.Failure(err.Error()), errors.Wrap(err, "creating assignment")
	}
	return a.Decorate(today()), core.Success(MsgCreated), nil
}

// Update validates proposed against the current assignment, saves it, records the changes
// and tells the students of the schedule what changed.
func (svc *Service) Update(ctx context.Context, sess session.Session, id int, proposed Assignment) (Assignment, core.StatusMessage, error) {
	if !sess.CanTeach() {
		return Assignment{}, core.Failure(ErrForbidden.Error()), ErrForbidden
	}
	current, err := svc.Get(ctx, sess, id)
	if err != nil {
		return Assignment{}, core.Failure(err.Error()), err
	}
	if err = ValidateEdit(current, proposed); err != nil {
		return current, core.Failure(err.Error()), err
	}

	merged := Merge(current, proposed)
	cs := Changes(current, merged)
	if cs.IsEmpty() {
		return current, core.Success(MsgUpdated), nil
	}

	saved, err := svc.backend.UpdateAssignment(ctx, sess.Token, merged)
	if err != nil {
		return current, core.Failure(err.Error()), errors.Wrap(err, "updating assignment")
	}

	entry := ChangeLogEntry{
		ID:           uuid.New().String(),
		AssignmentID: saved.ID,
		Changes:      cs.Changes,
		Detail:       cs.DescriptionDiff,
		Author:       sess.Username,
		CreatedAt:    nowFunc().UTC(),
	}
	if err = svc.changes.AddChangeLog(ctx, entry); err != nil {
		svc.logger.Error(fmt.Sprintf("recording change log of assignment %d: %v", saved.ID, err), err, sess.LogUser())
	}
	if saved.IsPublished {
		svc.notifyStudents(ctx, sess, saved, cs)
	}
	return saved.Decorate(today()), core.Success(MsgUpdated), nil
}

func (svc *Service) ChangeLog(ctx context.Context, sess session.Session, id int) ([]ChangeLogEntry, error) {
	if _, err := svc.Get(ctx, sess, id); err != nil {
		return nil, err
	}
	entries, err := svc.changes.ListChangeLog(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "listing change log")
	}
	if entries == nil {
		entries = []ChangeLogEntry{}
	}
	return entries, nil
}

func (svc *Service) notifyStudents(ctx context.Context, sess session.Session, a Assignment, cs ChangeSet) {
	schedules, err := svc.rosters.ListSchedules(ctx, sess.Token)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("loading roster of assignment %d: %v", a.ID, err), err, sess.LogUser())
		return
	}

	var messages []*core.EmailMessage
	for _, s := range schedules {
		if !(s.ID == a.ScheduleID || (a.ScheduleID == 0 && s.Name == a.Schedule)) {
			continue
		}
		for _, st := range s.Students {
			if st.User.Email == "" {
				continue
			}
			name := st.User.FirstName + " " + st.User.LastName
			messages = append(messages, &core.EmailMessage{
				To:           []mail.Address{{Name: name, Address: st.User.Email}},
				Subject:      fmt.Sprintf("%s has been updated", a.Title),
				TemplateName: "assignment_updated",
				TemplateData: updateNotice{
					StudentName:  name,
					AssignmentID: a.ID,
					Title:        a.Title,
					Schedule:     a.Schedule,
					DueDate:      a.DueDate.String(),
					Changes:      cs.Changes,
				},
			})
		}
	}
	if len(messages) > 0 {
		svc.mailSvc.SendMessages(messages...)
	}
}
