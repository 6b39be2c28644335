package schedule

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

type (
	// Backend is the part of the courses API the enrollment workflow talks to.
	Backend interface {
		ListSchedules(ctx context.Context, token string) ([]Schedule, error)
		CreateSchedule(ctx context.Context, token string, ns NewSchedule) (Schedule, error)
		Enroll(ctx context.Context, token string, scheduleID int, student Student) (Schedule, error)
	}

	Service struct {
		backend  Backend
		logger   core.Logger
		inflight singleflight.Group
	}

	enrollResult struct {
		board Board
		msg   core.StatusMessage
	}
)

func NewService(backend Backend, logger core.Logger) *Service {
	return &Service{backend: backend, logger: logger}
}

// Board fetches the schedules visible to the session.
func (svc *Service) Board(ctx context.Context, sess session.Session) (Board, error) {
	schedules, err := svc.backend.ListSchedules(ctx, sess.Token)
	if err != nil {
		return Board{}, errors.Wrap(err, "listing schedules")
	}
	return NewBoard(schedules), nil
}

func (svc *Service) Create(ctx context.Context, sess session.Session, ns NewSchedule) (Schedule, error) {
	s, err := svc.backend.CreateSchedule(ctx, sess.Token, ns)
	if err != nil {
		return Schedule{}, errors.Wrap(err, "creating schedule")
	}
	return s, nil
}

// AttemptEnroll enrolls the session's student in the schedule.
// Capacity and conflicts are checked against board before any call to the courses API;
// on any failure the returned board is the one passed in.
// Concurrent attempts by the same session on the same schedule share a single API call.
func (svc *Service) AttemptEnroll(ctx context.Context, sess session.Session, board Board, scheduleID int) (Board, core.StatusMessage, error) {
	s, ok := board.Find(scheduleID)
	if !ok {
		return board, core.Failure(ErrNotFound.Error()), ErrNotFound
	}

	var err error
	switch {
	case s.IsEnrolled:
		err = &AlreadyEnrolledError{Schedule: s.Name}
	case s.IsFull():
		err = &CapacityError{Schedule: s.Name}
	case s.HasConflict:
		err = &ConflictError{Schedule: s.Name}
	}
	if err != nil {
		return board, core.Failure(err.Error()), err
	}

	student := StudentFromSession(sess)
	key := sess.ID + ":" + strconv.Itoa(scheduleID)
	v, err, _ := svc.inflight.Do(key, func() (interface{}, error) {
		if _, err := svc.backend.Enroll(ctx, sess.Token, scheduleID, student); err != nil {
			return nil, svc.enrollFailure(s, err)
		}
		newBoard := Reduce(board, Enrolled{ScheduleID: scheduleID, Student: student})
		return enrollResult{board: newBoard, msg: core.Success(fmt.Sprintf("Successfully enrolled in %s", s.Name))}, nil
	})
	if err != nil {
		return board, core.Failure(err.Error()), err
	}
	res := v.(enrollResult)
	return res.board, res.msg, nil
}

// enrollFailure turns a courses API failure into the message shown to the user.
func (svc *Service) enrollFailure(s Schedule, err error) error {
	rErr, ok := core.AsRemoteError(err)
	if !ok || rErr.Unreachable() {
		svc.logger.Error(fmt.Sprintf("enrolling in schedule %d", s.ID), err)
		return &core.RemoteError{Message: fmt.Sprintf("An error occurred while enrolling in %s", s.Name), Err: err}
	}
	msg := rErr.Message
	if msg == "" {
		msg = fmt.Sprintf("Failed to enroll in %s", s.Name)
	}
	return &core.RemoteError{Status: rErr.Status, Message: msg, Err: err}
}
