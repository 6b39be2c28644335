package schedule

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	testutil "github.com/Eddy-Prime/SE-Complete-Project/tests"
)

type backendMock struct {
	calls    int32
	enrollFn func(scheduleID int, student Student) (Schedule, error)
}

func (b *backendMock) ListSchedules(ctx context.Context, token string) ([]Schedule, error) {
	return fixtures(), nil
}

func (b *backendMock) CreateSchedule(ctx context.Context, token string, ns NewSchedule) (Schedule, error) {
	return Schedule{ID: 6, Name: ns.Name}, nil
}

func (b *backendMock) Enroll(ctx context.Context, token string, scheduleID int, student Student) (Schedule, error) {
	atomic.AddInt32(&b.calls, 1)
	if b.enrollFn != nil {
		return b.enrollFn(scheduleID, student)
	}
	return Schedule{ID: scheduleID}, nil
}

var alex = session.Session{ID: "s1", Token: "tok", FullName: "Alex Student", Username: "student.alex", Role: session.RoleStudent, StudentNumber: "r0785099"}

func TestService_AttemptEnroll(t *testing.T) {
	tests := []struct {
		name       string
		scheduleID int
		enrollFn   func(int, Student) (Schedule, error)
		wantMsg    core.StatusMessage
		wantErr    interface{}
		wantCalls  int32
		wantCount  int
	}{
		{
			name: "success", scheduleID: 3, wantCalls: 1, wantCount: 29,
			wantMsg: core.Success("Successfully enrolled in Web Development"),
		},
		{
			name: "full", scheduleID: 4, wantCount: 30, wantErr: &CapacityError{},
			wantMsg: core.Failure("Cannot enroll in Mobile App Development. Schedule has reached maximum capacity."),
		},
		{
			name: "conflict", scheduleID: 5, wantCount: 22, wantErr: &ConflictError{},
			wantMsg: core.Failure("Cannot enroll in Artificial Intelligence. This schedule conflicts with another enrolled schedule."),
		},
		{
			name: "server message", scheduleID: 3, wantCalls: 1, wantCount: 28, wantErr: &core.RemoteError{},
			enrollFn: func(int, Student) (Schedule, error) {
				return Schedule{}, &core.RemoteError{Status: http.StatusBadRequest, Message: "Enrollment is closed"}
			},
			wantMsg: core.Failure("Enrollment is closed"),
		},
		{
			name: "server error without message", scheduleID: 3, wantCalls: 1, wantCount: 28, wantErr: &core.RemoteError{},
			enrollFn: func(int, Student) (Schedule, error) {
				return Schedule{}, &core.RemoteError{Status: http.StatusInternalServerError}
			},
			wantMsg: core.Failure("Failed to enroll in Web Development"),
		},
		{
			name: "network error", scheduleID: 3, wantCalls: 1, wantCount: 28, wantErr: &core.RemoteError{},
			enrollFn: func(int, Student) (Schedule, error) {
				return Schedule{}, &core.RemoteError{Err: errors.New("connection refused")}
			},
			wantMsg: core.Failure("An error occurred while enrolling in Web Development"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &backendMock{enrollFn: tt.enrollFn}
			svc := NewService(backend, testutil.NewLogger())
			board, err := svc.Board(context.Background(), alex)
			require.NoError(t, err)

			next, msg, err := svc.AttemptEnroll(context.Background(), alex, board, tt.scheduleID)

			assert.Equal(t, tt.wantMsg, msg)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&backend.calls))
			if tt.wantErr != nil {
				assert.IsType(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
			s, _ := next.Find(tt.scheduleID)
			assert.Equal(t, tt.wantCount, s.EnrolledStudents)
		})
	}
}

func TestService_AttemptEnroll_notFound(t *testing.T) {
	svc := NewService(&backendMock{}, testutil.NewLogger())
	board := NewBoard(fixtures())

	_, msg, err := svc.AttemptEnroll(context.Background(), alex, board, 42)
	assert.Equal(t, ErrNotFound, err)
	assert.Equal(t, core.Failure("Schedule not found"), msg)
}

func TestService_AttemptEnroll_lastSeat(t *testing.T) {
	svc := NewService(&backendMock{}, testutil.NewLogger())
	schedules := fixtures()
	schedules[2].EnrolledStudents = 29
	board := NewBoard(schedules)

	next, msg, err := svc.AttemptEnroll(context.Background(), alex, board, 3)
	require.NoError(t, err)
	assert.False(t, msg.IsError())

	s, _ := next.Find(3)
	assert.Equal(t, "30/30", s.CapacityLabel())
	assert.Equal(t, "Full", s.Control().Label)
	assert.True(t, s.IsEnrolled)

	// a second attempt on the new state is rejected locally
	_, _, err = svc.AttemptEnroll(context.Background(), alex, next, 3)
	assert.IsType(t, &AlreadyEnrolledError{}, err)
}

func TestService_AttemptEnroll_concurrentDuplicates(t *testing.T) {
	release := make(chan struct{})
	backend := &backendMock{enrollFn: func(id int, _ Student) (Schedule, error) {
		<-release
		return Schedule{ID: id}, nil
	}}
	svc := NewService(backend, testutil.NewLogger())
	board := NewBoard(fixtures())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.AttemptEnroll(context.Background(), alex, board, 3)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&backend.calls))
}

func TestStudentFromSession(t *testing.T) {
	st := StudentFromSession(session.Session{FullName: "Johan Pieck", Username: "johanp"})
	assert.Equal(t, Student{User: User{FirstName: "Johan", LastName: "Pieck", Username: "johanp"}, StudentNumber: "johanp"}, st)
}
