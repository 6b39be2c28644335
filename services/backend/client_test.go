package backend_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
	"github.com/Eddy-Prime/SE-Complete-Project/services/backend"
	testutil "github.com/Eddy-Prime/SE-Complete-Project/tests"
	"github.com/Eddy-Prime/SE-Complete-Project/tests/courseapi"
)

func newClient(t *testing.T) (*backend.Client, *testutil.Logger) {
	srv := httptest.NewServer(courseapi.New())
	t.Cleanup(srv.Close)

	conf := core.NewTestConfig()
	conf.Backend.BaseURL = srv.URL + "/"
	logger := testutil.NewLogger()
	return backend.NewClient(conf, nil, logger), logger
}

func login(t *testing.T, c *backend.Client, username, password string) string {
	p, err := c.Login(context.Background(), session.Credentials{Username: username, Password: password})
	require.NoError(t, err)
	return p.Token
}

func TestClient_Login(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	p, err := c.Login(ctx, session.Credentials{Username: "student.alex", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.Token)
	assert.Equal(t, "Alex Student", p.FullName)
	assert.Equal(t, session.RoleStudent, p.Role)
	assert.Equal(t, "r0785099", p.StudentNumber)

	_, err = c.Login(ctx, session.Credentials{Username: "student.alex", Password: "wrong"})
	rErr, ok := core.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rErr.Status)
	assert.Equal(t, "Invalid username or password", rErr.Message)
}

func TestClient_schedules(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()
	token := login(t, c, "student.alex", "password123")

	list, err := c.ListSchedules(ctx, token)
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.True(t, list[0].IsEnrolled)
	assert.True(t, list[4].HasConflict)
	assert.Empty(t, list[0].Students, "rosters are for lecturers")

	s, err := c.Enroll(ctx, token, 3, schedule.Student{})
	require.NoError(t, err)
	assert.Equal(t, 30, s.EnrolledStudents)
	assert.True(t, s.IsEnrolled)

	_, err = c.Enroll(ctx, token, 4, schedule.Student{})
	rErr, ok := core.AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, rErr.Status)
	assert.Equal(t, "Schedule Mobile App Development is full", rErr.Message)

	_, err = c.CreateSchedule(ctx, token, schedule.NewSchedule{Name: "x", MaxCapacity: 1})
	rErr, _ = core.AsRemoteError(err)
	assert.Equal(t, http.StatusForbidden, rErr.Status)

	_, err = c.ListSchedules(ctx, "bogus")
	rErr, _ = core.AsRemoteError(err)
	assert.Equal(t, http.StatusUnauthorized, rErr.Status)
}

func TestClient_assignmentsAndSubmissions(t *testing.T) {
	c, logger := newClient(t)
	ctx := context.Background()
	lecturer := login(t, c, "professor.thompson", "password123")
	student := login(t, c, "student.alex", "password123")

	list, err := c.ListScheduleAssignments(ctx, student, 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	a, err := c.GetAssignment(ctx, student, 1)
	require.NoError(t, err)
	assert.Equal(t, "Final Project", a.Title)
	assert.True(t, a.GradingCriteria.IsStructured())

	_, err = c.GetAssignment(ctx, student, 42)
	rErr, _ := core.AsRemoteError(err)
	assert.Equal(t, http.StatusNotFound, rErr.Status)
	assert.Equal(t, "Assignment not found", rErr.Message)

	a.Description = "Updated description"
	saved, err := c.UpdateAssignment(ctx, lecturer, a)
	require.NoError(t, err)
	assert.Equal(t, "Updated description", saved.Description)

	sub, err := c.CreateSubmission(ctx, student, 3, submission.NewSubmission{
		StudentName: "Alex Student",
		Content:     "my schema",
		Attachments: []assignment.Attachment{{Name: "schema.sql", URL: "https://files.test/schema.sql"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, sub.AssignmentID)
	assert.Equal(t, submission.StatusSubmitted, sub.Status)

	subs, err := c.ListSubmissions(ctx, lecturer, 3)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	got, err := c.GetSubmission(ctx, lecturer, 3, subs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "schema.sql", got.Attachments[0].Name)

	// fixtures come back
	assert.True(t, c.ResetDatabase(ctx))
	subs, err = c.ListSubmissions(ctx, lecturer, 3)
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.Zero(t, logger.Len())
}

func TestClient_unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	conf := core.NewTestConfig()
	conf.Backend.BaseURL = srv.URL
	logger := testutil.NewLogger()
	c := backend.NewClient(conf, nil, logger)

	_, err := c.ListSchedules(context.Background(), "tok")
	rErr, ok := core.AsRemoteError(err)
	require.True(t, ok)
	assert.True(t, rErr.Unreachable())

	assert.False(t, c.ResetDatabase(context.Background()), "reset failures are not fatal")
	assert.Equal(t, 1, logger.Len())
}
