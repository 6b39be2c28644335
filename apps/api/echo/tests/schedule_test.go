package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/Eddy-Prime/SE-Complete-Project/apps/api/echo"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/tests/courseapi"
)

func findView(views []echoapi.ScheduleView, name string) (echoapi.ScheduleView, bool) {
	for _, v := range views {
		if v.Name == name {
			return v, true
		}
	}
	return echoapi.ScheduleView{}, false
}

func Test_scheduleApi_board(t *testing.T) {
	app := setup(t)
	token := login(t, app, courseapi.UsernameStudent, courseapi.PasswordDefault)

	req, rec := newAuthRequest(http.MethodGet, "/api/schedules", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var board echoapi.BoardResponse
	unmarshal(t, rec, &board)
	assert.Len(t, board.Enrolled, 2)
	assert.Len(t, board.Available, 3)

	web, ok := findView(board.Available, "Web Development")
	require.True(t, ok)
	assert.Equal(t, "Enroll", web.Control.Label)
	assert.Equal(t, "29/30", web.Control.Capacity)
	assert.False(t, web.Control.Disabled)

	mobile, _ := findView(board.Available, "Mobile App Development")
	assert.Equal(t, "Full", mobile.Control.Label)
	assert.True(t, mobile.Control.Disabled)

	ai, _ := findView(board.Available, "Artificial Intelligence")
	assert.True(t, ai.HasConflict)
	assert.True(t, ai.Control.Disabled)
}

func Test_scheduleApi_enroll(t *testing.T) {
	app := setup(t)
	student := login(t, app, courseapi.UsernameStudent, courseapi.PasswordDefault)
	lecturer := login(t, app, courseapi.UsernameLecturer, courseapi.PasswordDefault)

	t.Run("last seat", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/schedules/3/enroll", student)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res echoapi.EnrollResponse
		unmarshal(t, rec, &res)
		assert.Equal(t, "Successfully enrolled in Web Development", res.Status.Message)
		assert.Equal(t, "success", string(res.Status.Type))

		web, ok := findView(res.Enrolled, "Web Development")
		require.True(t, ok, "the schedule moves to the enrolled list")
		assert.Equal(t, "30/30", web.Control.Capacity)
		assert.Equal(t, "Full", web.Control.Label)
		_, stillAvailable := findView(res.Available, "Web Development")
		assert.False(t, stillAvailable)
	})

	tests := []httpTest{
		{
			name:     "full schedule",
			method:   http.MethodPost,
			path:     "/api/schedules/4/enroll",
			token:    student,
			wantCode: http.StatusConflict,
			wantData: marshalObj(t, newHttpErr("Cannot enroll in Mobile App Development. Schedule has reached maximum capacity.")),
		},
		{
			name:     "conflicting schedule",
			method:   http.MethodPost,
			path:     "/api/schedules/5/enroll",
			token:    student,
			wantCode: http.StatusConflict,
			wantData: marshalObj(t, newHttpErr("Cannot enroll in Artificial Intelligence. This schedule conflicts with another enrolled schedule.")),
		},
		{
			name:     "already enrolled",
			method:   http.MethodPost,
			path:     "/api/schedules/3/enroll",
			token:    student,
			wantCode: http.StatusConflict,
			wantData: marshalObj(t, newHttpErr("You are already enrolled in Web Development.")),
		},
		{
			name:     "unknown schedule",
			method:   http.MethodPost,
			path:     "/api/schedules/99/enroll",
			token:    student,
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, newHttpErr("Schedule not found")),
		},
		{
			name:     "lecturers do not enroll",
			method:   http.MethodPost,
			path:     "/api/schedules/3/enroll",
			token:    lecturer,
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, newHttpErr("permission denied")),
		},
	}
	runHttpTests(t, app, tests)
}

func Test_scheduleApi_create(t *testing.T) {
	app := setup(t)
	student := login(t, app, courseapi.UsernameStudent, courseapi.PasswordDefault)
	lecturer := login(t, app, courseapi.UsernameLecturer, courseapi.PasswordDefault)

	valid := []byte(`{"name":"Cloud Computing","professor":"Prof. Thompson","dayOfWeek":"Friday","timeSlot":"09:00 - 12:00","maxCapacity":20}`)

	tests := []httpTest{
		{
			name:     "students cannot create",
			method:   http.MethodPost,
			path:     "/api/schedules",
			body:     valid,
			token:    student,
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, newHttpErr("permission denied")),
		},
		{
			name:     "bad time slot",
			method:   http.MethodPost,
			path:     "/api/schedules",
			body:     []byte(`{"name":"Cloud Computing","professor":"Prof. Thompson","dayOfWeek":"Friday","timeSlot":"morning","maxCapacity":20}`),
			token:    lecturer,
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, newHttpErr("timeSlot must look like 09:00 - 12:00", map[string]string{
				"timeSlot": "timeSlot must look like 09:00 - 12:00",
			})),
		},
	}
	runHttpTests(t, app, tests)

	req, rec := newAuthRequest(http.MethodPost, "/api/schedules", lecturer, valid)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res echoapi.ScheduleResponse
	unmarshal(t, rec, &res)
	assert.Equal(t, 6, res.Schedule.ID)
	assert.Equal(t, "0/20", res.Schedule.Control.Capacity)
	assert.Equal(t, "Schedule created successfully", res.Status.Message)
}

func Test_scheduleApi_assignments(t *testing.T) {
	app := setup(t)
	token := login(t, app, courseapi.UsernameStudent, courseapi.PasswordDefault)

	req, rec := newAuthRequest(http.MethodGet, "/api/schedules/2/assignments", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list []assignment.Assignment
	unmarshal(t, rec, &list)
	require.Len(t, list, 2)
	for _, a := range list {
		assert.Equal(t, "Database Design", a.Schedule)
		assert.NotEmpty(t, a.StatusLabel)
	}
}
