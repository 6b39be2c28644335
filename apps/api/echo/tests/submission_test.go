package tests

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/Eddy-Prime/SE-Complete-Project/apps/api/echo"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
	"github.com/Eddy-Prime/SE-Complete-Project/tests/courseapi"
)

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes(), w.FormDataContentType()
}

func Test_submissionApi(t *testing.T) {
	app := setup(t)
	token := login(t, app, courseapi.UsernameStudent, courseapi.PasswordDefault)

	runHttpTests(t, app, []httpTest{
		{
			name:     "no draft yet",
			method:   http.MethodGet,
			path:     "/api/assignments/1/draft",
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, newHttpErr("no draft saved")),
		},
		{
			name:     "final submission needs content",
			method:   http.MethodPost,
			path:     "/api/assignments/1/submissions",
			body:     []byte(`{"content":"   "}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, newHttpErr(
				"Please provide some content for your submission",
				map[string]string{"content": "Please provide some content for your submission"},
			)),
		},
		{
			name:     "unknown assignment",
			method:   http.MethodPost,
			path:     "/api/assignments/42/submissions",
			body:     []byte(`{"content":"done"}`),
			token:    token,
			wantCode: http.StatusNotFound,
			wantData: marshalObj(t, newHttpErr("Assignment not found")),
		},
	})

	// save a draft
	req, rec := newAuthRequest(http.MethodPost, "/api/assignments/1/submissions", token,
		[]byte(`{"content":"First version of the report","isDraft":true}`))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved echoapi.SubmitResponse
	unmarshal(t, rec, &saved)
	assert.Equal(t, submission.MsgDraftSaved, saved.Message.Message)
	assert.Equal(t, submission.StatusDraft, saved.Status)
	assert.Equal(t, assignment.StatusInProgress, saved.Assignment.Status)
	require.NotNil(t, saved.Draft)
	assert.Nil(t, saved.Submission)

	req, rec = newAuthRequest(http.MethodGet, "/api/assignments/1/draft", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var draft submission.Draft
	unmarshal(t, rec, &draft)
	assert.Equal(t, "First version of the report", draft.Content)
	assert.Equal(t, "r0785099", draft.Student)

	// hand it in with a file, after the due date
	body, ctype := multipartBody(t,
		map[string]string{"content": "Final version of the report", "lateNote": "I was ill last week"},
		map[string]string{"report.txt": "the report"},
	)
	req, rec = newAuthRequest(http.MethodPost, "/api/assignments/1/submissions", token, body)
	req.Header.Set(echo.HeaderContentType, ctype)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res echoapi.SubmitResponse
	unmarshal(t, rec, &res)
	assert.Equal(t, submission.MsgSubmittedLate, res.Message.Message)
	assert.Equal(t, submission.StatusLate, res.Status)
	assert.Equal(t, assignment.StatusSubmitted, res.Assignment.Status)
	require.NotNil(t, res.Submission)
	assert.Equal(t, 2, res.Submission.ID)
	assert.True(t, res.Submission.Late)
	assert.Equal(t, "I was ill last week", res.Submission.LateNote)
	assert.Equal(t, "Alex Student", res.Submission.StudentName)
	require.Len(t, res.Submission.Attachments, 1)
	upload := res.Submission.Attachments[0]
	assert.Equal(t, "report.txt", upload.Name)
	assert.True(t, strings.HasPrefix(upload.URL, "/files/submissions/1/r0785099/"), upload.URL)

	// the upload is served back
	req, rec = newRequest(http.MethodGet, upload.URL)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "the report", rec.Body.String())

	// the draft is gone once submitted
	req, rec = newAuthRequest(http.MethodGet, "/api/assignments/1/draft", token)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req, rec = newAuthRequest(http.MethodGet, "/api/assignments/1/history", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []submission.HistoryEntry
	unmarshal(t, rec, &history)
	require.Len(t, history, 2)
	assert.Equal(t, submission.HistoryDraft, history[0].Type)
	assert.Equal(t, submission.HistorySubmitted, history[1].Type)
	assert.Equal(t, "Final version of the report", history[1].Content)
	assert.Len(t, history[1].Attachments, 1)
}

func Test_submissionApi_lecturerCannotSubmit(t *testing.T) {
	app := setup(t)
	token := login(t, app, courseapi.UsernameLecturer, courseapi.PasswordDefault)

	runHttpTests(t, app, []httpTest{
		{
			name:     "lecturer",
			method:   http.MethodPost,
			path:     "/api/assignments/1/submissions",
			body:     []byte(`{"content":"done"}`),
			token:    token,
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, newHttpErr("permission denied")),
		},
		{
			name:     "anonymous",
			method:   http.MethodPost,
			path:     "/api/assignments/1/submissions",
			body:     []byte(`{"content":"done"}`),
			wantCode: http.StatusUnauthorized,
		},
	})
}

func Test_submissionApi_uploadTooLarge(t *testing.T) {
	app := setup(t)
	token := login(t, app, courseapi.UsernameStudent, courseapi.PasswordDefault)

	body, ctype := multipartBody(t,
		map[string]string{"content": "Final version of the report"},
		map[string]string{"dataset.csv": strings.Repeat("x", 2<<20)},
	)
	req, rec := newAuthRequest(http.MethodPost, "/api/assignments/1/submissions", token, body)
	req.Header.Set(echo.HeaderContentType, ctype)
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())

	req, rec = newAuthRequest(http.MethodGet, "/api/assignments/1/history", token)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []submission.HistoryEntry
	unmarshal(t, rec, &history)
	assert.Empty(t, history)
}
