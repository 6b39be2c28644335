package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/Eddy-Prime/SE-Complete-Project/apps/api/echo"
	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/grading"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
	"github.com/Eddy-Prime/SE-Complete-Project/services/backend"
	emailsvc "github.com/Eddy-Prime/SE-Complete-Project/services/email"
	boltstore "github.com/Eddy-Prime/SE-Complete-Project/storage/bolt"
	inmemdb "github.com/Eddy-Prime/SE-Complete-Project/storage/database/inmem"
	"github.com/Eddy-Prime/SE-Complete-Project/storage/files"
	"github.com/Eddy-Prime/SE-Complete-Project/storage/sessions"
	testutil "github.com/Eddy-Prime/SE-Complete-Project/tests"
	"github.com/Eddy-Prime/SE-Complete-Project/tests/courseapi"
)

type testApp struct {
	*echoapi.Server
	mail   *emailsvc.ConsoleServiceMock
	files  *files.MemoryStore
	logger *testutil.Logger
}

// setup wires the API to a fresh fake courses API and in-memory storage.
func setup(t *testing.T) *testApp {
	t.Helper()

	fake := httptest.NewServer(courseapi.New())
	t.Cleanup(fake.Close)

	conf := core.NewTestConfig()
	conf.Backend.BaseURL = fake.URL
	logger := testutil.NewLogger()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)
	core.ParseEmailTemplates(conf, logger)

	client := backend.NewClient(conf, nil, logger)
	db := inmemdb.Open()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	fileStore := files.NewMemoryStore("/files")
	drafts, err := boltstore.Open(filepath.Join(t.TempDir(), "drafts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drafts.Close() })

	assignmentSvc := assignment.NewService(client, client, inmemdb.NewChangeLogRepository(db), mailSvc, logger)
	submissionSvc := submission.NewService(
		client, assignmentSvc, drafts, inmemdb.NewHistoryRepository(db),
		fileStore, submission.NewPolicy(conf), logger,
	)

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		SessionSvc:    session.NewService(client, sessions.NewMemoryStore(conf.Redis.SessionTTL), logger),
		ScheduleSvc:   schedule.NewService(client, logger),
		AssignmentSvc: assignmentSvc,
		SubmissionSvc: submissionSvc,
		GradingSvc: grading.NewService(
			assignmentSvc, submissionSvc, client, inmemdb.NewRecordRepository(db),
			mailSvc, grading.NewPolicy(conf), logger,
		),
		Validate:   validate,
		Translator: translator,
		Files:      fileStore,
	})
	t.Cleanup(func() { _ = server.Close() })

	return &testApp{Server: server, mail: mailSvc, files: fileStore, logger: logger}
}

type httpErr struct {
	Message string            `json:"message"`
	Type    string            `json:"type"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func newHttpErr(msg string, fields ...map[string]string) httpErr {
	e := httpErr{Message: msg, Type: "error"}
	if len(fields) > 0 {
		e.Fields = fields[0]
	}
	return e
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHttpTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// login opens a session and returns its token.
func login(t *testing.T, app *testApp, username, password string) string {
	t.Helper()
	body := marshalObj(t, session.Credentials{Username: username, Password: password})
	req, rec := newRequest(http.MethodPost, "/api/users/login", body)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res echoapi.LoginResponse
	unmarshal(t, rec, &res)
	assert.NotEmpty(t, res.Token)
	return res.Token
}
