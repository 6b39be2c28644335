// Package backend is the HTTP client of the external courses API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     core.Logger
}

var (
	_ session.Authenticator = (*Client)(nil)
	_ schedule.Backend      = (*Client)(nil)
	_ assignment.Backend    = (*Client)(nil)
	_ assignment.Rosters    = (*Client)(nil)
	_ submission.Backend    = (*Client)(nil)
)

func NewClient(conf *core.Config, httpClient *http.Client, logger core.Logger) *Client {
	if httpClient == nil {
		httpClient = DefaultHTTPClient(conf.Backend.Timeout)
	}
	return &Client{
		baseURL:    strings.TrimRight(conf.Backend.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func DefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// errorBody covers both error shapes of the courses API.
type errorBody struct {
	Message      string `json:"message"`
	ErrorMessage string `json:"errorMessage"`
}

// do sends in as JSON and decodes the response into out (when both are set).
// Any non-2xx answer becomes a *core.RemoteError carrying the server message; so does a transport failure, with Status 0.
func (c *Client) do(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &core.RemoteError{Err: errors.Wrapf(err, "%s %s", method, path)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		rErr := &core.RemoteError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			rErr.Message = eb.Message
			if rErr.Message == "" {
				rErr.Message = eb.ErrorMessage
			}
		}
		rErr.Err = fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		return rErr
	}

	if out == nil {
		return nil
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "json") {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &core.RemoteError{Err: errors.Wrap(err, "reading response")}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", method, path)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, creds session.Credentials) (session.Profile, error) {
	var p session.Profile
	if err := c.do(ctx, http.MethodPost, "/users/login", "", creds, &p); err != nil {
		return session.Profile{}, err
	}
	if p.Token == "" {
		return session.Profile{}, errors.New("login response missing token")
	}
	return p, nil
}

func (c *Client) ListSchedules(ctx context.Context, token string) ([]schedule.Schedule, error) {
	list := make([]schedule.Schedule, 0)
	if err := c.do(ctx, http.MethodGet, "/schedules", token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) CreateSchedule(ctx context.Context, token string, ns schedule.NewSchedule) (schedule.Schedule, error) {
	var s schedule.Schedule
	err := c.do(ctx, http.MethodPost, "/schedules", token, ns, &s)
	return s, err
}

type enrollRequest struct {
	Student schedule.Student `json:"student"`
}

// Enroll returns the updated schedule when the API sends one back, a zero Schedule otherwise.
func (c *Client) Enroll(ctx context.Context, token string, scheduleID int, student schedule.Student) (schedule.Schedule, error) {
	var s schedule.Schedule
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/schedules/%d/enroll", scheduleID), token, enrollRequest{Student: student}, &s)
	return s, err
}

func (c *Client) ListAssignments(ctx context.Context, token string) ([]assignment.Assignment, error) {
	list := make([]assignment.Assignment, 0)
	if err := c.do(ctx, http.MethodGet, "/assignments", token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) ListScheduleAssignments(ctx context.Context, token string, scheduleID int) ([]assignment.Assignment, error) {
	list := make([]assignment.Assignment, 0)
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/assignments/schedule/%d", scheduleID), token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetAssignment(ctx context.Context, token string, id int) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/assignments/%d", id), token, nil, &a)
	return a, err
}

func (c *Client) CreateAssignment(ctx context.Context, token string, na assignment.NewAssignment) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := c.do(ctx, http.MethodPost, "/assignments", token, na, &a)
	return a, err
}

func (c *Client) UpdateAssignment(ctx context.Context, token string, a assignment.Assignment) (assignment.Assignment, error) {
	var saved assignment.Assignment
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/assignments/%d", a.ID), token, a, &saved); err != nil {
		return assignment.Assignment{}, err
	}
	if saved.ID == 0 {
		saved = a
	}
	return saved, nil
}

func (c *Client) CreateSubmission(ctx context.Context, token string, assignmentID int, ns submission.NewSubmission) (submission.Submission, error) {
	var s submission.Submission
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/assignments/%d/submissions", assignmentID), token, ns, &s); err != nil {
		return submission.Submission{}, err
	}
	if s.AssignmentID == 0 {
		s.AssignmentID = assignmentID
	}
	if s.Content == "" {
		s.StudentName, s.StudentNumber, s.Content, s.Attachments = ns.StudentName, ns.StudentNumber, ns.Content, ns.Attachments
		s.Late, s.LateNote = ns.Late, ns.LateNote
	}
	return s, nil
}

func (c *Client) ListSubmissions(ctx context.Context, token string, assignmentID int) ([]submission.Submission, error) {
	list := make([]submission.Submission, 0)
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/assignments/%d/submissions", assignmentID), token, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetSubmission(ctx context.Context, token string, assignmentID, submissionID int) (submission.Submission, error) {
	var s submission.Submission
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/assignments/%d/submissions/%d", assignmentID, submissionID), token, nil, &s)
	return s, err
}

// ResetDatabase restores the fixture data of the courses API. Failures are logged, never returned:
// callers carry on with whatever data is there.
func (c *Client) ResetDatabase(ctx context.Context) bool {
	if err := c.do(ctx, http.MethodPost, "/test-utils/reset-database", "", nil, nil); err != nil {
		c.logger.Warn(fmt.Sprintf("resetting courses api fixtures: %v", err), err)
		return false
	}
	return true
}
