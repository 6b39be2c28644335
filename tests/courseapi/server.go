// Package courseapi is an in-memory stand-in for the external courses API, seeded with fixture data.
// It backs the acceptance tests and the fakeapi command.
package courseapi

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

const contextUserKey = "user"

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	errForbidden    = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	msgBadLogin     = "Invalid username or password"
)

type Server struct {
	app *echo.Echo

	mu     sync.Mutex
	data   *dataset
	tokens map[string]string // {token: username}
}

func New() *Server {
	s := &Server{
		app:    echo.New(),
		data:   seed(),
		tokens: make(map[string]string),
	}
	s.app.HideBanner = true
	s.app.HTTPErrorHandler = errorHandler
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.POST("/users/login", s.login)
	s.app.POST("/test-utils/reset-database", s.resetDatabase)

	g := s.app.Group("", s.authenticate)
	g.GET("/schedules", s.listSchedules)
	g.POST("/schedules", s.createSchedule, lecturerOnly)
	g.POST("/schedules/:id/enroll", s.enroll)

	g.GET("/assignments", s.listAssignments)
	g.POST("/assignments", s.createAssignment, lecturerOnly)
	g.GET("/assignments/schedule/:scheduleId", s.listScheduleAssignments)
	g.GET("/assignments/:id", s.getAssignment)
	g.PUT("/assignments/:id", s.updateAssignment, lecturerOnly)
	g.POST("/assignments/:id/submissions", s.createSubmission)
	g.GET("/assignments/:id/submissions", s.listSubmissions, lecturerOnly)
	g.GET("/assignments/:id/submissions/:submissionId", s.getSubmission, lecturerOnly)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func (s *Server) Start(addr string) error {
	return s.app.Start(addr)
}

// Reset restores the fixture data. Issued tokens stay valid.
func (s *Server) Reset() {
	data := seed()
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

func errorHandler(err error, ctx echo.Context) {
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if !ctx.Response().Committed {
		_ = ctx.JSON(code, echo.Map{"message": msg})
	}
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		token := strings.TrimPrefix(ctx.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		s.mu.Lock()
		username, ok := s.tokens[token]
		var u user
		if ok {
			u, ok = s.data.users[username]
		}
		s.mu.Unlock()
		if !ok {
			return errUnauthorized
		}
		ctx.Set(contextUserKey, u)
		return next(ctx)
	}
}

func lecturerOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if canTeach(ctxUser(ctx)) {
			return next(ctx)
		}
		return errForbidden
	}
}

func ctxUser(ctx echo.Context) user {
	u, _ := ctx.Get(contextUserKey).(user)
	return u
}

func canTeach(u user) bool { return u.role == session.RoleLecturer || u.role == session.RoleAdmin }

func intParam(ctx echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// Handlers

func (s *Server) login(ctx echo.Context) error {
	var creds session.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.data.users[creds.Username]
	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(creds.Password)) != nil {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"errorMessage": msgBadLogin})
	}
	token := uuid.New().String()
	s.tokens[token] = u.Username
	return ctx.JSON(http.StatusOK, session.Profile{
		Token:         token,
		FullName:      u.fullName(),
		Username:      u.Username,
		Role:          u.role,
		StudentNumber: u.studentNumber,
		Email:         u.Email,
	})
}

func (s *Server) resetDatabase(ctx echo.Context) error {
	s.Reset()
	return ctx.String(http.StatusOK, "Database reset successfully")
}

// scheduleView is the list of schedules as seen by u.
func (s *Server) scheduleView(u user) []schedule.Schedule {
	id := u.studentNumber
	if id == "" {
		id = u.Username
	}
	out := make([]schedule.Schedule, 0, len(s.data.schedules))
	for _, sc := range s.data.schedules {
		sc.IsEnrolled = sc.HasStudent(id)
		if canTeach(u) {
			sc.Students = append([]schedule.Student(nil), sc.Students...)
		} else {
			sc.Students = nil
		}
		out = append(out, sc)
	}
	return detectConflicts(out)
}

// detectConflicts flags every schedule the student is not enrolled in that overlaps one they are.
func detectConflicts(schedules []schedule.Schedule) []schedule.Schedule {
	out := make([]schedule.Schedule, len(schedules))
	copy(out, schedules)
	for i := range out {
		if out[i].IsEnrolled {
			continue
		}
		for _, other := range schedules {
			if other.IsEnrolled && other.ID != out[i].ID && schedule.Overlaps(out[i], other) {
				out[i].HasConflict = true
				break
			}
		}
	}
	return out
}

func (s *Server) listSchedules(ctx echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ctx.JSON(http.StatusOK, s.scheduleView(ctxUser(ctx)))
}

func (s *Server) createSchedule(ctx echo.Context) error {
	var ns schedule.NewSchedule
	if err := ctx.Bind(&ns); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	ns.Clean()
	if ns.Name == "" || ns.MaxCapacity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "name and maxCapacity are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sc := schedule.Schedule{
		ID:          len(s.data.schedules) + 1,
		Name:        ns.Name,
		Professor:   ns.Professor,
		DayOfWeek:   ns.DayOfWeek,
		TimeSlot:    ns.TimeSlot,
		MaxCapacity: ns.MaxCapacity,
	}
	s.data.schedules = append(s.data.schedules, sc)
	return ctx.JSON(http.StatusOK, sc)
}

func (s *Server) enroll(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var body struct {
		Student schedule.Student `json:"student"`
	}
	if err = ctx.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	u := ctxUser(ctx)
	if body.Student.StudentNumber == "" {
		body.Student = u.student()
		if body.Student.StudentNumber == "" {
			body.Student.StudentNumber = u.Username
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.data.schedules {
		sc := &s.data.schedules[i]
		if sc.ID != id {
			continue
		}
		switch {
		case sc.HasStudent(body.Student.StudentNumber):
			return echo.NewHTTPError(http.StatusConflict, "Student is already enrolled in "+sc.Name)
		case sc.IsFull():
			return echo.NewHTTPError(http.StatusBadRequest, "Schedule "+sc.Name+" is full")
		}
		sc.EnrolledStudents++
		sc.Students = append(sc.Students, body.Student)
		for _, v := range s.scheduleView(u) {
			if v.ID == id {
				return ctx.JSON(http.StatusOK, v)
			}
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Schedule not found")
}

func (s *Server) listAssignments(ctx echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ctx.JSON(http.StatusOK, s.data.assignments)
}

func (s *Server) listScheduleAssignments(ctx echo.Context) error {
	id, err := intParam(ctx, "scheduleId")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]assignment.Assignment, 0)
	for _, a := range s.data.assignments {
		if a.ScheduleID == id {
			out = append(out, a)
		}
	}
	return ctx.JSON(http.StatusOK, out)
}

// findAssignment must be called with s.mu held.
func (s *Server) findAssignment(id int) (int, error) {
	for i, a := range s.data.assignments {
		if a.ID == id {
			return i, nil
		}
	}
	return 0, echo.NewHTTPError(http.StatusNotFound, "Assignment not found")
}

func (s *Server) getAssignment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findAssignment(id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s.data.assignments[i])
}

func (s *Server) createAssignment(ctx echo.Context) error {
	var na assignment.NewAssignment
	if err := ctx.Bind(&na); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := assignment.Assignment{
		ID:              len(s.data.assignments) + 1,
		Title:           na.Title,
		Description:     na.Description,
		DueDate:         na.DueDate,
		ScheduleID:      na.ScheduleID,
		Schedule:        na.Schedule,
		EstimatedTime:   na.EstimatedTime,
		GradingCriteria: na.GradingCriteria,
		Status:          assignment.StatusNotStarted,
		IsPublished:     na.IsPublished,
		Attachments:     na.Attachments,
	}
	if a.Schedule == "" {
		for _, sc := range s.data.schedules {
			if sc.ID == a.ScheduleID {
				a.Schedule = sc.Name
			}
		}
	}
	s.data.assignments = append(s.data.assignments, a)
	return ctx.JSON(http.StatusCreated, a)
}

func (s *Server) updateAssignment(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var a assignment.Assignment
	if err = ctx.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findAssignment(id)
	if err != nil {
		return err
	}
	a.ID = id
	a.HasSubmissions = len(s.data.submissions[id]) > 0
	a.IsPastDue, a.StatusLabel = false, ""
	s.data.assignments[i] = a
	return ctx.JSON(http.StatusOK, a)
}

func (s *Server) createSubmission(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	var ns submission.NewSubmission
	if err = ctx.Bind(&ns); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(ns.Content) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Submission content is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.findAssignment(id)
	if err != nil {
		return err
	}
	next := 1
	for _, list := range s.data.submissions {
		for _, sub := range list {
			if sub.ID >= next {
				next = sub.ID + 1
			}
		}
	}
	sub := submission.Submission{
		ID:             next,
		AssignmentID:   id,
		StudentName:    ns.StudentName,
		StudentNumber:  ns.StudentNumber,
		SubmissionDate: time.Now().UTC(),
		Content:        ns.Content,
		Attachments:    ns.Attachments,
		Status:         submission.StatusSubmitted,
		Late:           ns.Late,
		LateNote:       ns.LateNote,
	}
	if sub.Late {
		sub.Status = submission.StatusLate
	}
	s.data.submissions[id] = append(s.data.submissions[id], sub)
	s.data.assignments[i].HasSubmissions = true
	return ctx.JSON(http.StatusCreated, sub)
}

func (s *Server) listSubmissions(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err = s.findAssignment(id); err != nil {
		return err
	}
	out := append([]submission.Submission{}, s.data.submissions[id]...)
	return ctx.JSON(http.StatusOK, out)
}

func (s *Server) getSubmission(ctx echo.Context) error {
	id, err := intParam(ctx, "id")
	if err != nil {
		return err
	}
	subID, err := intParam(ctx, "submissionId")
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.data.submissions[id] {
		if sub.ID == subID {
			return ctx.JSON(http.StatusOK, sub)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Submission not found")
}
