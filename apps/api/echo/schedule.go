package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
)

var msgScheduleCreated = "Schedule created successfully"

type (
	scheduleApi struct {
		svc         *schedule.Service
		assignments *assignment.Service
		validate    *validator.Validate
	}

	// ScheduleView is a schedule with the state of its enroll button.
	ScheduleView struct {
		schedule.Schedule
		Control schedule.Control `json:"control"`
	}

	BoardResponse struct {
		Available []ScheduleView `json:"available"`
		Enrolled  []ScheduleView `json:"enrolled"`
	}

	EnrollResponse struct {
		BoardResponse
		Status core.StatusMessage `json:"status"`
	}

	ScheduleResponse struct {
		Schedule ScheduleView       `json:"schedule"`
		Status   core.StatusMessage `json:"status"`
	}
)

func registerScheduleAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := scheduleApi{svc: deps.ScheduleSvc, assignments: deps.AssignmentSvc, validate: deps.Validate}

	sg := g.Group("/schedules", authed...)
	sg.GET("", api.board)
	sg.POST("", api.create, lecturerMiddleware())
	sg.POST("/:id/enroll", api.enroll, studentMiddleware())
	sg.GET("/:id/assignments", api.scheduleAssignments)
}

func newScheduleViews(schedules []schedule.Schedule) []ScheduleView {
	views := make([]ScheduleView, 0, len(schedules))
	for _, s := range schedules {
		views = append(views, ScheduleView{Schedule: s, Control: s.Control()})
	}
	return views
}

func newBoardResponse(b schedule.Board) BoardResponse {
	return BoardResponse{
		Available: newScheduleViews(b.Available()),
		Enrolled:  newScheduleViews(b.Enrolled()),
	}
}

func (api *scheduleApi) board(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	b, err := api.svc.Board(ctx.Request().Context(), sess)
	if err != nil {
		return errors.Wrap(err, "loading board")
	}
	return ctx.JSON(http.StatusOK, newBoardResponse(b))
}

func (api *scheduleApi) create(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data schedule.NewSchedule
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchedule")
	}
	data.Clean()
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), sess, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, ScheduleResponse{
		Schedule: ScheduleView{Schedule: s, Control: s.Control()},
		Status:   core.Success(msgScheduleCreated),
	})
}

// enroll reloads the board so capacity and conflicts are checked against the latest counts.
func (api *scheduleApi) enroll(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	b, err := api.svc.Board(ctx.Request().Context(), sess)
	if err != nil {
		return errors.Wrap(err, "loading board")
	}
	b, msg, err := api.svc.AttemptEnroll(ctx.Request().Context(), sess, b, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, EnrollResponse{BoardResponse: newBoardResponse(b), Status: msg})
}

func (api *scheduleApi) scheduleAssignments(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	list, err := api.assignments.ForSchedule(ctx.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}
