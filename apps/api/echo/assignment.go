package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
)

type (
	assignmentApi struct {
		svc *assignment.Service
	}

	AssignmentResponse struct {
		Assignment assignment.Assignment `json:"assignment"`
		Status     core.StatusMessage    `json:"status"`
	}
)

func registerAssignmentAPI(ag *echo.Group, deps ServerDeps) {
	api := assignmentApi{svc: deps.AssignmentSvc}

	ag.GET("", api.dashboard)
	ag.POST("", api.create, lecturerMiddleware())
	ag.GET("/:id", api.retrieve)
	ag.PUT("/:id", api.update, lecturerMiddleware())
	ag.GET("/:id/changelog", api.changeLog)
}

func (api *assignmentApi) dashboard(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	opts := assignment.ViewOptions{
		Schedule: ctx.QueryParam("schedule"),
		Status:   ctx.QueryParam("status"),
		Sort:     assignment.SortOption(ctx.QueryParam("sort")),
		View:     assignment.ViewMode(ctx.QueryParam("view")),
	}

	view, err := api.svc.Dashboard(ctx.Request().Context(), sess, opts)
	if err != nil {
		return errors.Wrap(err, "deriving dashboard")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	var data assignment.NewAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}

	a, msg, err := api.svc.Create(ctx.Request().Context(), sess, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, AssignmentResponse{Assignment: a, Status: msg})
}

func (api *assignmentApi) retrieve(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	a, err := api.svc.Get(ctx.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data assignment.Assignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Assignment")
	}
	data.ID = id

	a, msg, err := api.svc.Update(ctx.Request().Context(), sess, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, AssignmentResponse{Assignment: a, Status: msg})
}

func (api *assignmentApi) changeLog(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	entries, err := api.svc.ChangeLog(ctx.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}
