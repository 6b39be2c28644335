package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

type (
	submissionApi struct {
		svc *submission.Service
	}

	SubmitResponse struct {
		submission.Result
		Message core.StatusMessage `json:"message"`
	}
)

func registerSubmissionAPI(ag *echo.Group, deps ServerDeps) {
	api := submissionApi{svc: deps.SubmissionSvc}

	ag.POST("/:id/submissions", api.submit, middleware.BodyLimit(deps.Conf.Submission.BodyLimit), studentMiddleware())
	ag.GET("/:id/draft", api.draft)
	ag.GET("/:id/history", api.history)
}

func (api *submissionApi) submit(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data submission.Request
	if err = bindSubmission(ctx, &data); err != nil {
		return err
	}

	res, msg, err := api.svc.Submit(ctx.Request().Context(), sess, id, data)
	if err != nil {
		return err
	}
	code := http.StatusCreated
	if data.IsDraft {
		code = http.StatusOK
	}
	return ctx.JSON(code, SubmitResponse{Result: res, Message: msg})
}

func (api *submissionApi) draft(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	d, err := api.svc.Draft(ctx.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api *submissionApi) history(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	entries, err := api.svc.History(ctx.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}
