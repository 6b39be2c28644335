package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/grading"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

const (
	actionGrade    = "grade"
	actionRevision = "revision"
)

type (
	gradingApi struct {
		svc *grading.Service
	}

	// GradeRequest is the grading form: action is "grade" (default) or "revision".
	GradeRequest struct {
		Action         string            `json:"action"`
		CriteriaGrades map[string]string `json:"criteriaGrades"`
		Overall        string            `json:"overallGrade"`
		Feedback       string            `json:"feedback"`
	}

	PreviewRequest struct {
		CriteriaGrades map[string]string `json:"criteriaGrades"`
	}

	GradeResponse struct {
		Submission submission.Submission `json:"submission"`
		Status     core.StatusMessage    `json:"status"`
	}
)

func (r GradeRequest) toAction() (grading.Action, error) {
	switch strings.ToLower(core.CleanString(r.Action)) {
	case "", actionGrade:
		return grading.Grade{CriteriaGrades: r.CriteriaGrades, Overall: r.Overall, Feedback: r.Feedback}, nil
	case actionRevision:
		return grading.RequestRevision{Feedback: r.Feedback}, nil
	}
	return nil, core.NewFieldError("action", "action must be grade or revision")
}

func registerGradingAPI(ag *echo.Group, deps ServerDeps) {
	api := gradingApi{svc: deps.GradingSvc}
	lecturer := lecturerMiddleware()

	ag.GET("/:id/submissions", api.submissions, lecturer)
	ag.GET("/:id/submissions/:submissionId", api.review, lecturer)
	ag.POST("/:id/submissions/:submissionId/grade", api.grade, lecturer)
	ag.POST("/:id/grading/preview", api.preview, lecturer)
}

func (api *gradingApi) submissions(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	list, err := api.svc.Submissions(ctx.Request().Context(), sess, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *gradingApi) review(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	subID, err := paramID(ctx, "submissionId")
	if err != nil {
		return err
	}

	r, err := api.svc.Review(ctx.Request().Context(), sess, id, subID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *gradingApi) grade(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	subID, err := paramID(ctx, "submissionId")
	if err != nil {
		return err
	}
	var data GradeRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}
	act, err := data.toAction()
	if err != nil {
		return err
	}

	sub, msg, err := api.svc.Apply(ctx.Request().Context(), sess, id, subID, act)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, GradeResponse{Submission: sub, Status: msg})
}

func (api *gradingApi) preview(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var data PreviewRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PreviewRequest")
	}

	sheet, err := api.svc.Preview(ctx.Request().Context(), sess, id, data.CriteriaGrades)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sheet)
}
