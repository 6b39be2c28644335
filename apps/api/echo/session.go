package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

var msgLoggedOut = "You have been logged out"

type (
	sessionApi struct {
		conf *core.Config
		svc  *session.Service
	}

	LoginResponse struct {
		Token    string             `json:"token"`
		Redirect string             `json:"redirect"`
		Session  session.Session    `json:"session"`
		Status   core.StatusMessage `json:"status"`
	}
)

func registerSessionAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := sessionApi{conf: deps.Conf, svc: deps.SessionSvc}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)

	// authed endpoints
	ag := ug.Group("", authed...)
	ag.POST("/logout", api.logout)
	ag.GET("/me", api.me)
}

func (api *sessionApi) login(ctx echo.Context) error {
	var data session.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}

	sess, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	token, err := GenerateToken(api.conf, GetSessionClaims(api.conf, sess))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		Redirect: session.DashboardPath,
		Session:  sess,
		Status:   core.Success(session.MsgLoginSuccess),
	})
}

func (api *sessionApi) logout(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Logout(ctx.Request().Context(), sess.ID); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.JSON(http.StatusOK, core.Success(msgLoggedOut))
}

func (api *sessionApi) me(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}
