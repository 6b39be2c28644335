package echoapi

import (
	"fmt"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Eddy-Prime/SE-Complete-Project/core"
	"github.com/Eddy-Prime/SE-Complete-Project/core/assignment"
	"github.com/Eddy-Prime/SE-Complete-Project/core/grading"
	"github.com/Eddy-Prime/SE-Complete-Project/core/schedule"
	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
	"github.com/Eddy-Prime/SE-Complete-Project/core/submission"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errSessionExpired = echo.NewHTTPError(http.StatusUnauthorized, "session expired, please log in again")
	errHttpForbidden  = echo.NewHTTPError(http.StatusForbidden, "permission denied")
	errInvalidID      = echo.NewHTTPError(http.StatusNotFound, "not found")
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	core.StatusMessage
	Fields map[string]string `json:"fields,omitempty"`
}

// statusOf maps the sentinel errors of the core packages to an HTTP status.
func statusOf(err error) (int, bool) {
	switch err {
	case schedule.ErrNotFound, assignment.ErrNotFound, submission.ErrNotFound, submission.ErrDraftNotFound:
		return http.StatusNotFound, true
	case assignment.ErrForbidden, submission.ErrForbidden, submission.ErrNotLecturer:
		return http.StatusForbidden, true
	case session.ErrNotFound:
		return http.StatusUnauthorized, true
	}
	return 0, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string
		var fields map[string]string

		cause := errors.Cause(err)
		if c, ok := statusOf(cause); ok {
			code, message = c, cause.Error()
		} else {
			switch origErr := cause.(type) {
			case *echo.HTTPError:
				if origErr == middleware.ErrJWTMissing {
					code = http.StatusUnauthorized
					message = fmt.Sprint(origErr.Message)
					break
				}
				if origErr.Internal != nil {
					if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
						origErr = herr
					}
				}
				code = origErr.Code
				message = fmt.Sprint(origErr.Message)
			case validator.ValidationErrors:
				fields = make(map[string]string, len(origErr))
				for _, vErr := range origErr {
					fields[vErr.Field()] = vErr.Translate(translator)
				}
				code = http.StatusBadRequest
				message = origErr[0].Translate(translator)
			case *core.ValidationError:
				if origErr.Fields != nil {
					fields = make(map[string]string, len(origErr.Fields))
					for _, fErr := range origErr.Fields {
						fields[fErr.Field] = fErr.Error
					}
				}
				code = http.StatusBadRequest
				message = origErr.Error()
			case *assignment.MissingFieldError:
				code = http.StatusBadRequest
				message = origErr.Error()
				fields = map[string]string{origErr.Field: message}
			case *grading.MissingFeedbackError:
				code = http.StatusBadRequest
				message = origErr.Error()
				fields = map[string]string{"feedback": message}
			case *session.AuthenticationError:
				code = http.StatusUnauthorized
				message = origErr.Error()
			case *schedule.CapacityError, *schedule.ConflictError, *schedule.AlreadyEnrolledError:
				code = http.StatusConflict
				message = origErr.Error()
			case *assignment.ImmutableFieldError, *assignment.DeadlineRegressionError,
				*submission.DeadlinePassedError, *grading.InvalidGradeError:
				code = http.StatusUnprocessableEntity
				message = origErr.Error()
			case *core.RemoteError:
				// the courses API's own client errors are passed on, anything else is a bad gateway
				code = http.StatusBadGateway
				if origErr.Status >= 400 && origErr.Status < 500 {
					code = origErr.Status
				}
				message = origErr.Error()
				if code == http.StatusBadGateway {
					logger.Warn(fmt.Sprintf("courses api: %v", err), err, contextLogUser(ctx))
				}
			default: // any other error is a server error
				code = http.StatusInternalServerError
				message = http.StatusText(http.StatusInternalServerError)
				logger.Error(message, errors.Wrap(err, message), contextLogUser(ctx))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, errorResponse{StatusMessage: core.Failure(message), Fields: fields})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}

func contextLogUser(ctx echo.Context) core.LogUser {
	if sess, err := getContextSession(ctx); err == nil {
		return sess.LogUser()
	}
	if claims, err := getContextClaims(ctx); err == nil {
		return core.LogUser{ID: claims.Subject, Username: claims.Username}
	}
	return core.LogUser{}
}
