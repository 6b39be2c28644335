package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/Eddy-Prime/SE-Complete-Project/core/session"
)

// roleMiddleware lets through the sessions holding any of roles.
func roleMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess, err := getContextSession(ctx)
			if err != nil {
				return err
			}
			for _, role := range roles {
				if sess.Role == role {
					return next(ctx)
				}
			}
			return errHttpForbidden
		}
	}
}

func lecturerMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(session.RoleLecturer, session.RoleAdmin)
}

func studentMiddleware() echo.MiddlewareFunc {
	return roleMiddleware(session.RoleStudent)
}
