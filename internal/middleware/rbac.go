package middleware

import (
	"praenforce/internal/common"
	"praenforce/internal/reconciler"

	"github.com/labstack/echo/v4"
)

// RequireAdmin rejects sessions without the admin role
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, ok := common.GetSessionFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if !session.IsAdmin() {
				return common.SendForbiddenError(c, "Insufficient permissions")
			}
			return next(c)
		}
	}
}

// RequireOfficerAccess allows admins and the officer named by the path parameter
func RequireOfficerAccess(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, ok := common.GetSessionFromContext(c.Request().Context())
			if !ok {
				return common.SendUnauthorizedError(c)
			}
			if !session.CanView(reconciler.NormalizeIdentifier(c.Param(param))) {
				return common.SendForbiddenError(c, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
