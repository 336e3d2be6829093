package middleware

import (
	"time"

	"praenforce/internal/common"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuditRequest logs who read or changed what. It runs after the session is
// established so the caller's email and role are known.
func AuditRequest(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("route", c.Path()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			}
			if session, ok := common.GetSessionFromContext(c.Request().Context()); ok {
				fields = append(fields,
					zap.String("email", session.Email),
					zap.String("role", session.Role),
					zap.String("officer_id", session.OfficerID))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			logger.Info("audit", fields...)
			return err
		}
	}
}
