package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/fitpulse/session-agent/internal/core/domain"
	"github.com/fitpulse/session-agent/internal/core/ports"
)

// RequireAdmin gates back-office routes on the signed-in member's role. The
// central error handler maps ErrAnonymous to 401 and ErrForbidden to 403.
func RequireAdmin(manager ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !manager.Snapshot().Authenticated() {
				return domain.ErrAnonymous
			}
			if !manager.IsAdmin() {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
