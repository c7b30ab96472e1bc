package middleware

import (
	"net/http"

	"shelfsmart/internal/models"

	"github.com/labstack/echo/v4"
)

// SessionState is what the guards need to know about the stored session.
type SessionState interface {
	Authenticated() bool
	Profile() models.UserProfile
}

// RequireSession rejects the request with 401 when no credential is stored,
// before any backend call is made.
func RequireSession(session SessionState) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session == nil || !session.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated. Please log in.")
			}
			return next(c)
		}
	}
}

// RequireRole rejects the request with 403 unless the cached profile has role.
func RequireRole(session SessionState, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if session == nil || !session.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated. Please log in.")
			}
			if session.Profile().Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
