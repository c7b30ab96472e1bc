package handlers

import (
	"net/http"

	"shelfsmart/internal/middleware"
	"shelfsmart/internal/models"
	"shelfsmart/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles login, registration, logout and the session probe.
type AuthHandlers struct {
	auth    services.AuthService
	session middleware.SessionState
	// resetViews drops per-screen state tied to the previous user.
	resetViews func()
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(auth services.AuthService, session middleware.SessionState, resetViews func()) *AuthHandlers {
	return &AuthHandlers{auth: auth, session: session, resetViews: resetViews}
}

// SessionResponse describes the stored session.
type SessionResponse struct {
	Authenticated bool               `json:"authenticated"`
	Profile       models.UserProfile `json:"profile"`
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	profile, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}
	if h.resetViews != nil {
		h.resetViews()
	}
	return c.JSON(http.StatusOK, SessionResponse{Authenticated: true, Profile: profile})
}

func (h *AuthHandlers) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.auth.Register(c.Request().Context(), req); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Registration successful. Please log in."})
}

func (h *AuthHandlers) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear session")
	}
	if h.resetViews != nil {
		h.resetViews()
	}
	return c.NoContent(http.StatusNoContent)
}

// Session reports whether a credential is stored and the cached profile.
func (h *AuthHandlers) Session(c echo.Context) error {
	resp := SessionResponse{Profile: models.PlaceholderProfile()}
	if h.session != nil && h.session.Authenticated() {
		resp.Authenticated = true
		resp.Profile = h.session.Profile()
	}
	return c.JSON(http.StatusOK, resp)
}
