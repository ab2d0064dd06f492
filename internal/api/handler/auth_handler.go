package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitpulse/session-agent/internal/core/domain"
	"github.com/fitpulse/session-agent/internal/core/ports"
)

// AuthHandler exposes login, signup, and logout on the local API. Failure
// detail travels through the notification side channel; the HTTP responses
// only carry the outcome. Failures are returned as domain errors and mapped
// to status codes by the central error handler.
type AuthHandler struct {
	manager ports.SessionManager
}

func NewAuthHandler(manager ports.SessionManager) *AuthHandler {
	return &AuthHandler{manager: manager}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login signs the member in.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  domain.Snapshot
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if !h.manager.Login(c.Request().Context(), req.Email, req.Password) {
		return domain.ErrInvalidCredentials
	}
	return c.JSON(http.StatusOK, h.manager.Snapshot())
}

// Signup registers a new member account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "New account details"
// @Success      201   {object}  domain.Snapshot
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if !h.manager.Signup(c.Request().Context(), req.Name, req.Email, req.Password) {
		return domain.ErrUserExists
	}
	return c.JSON(http.StatusCreated, h.manager.Snapshot())
}

// Logout clears the session. Always succeeds.
//
// @Summary      Log out
// @Tags         auth
// @Success      204  "session cleared"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.manager.Logout(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}
