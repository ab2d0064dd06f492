package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitpulse/session-agent/internal/core/domain"
	"github.com/fitpulse/session-agent/internal/core/ports"
)

// SessionHandler exposes the session state and its mutations.
type SessionHandler struct {
	manager ports.SessionManager
}

func NewSessionHandler(manager ports.SessionManager) *SessionHandler {
	return &SessionHandler{manager: manager}
}

// Snapshot returns the current session state. UI gates hold back protected
// content while loading is true.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Router       /session [get]
func (h *SessionHandler) Snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.manager.Snapshot())
}

type identityPatchRequest struct {
	Name   *string `json:"name,omitempty"   validate:"omitempty,min=1"`
	Email  *string `json:"email,omitempty"  validate:"omitempty,email"`
	Avatar *string `json:"avatar,omitempty"`
	Plan   *string `json:"subscription_plan,omitempty" validate:"omitempty,oneof=free pro elite"`
	Token  *string `json:"token,omitempty"  validate:"omitempty,min=1"`
}

// UpdateIdentity shallow-merges profile fields into the signed-in identity.
//
// @Summary      Update identity
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      identityPatchRequest  true  "Fields to merge"
// @Success      200   {object}  domain.Snapshot
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /session/identity [patch]
func (h *SessionHandler) UpdateIdentity(c echo.Context) error {
	if !h.manager.Snapshot().Authenticated() {
		return domain.ErrAnonymous
	}

	var req identityPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch := domain.IdentityPatch{
		Name:   req.Name,
		Email:  req.Email,
		Avatar: req.Avatar,
		Token:  req.Token,
	}
	if req.Plan != nil {
		plan := domain.Plan(*req.Plan)
		patch.Plan = &plan
	}
	if patch.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "empty patch")
	}

	h.manager.UpdateIdentity(c.Request().Context(), patch)
	return c.JSON(http.StatusOK, h.manager.Snapshot())
}

// RefreshSubscription runs an on-demand reconciliation against the
// subscription service and returns the (possibly updated) session.
//
// @Summary      Refresh subscription tier
// @Tags         session
// @Produce      json
// @Success      200  {object}  domain.Snapshot
// @Failure      401  {object}  map[string]string
// @Router       /subscription/refresh [post]
func (h *SessionHandler) RefreshSubscription(c echo.Context) error {
	if !h.manager.Snapshot().Authenticated() {
		return domain.ErrAnonymous
	}

	h.manager.ReconcileSubscription(c.Request().Context())
	return c.JSON(http.StatusOK, h.manager.Snapshot())
}
