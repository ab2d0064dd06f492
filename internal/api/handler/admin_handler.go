package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fitpulse/session-agent/internal/core/ports"
	"github.com/fitpulse/session-agent/internal/infrastructure/notify"
)

// AdminHandler is the back-office hook: routes behind it are gated by the
// RequireAdmin middleware.
type AdminHandler struct {
	manager   ports.SessionManager
	center    *notify.Center
	startedAt time.Time
}

func NewAdminHandler(manager ports.SessionManager, center *notify.Center) *AdminHandler {
	return &AdminHandler{manager: manager, center: center, startedAt: time.Now().UTC()}
}

type adminOverview struct {
	Identity      any    `json:"identity"`
	Notifications int    `json:"notifications"`
	StartedAt     string `json:"started_at"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// Overview reports agent-level state for the admin back office.
//
// @Summary      Agent overview
// @Tags         admin
// @Produce      json
// @Success      200  {object}  adminOverview
// @Failure      403  {object}  map[string]string
// @Router       /admin/overview [get]
func (h *AdminHandler) Overview(c echo.Context) error {
	return c.JSON(http.StatusOK, adminOverview{
		Identity:      h.manager.Snapshot().Identity,
		Notifications: len(h.center.Recent(0)),
		StartedAt:     h.startedAt.Format(time.RFC3339),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	})
}
