package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fitpulse/session-agent/internal/infrastructure/notify"
)

// NotificationHandler serves the notification center the UI polls for
// toasts.
type NotificationHandler struct {
	center *notify.Center
}

func NewNotificationHandler(center *notify.Center) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// Recent lists recent notifications, newest first.
//
// @Summary      Recent notifications
// @Tags         notifications
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of notifications"
// @Success      200    {array}   domain.Notification
// @Router       /notifications [get]
func (h *NotificationHandler) Recent(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}
	return c.JSON(http.StatusOK, h.center.Recent(limit))
}
