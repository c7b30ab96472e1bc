package handlers

import (
	"net/http"

	"shelfsmart/internal/common"
	"shelfsmart/internal/services"
	"shelfsmart/internal/websocket"

	"github.com/labstack/echo/v4"
)

// NotificationHandlers serves the notification bell, its websocket feed and
// the restock suggestions panel.
type NotificationHandlers struct {
	notifications services.NotificationService
	hub           *websocket.Hub
}

// NewNotificationHandlers creates a new notification handlers instance
func NewNotificationHandlers(notifications services.NotificationService, hub *websocket.Hub) *NotificationHandlers {
	return &NotificationHandlers{notifications: notifications, hub: hub}
}

// GetNotifications returns the last snapshot, fetching one if none exists yet
// or refresh=true is given. A failed refresh falls back to the last snapshot.
func (h *NotificationHandlers) GetNotifications(c echo.Context) error {
	latest, ok := h.notifications.Latest()
	if !ok || parseBool(c, "refresh") {
		n, err := h.notifications.Refresh(c.Request().Context())
		switch {
		case err == nil:
			latest = n
		case services.IsSuperseded(err):
			// a newer refresh owns the snapshot
			if newer, found := h.notifications.Latest(); found {
				latest = newer
			} else if !ok {
				return httpError(err)
			}
		case !ok || common.IsAuthError(err):
			return httpError(err)
		}
	}
	return c.JSON(http.StatusOK, latest)
}

// Stream upgrades to a websocket that receives every count update.
func (h *NotificationHandlers) Stream(c echo.Context) error {
	if h.hub == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Live notifications are disabled")
	}
	h.hub.ServeHTTP(c.Response(), c.Request())
	return nil
}

func (h *NotificationHandlers) GetSuggestions(c echo.Context) error {
	suggestions, err := h.notifications.Suggestions(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, suggestions)
}
