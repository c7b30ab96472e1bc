package handlers

import (
	"net/http"

	"shelfsmart/internal/common"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/models"
	"shelfsmart/internal/services"

	"github.com/labstack/echo/v4"
)

const screenActivity = "activity"

// ActivityHandlers serves the user activity log.
type ActivityHandlers struct {
	activity services.ActivityService
	loaded   *loaded
}

func NewActivityHandlers(activity services.ActivityService) *ActivityHandlers {
	return &ActivityHandlers{activity: activity, loaded: newLoaded()}
}

// ActivityPage is one page of the audit trail.
type ActivityPage struct {
	Entries []models.ActivityEntry `json:"entries"`
	Page    listview.PageInfo      `json:"page"`
	Error   string                 `json:"error,omitempty"`
}

func (h *ActivityHandlers) ListActivity(c echo.Context) error {
	ctx := c.Request().Context()
	view := h.activity.View()

	var stale error
	if h.loaded.needs(screenActivity, parseBool(c, "refresh")) {
		if err := h.activity.Load(ctx); err != nil {
			if common.IsAuthError(err) || services.IsSuperseded(err) || view.Len() == 0 {
				return httpError(err)
			}
			stale = err
		} else {
			h.loaded.mark(screenActivity)
		}
	}

	page, err := parsePage(c)
	if err != nil {
		return err
	}
	if page > 0 {
		if err := view.SetPage(page); err != nil {
			return httpError(err)
		}
	}

	entries, info := view.Page()
	resp := ActivityPage{Entries: entries, Page: info}
	if stale != nil {
		resp.Error = "Failed to load user activity"
	}
	return c.JSON(http.StatusOK, resp)
}
