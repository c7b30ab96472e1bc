package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"shelfsmart/internal/analytics"
	"shelfsmart/internal/common"
	"shelfsmart/internal/models"
	"shelfsmart/internal/reports"
	"shelfsmart/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	screenReports = "reports"
	screenCustom  = "reports:custom"
)

// ReportHandlers serves the reports screen: the three stock reports, the
// derived charts and report downloads.
type ReportHandlers struct {
	reports       services.ReportService
	inventory     *InventoryHandlers
	notifications services.NotificationService
	deriver       *analytics.Deriver
	loaded        *loaded
}

func NewReportHandlers(reports services.ReportService, inventory *InventoryHandlers, notifications services.NotificationService, deriver *analytics.Deriver) *ReportHandlers {
	if deriver == nil {
		deriver = analytics.NewDeriver()
	}
	return &ReportHandlers{
		reports:       reports,
		inventory:     inventory,
		notifications: notifications,
		deriver:       deriver,
		loaded:        newLoaded(),
	}
}

// ReportView is one report with its metadata.
type ReportView struct {
	Kind          models.ReportKind      `json:"kind"`
	Movements     []models.StockMovement `json:"movements"`
	LastGenerated *time.Time             `json:"lastGenerated,omitempty"`
	Start         *models.Date           `json:"start,omitempty"`
	End           *models.Date           `json:"end,omitempty"`
	Downloading   bool                   `json:"downloading"`
}

func parseKind(c echo.Context) (models.ReportKind, error) {
	switch kind := models.ReportKind(c.Param("kind")); kind {
	case models.ReportDaily, models.ReportWeekly, models.ReportCustom:
		return kind, nil
	}
	return "", echo.NewHTTPError(http.StatusBadRequest, "Unknown report kind")
}

func (h *ReportHandlers) ensure(ctx context.Context, refresh bool) error {
	if !h.loaded.needs(screenReports, refresh) {
		return nil
	}
	if err := h.reports.Load(ctx); err != nil {
		return err
	}
	h.loaded.mark(screenReports)
	return nil
}

func (h *ReportHandlers) view(kind models.ReportKind) ReportView {
	v := ReportView{
		Kind:        kind,
		Movements:   h.reports.Movements(kind),
		Downloading: h.reports.Busy("downloading:" + string(kind)),
	}
	if at, ok := h.reports.LastGenerated(kind); ok {
		v.LastGenerated = &at
	}
	if kind == models.ReportCustom {
		start, end := h.reports.Window()
		s, e := models.Date{Time: start}, models.Date{Time: end}
		v.Start, v.End = &s, &e
	}
	return v
}

// ListReports returns the daily and weekly reports.
func (h *ReportHandlers) ListReports(c echo.Context) error {
	if err := h.ensure(c.Request().Context(), parseBool(c, "refresh")); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"daily":  h.view(models.ReportDaily),
		"weekly": h.view(models.ReportWeekly),
	})
}

func parseWindow(c echo.Context, start, end time.Time) (time.Time, time.Time, error) {
	for _, p := range []struct {
		name string
		dst  *time.Time
	}{{"start", &start}, {"end", &end}} {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			return start, end, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s date", p.name))
		}
		*p.dst = d.Time
	}
	return start, end, nil
}

// GetReport returns one report. For the custom report, start and end select
// the window; without them the current window is used.
func (h *ReportHandlers) GetReport(c echo.Context) error {
	ctx := c.Request().Context()
	kind, err := parseKind(c)
	if err != nil {
		return err
	}

	if kind != models.ReportCustom {
		if err := h.ensure(ctx, parseBool(c, "refresh")); err != nil {
			return httpError(err)
		}
		return c.JSON(http.StatusOK, h.view(kind))
	}

	if _, _, err := h.ensureCustom(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(kind))
}

// ensureCustom loads the custom report for the start and end query
// parameters, or the current window without them. It returns the window.
func (h *ReportHandlers) ensureCustom(c echo.Context) (time.Time, time.Time, error) {
	cur, curEnd := h.reports.Window()
	start, end, err := parseWindow(c, cur, curEnd)
	if err != nil {
		return start, end, err
	}
	changed := !start.Equal(cur) || !end.Equal(curEnd)
	if changed || h.loaded.needs(screenCustom, parseBool(c, "refresh")) {
		if err := h.reports.Custom(c.Request().Context(), start, end); err != nil {
			return start, end, httpError(err)
		}
		h.loaded.mark(screenCustom)
	}
	return start, end, nil
}

// GetCharts derives the summary, trend and top-consumed charts from the
// inventory, the expiry alerts and the custom report's movements within its
// start and end days.
func (h *ReportHandlers) GetCharts(c echo.Context) error {
	ctx := c.Request().Context()
	refresh := parseBool(c, "refresh")

	start, end, err := h.ensureCustom(c)
	if err != nil {
		return err
	}
	if err := h.inventory.ensure(ctx, refresh); err != nil {
		return httpError(err)
	}

	latest, ok := h.notifications.Latest()
	if !ok || refresh {
		n, err := h.notifications.Refresh(ctx)
		switch {
		case err == nil:
			latest = n
		case services.IsSuperseded(err):
			latest, _ = h.notifications.Latest()
		case common.IsAuthError(err):
			return httpError(err)
		}
	}

	movements := h.reports.Movements(models.ReportCustom)
	charts := h.deriver.DeriveWindow(h.inventory.inventory.View().Items(), latest.Expiring, movements, start, end)
	return c.JSON(http.StatusOK, charts)
}

// ExportReport downloads a loaded report as csv, xlsx or pdf.
func (h *ReportHandlers) ExportReport(c echo.Context) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}
	format, err := reports.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var buf bytes.Buffer
	name, err := h.reports.Export(&buf, kind, format)
	if err != nil {
		return httpError(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

// ArchiveReport uploads a loaded report to object storage and returns a
// temporary download link.
func (h *ReportHandlers) ArchiveReport(c echo.Context) error {
	kind, err := parseKind(c)
	if err != nil {
		return err
	}
	format, err := reports.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	link, err := h.reports.Archive(c.Request().Context(), kind, format)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"url": link})
}
