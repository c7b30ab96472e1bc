package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"shelfsmart/internal/client"
	"shelfsmart/internal/common"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/reports"
	"shelfsmart/internal/services"

	"github.com/labstack/echo/v4"
)

// httpError converts a service error into the response the dashboard expects.
func httpError(err error) error {
	var apiErr *common.APIError
	var validation *common.ValidationError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case common.IsAuthError(err):
		return echo.NewHTTPError(http.StatusUnauthorized, "Session expired. Please log in again.")
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
	case errors.Is(err, listview.ErrPageOutOfRange):
		return echo.NewHTTPError(http.StatusBadRequest, "Page out of range")
	case errors.Is(err, common.ErrRequestInFlight):
		return echo.NewHTTPError(http.StatusConflict, "Request already in progress")
	case errors.Is(err, common.ErrDeleteCancelled):
		return echo.NewHTTPError(http.StatusConflict, "Delete not confirmed")
	case errors.Is(err, listview.ErrSuperseded):
		return echo.NewHTTPError(http.StatusConflict, "Superseded by a newer request")
	case errors.Is(err, common.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Record not found")
	case errors.Is(err, reports.ErrNoData):
		return echo.NewHTTPError(http.StatusNotFound, "No data available to download")
	case errors.Is(err, services.ErrArchiveDisabled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Report archiving is not configured")
	case client.IsTimeout(err):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "Backend request timed out")
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return echo.NewHTTPError(http.StatusBadGateway, msg)
	}
	return echo.NewHTTPError(http.StatusBadGateway, "Backend request failed")
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

// parsePage reads the 1-based page query parameter. Zero means not given.
func parsePage(c echo.Context) (int, error) {
	raw := c.QueryParam("page")
	if raw == "" {
		return 0, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid page")
	}
	return page, nil
}

func parseBool(c echo.Context, name string) bool {
	v, _ := strconv.ParseBool(c.QueryParam(name))
	return v
}
