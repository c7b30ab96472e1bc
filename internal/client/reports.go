package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"shelfsmart/internal/models"
)

// Report fetches the raw delimited-text payload of a stock report. start and
// end are only sent for custom reports.
func (c *Client) Report(ctx context.Context, kind models.ReportKind, start, end time.Time) ([]byte, error) {
	var query url.Values
	if kind == models.ReportCustom {
		query = url.Values{}
		query.Set("startDate", start.Format(models.DateLayout))
		query.Set("endDate", end.Format(models.DateLayout))
	}
	return c.roundTrip(ctx, request{method: http.MethodGet, endpoint: "/reports/" + string(kind), query: query})
}

// Activity returns the audit trail written by the backend.
func (c *Client) Activity(ctx context.Context) ([]models.ActivityEntry, error) {
	var entries []models.ActivityEntry
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/activity"}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
