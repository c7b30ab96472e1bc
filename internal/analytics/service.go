package analytics

import (
	"time"

	"shelfsmart/internal/models"
)

// Charts is everything the reports screen renders from one data load.
type Charts struct {
	Summary       Summary        `json:"summary"`
	Trend         Trend          `json:"trend"`
	TopConsumed   []ConsumedItem `json:"topConsumed"`
	LastGenerated *time.Time     `json:"lastGenerated,omitempty"`
	GeneratedAt   time.Time      `json:"generatedAt"`
}

// Deriver computes chart data. It performs no I/O; the clock and zone are injected.
type Deriver struct {
	Now      func() time.Time
	Location *time.Location
	TopN     int
}

// NewDeriver returns a Deriver on the wall clock in the local zone.
func NewDeriver() *Deriver {
	return &Deriver{Now: time.Now, Location: time.Local, TopN: DefaultTopN}
}

func (d *Deriver) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d *Deriver) location() *time.Location {
	if d.Location == nil {
		return time.Local
	}
	return d.Location
}

// Derive builds the summary from the inventory and the expiry alerts, and the
// trend and ranking from movements.
func (d *Deriver) Derive(items []models.InventoryItem, alerts []models.ExpiryAlert, movements []models.StockMovement) Charts {
	now := d.now()
	charts := Charts{
		Summary:     SummarizeItems(items, ExpiringIDs(alerts)),
		Trend:       DailyTrend(movements, now, d.location()),
		TopConsumed: TopConsumed(movements, d.TopN),
		GeneratedAt: now,
	}
	if latest, ok := LatestTimestamp(movements); ok {
		charts.LastGenerated = &latest
	}
	return charts
}

// DeriveWindow is Derive over the movements whose calendar day, in the
// deriver's zone, lies within the days of start and end.
func (d *Deriver) DeriveWindow(items []models.InventoryItem, alerts []models.ExpiryAlert, movements []models.StockMovement, start, end time.Time) Charts {
	loc := d.location()
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	return d.Derive(items, alerts, InWindow(movements, from, to))
}

// LatestTimestamp returns the most recent movement time.
func LatestTimestamp(movements []models.StockMovement) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, m := range movements {
		if !found || m.Timestamp.After(latest) {
			latest = m.Timestamp
			found = true
		}
	}
	return latest, found
}

// InWindow keeps the movements whose calendar day lies within [start, end].
// Both bounds are inclusive days in start's zone.
func InWindow(movements []models.StockMovement, start, end time.Time) []models.StockMovement {
	loc := start.Location()
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	e := end.In(loc)
	until := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)

	out := make([]models.StockMovement, 0, len(movements))
	for _, m := range movements {
		if !m.Timestamp.Before(from) && m.Timestamp.Before(until) {
			out = append(out, m)
		}
	}
	return out
}
