package analytics

import (
	"strings"
	"testing"
	"time"

	"shelfsmart/internal/models"
	"shelfsmart/internal/reports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, value string, loc *time.Location) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	require.NoError(t, err)
	return ts
}

func TestDailyTrend_LabelsOldestFirst(t *testing.T) {
	today := at(t, "2025-03-23 18:00", time.UTC)

	tr := DailyTrend(nil, today, time.UTC)

	assert.Equal(t, []string{"2025-03-18", "2025-03-19", "2025-03-20", "2025-03-21", "2025-03-22", "2025-03-23"}, tr.Labels)
	for _, mt := range models.MovementTypes {
		assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, tr.Series(mt))
	}
}

func TestDailyTrend_SumsPerDayAndType(t *testing.T) {
	today := at(t, "2025-03-23 09:00", time.UTC)
	movements := []models.StockMovement{
		{MovementType: models.MovementAdded, QuantityChanged: 5, Timestamp: at(t, "2025-03-21 08:00", time.UTC)},
		{MovementType: models.MovementAdded, QuantityChanged: 3, Timestamp: at(t, "2025-03-21 17:30", time.UTC)},
		{MovementType: models.MovementConsumed, QuantityChanged: -4, Timestamp: at(t, "2025-03-23 07:00", time.UTC)},
		{MovementType: models.MovementDeleted, QuantityChanged: -1, Timestamp: at(t, "2025-03-10 07:00", time.UTC)},
	}

	tr := DailyTrend(movements, today, time.UTC)

	assert.Equal(t, []int{0, 0, 0, 8, 0, 0}, tr.Added)
	assert.Equal(t, []int{0, 0, 0, 0, 0, -4}, tr.Consumed)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, tr.Updated)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0}, tr.Deleted)
}

func TestDailyTrend_UsesViewerZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	today := at(t, "2025-03-23 12:00", tokyo)
	// 2025-03-22 20:00 UTC is already 2025-03-23 in Tokyo
	movements := []models.StockMovement{
		{MovementType: models.MovementUpdated, QuantityChanged: 2, Timestamp: at(t, "2025-03-22 20:00", time.UTC)},
	}

	tr := DailyTrend(movements, today, tokyo)

	assert.Equal(t, "2025-03-23", tr.Labels[5])
	assert.Equal(t, 2, tr.Updated[5])
	assert.Equal(t, 0, tr.Updated[4])
}

func TestDailyTrend_ReportRowsInViewerZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	today := at(t, "2025-03-23 12:00", ny)
	report := "MovementId,ItemId,ItemName,QuantityChanged,MovementType,Timestamp\n1,10,Rice,5,ADDED,2025-03-23T01:00:00\n"
	movements, err := reports.ParseCSVIn(strings.NewReader(report), ny)
	require.NoError(t, err)

	tr := DailyTrend(movements, today, ny)

	assert.Equal(t, []int{0, 0, 0, 0, 0, 5}, tr.Added)
}
