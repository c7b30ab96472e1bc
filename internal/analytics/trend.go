package analytics

import (
	"time"

	"shelfsmart/internal/models"
)

// TrendDays is the length of the daily trend window, today included.
const TrendDays = 6

// Trend holds one series per movement type aligned to Labels, oldest day first.
type Trend struct {
	Labels   []string `json:"labels"`
	Added    []int    `json:"added"`
	Consumed []int    `json:"consumed"`
	Updated  []int    `json:"updated"`
	Deleted  []int    `json:"deleted"`
}

// Series returns the values for t, or nil for an unknown type.
func (tr Trend) Series(t models.MovementType) []int {
	switch t {
	case models.MovementAdded:
		return tr.Added
	case models.MovementConsumed:
		return tr.Consumed
	case models.MovementUpdated:
		return tr.Updated
	case models.MovementDeleted:
		return tr.Deleted
	}
	return nil
}

// DailyTrend sums QuantityChanged per calendar day in loc and movement type
// over the TrendDays days ending with today. Days without movements are 0.
func DailyTrend(movements []models.StockMovement, today time.Time, loc *time.Location) Trend {
	if loc == nil {
		loc = today.Location()
	}
	local := today.In(loc)
	end := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	tr := Trend{
		Labels:   make([]string, TrendDays),
		Added:    make([]int, TrendDays),
		Consumed: make([]int, TrendDays),
		Updated:  make([]int, TrendDays),
		Deleted:  make([]int, TrendDays),
	}
	index := make(map[string]int, TrendDays)
	for i := 0; i < TrendDays; i++ {
		label := end.AddDate(0, 0, i-(TrendDays-1)).Format(models.DateLayout)
		tr.Labels[i] = label
		index[label] = i
	}

	for _, m := range movements {
		day, ok := index[m.Timestamp.In(loc).Format(models.DateLayout)]
		if !ok {
			continue
		}
		if series := tr.Series(m.MovementType); series != nil {
			series[day] += m.QuantityChanged
		}
	}
	return tr
}
