package analytics

import "shelfsmart/internal/models"

// Summary is the three-bucket category breakdown shown in the donut chart.
type Summary struct {
	LowStock     int `json:"lowStock"`
	ExpiringSoon int `json:"expiringSoon"`
	Normal       int `json:"normal"`
}

// Total is the number of items across all buckets.
func (s Summary) Total() int {
	return s.LowStock + s.ExpiringSoon + s.Normal
}

// CategorySummary derives the buckets from plain counts. The low-stock and
// expiring sets may overlap, so Normal is clamped at zero.
func CategorySummary(total, lowStock, expiringSoon int) Summary {
	normal := total - lowStock - expiringSoon
	if normal < 0 {
		normal = 0
	}
	return Summary{LowStock: lowStock, ExpiringSoon: expiringSoon, Normal: normal}
}

// SummarizeItems assigns every item to exactly one bucket. An item that is
// both low on stock and expiring counts as low stock only.
func SummarizeItems(items []models.InventoryItem, expiringIDs map[int64]bool) Summary {
	var s Summary
	for i := range items {
		switch {
		case items[i].IsLowStock():
			s.LowStock++
		case expiringIDs[items[i].ID]:
			s.ExpiringSoon++
		default:
			s.Normal++
		}
	}
	return s
}

// ExpiringIDs indexes an expiry alert list by item id.
func ExpiringIDs(alerts []models.ExpiryAlert) map[int64]bool {
	out := make(map[int64]bool, len(alerts))
	for _, a := range alerts {
		out[a.ItemID] = true
	}
	return out
}
