package analytics

import (
	"testing"

	"shelfsmart/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCategorySummary(t *testing.T) {
	assert.Equal(t, Summary{LowStock: 10, ExpiringSoon: 5, Normal: 85}, CategorySummary(100, 10, 5))
}

func TestCategorySummary_OverlapClampsNormal(t *testing.T) {
	s := CategorySummary(3, 2, 2)
	assert.Equal(t, 0, s.Normal)
	assert.Equal(t, 2, s.LowStock)
	assert.Equal(t, 2, s.ExpiringSoon)
}

func TestSummarizeItems_OverlapCountsAsLowStock(t *testing.T) {
	items := []models.InventoryItem{
		{ID: 1, Quantity: 2, Threshold: 5},  // low and expiring
		{ID: 2, Quantity: 50, Threshold: 5}, // expiring
		{ID: 3, Quantity: 50, Threshold: 5}, // normal
		{ID: 4, Quantity: 5, Threshold: 5},  // low, at threshold
	}
	expiring := ExpiringIDs([]models.ExpiryAlert{{ItemID: 1}, {ItemID: 2}})

	s := SummarizeItems(items, expiring)

	assert.Equal(t, Summary{LowStock: 2, ExpiringSoon: 1, Normal: 1}, s)
	assert.Equal(t, len(items), s.Total())
}
