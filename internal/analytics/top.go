package analytics

import (
	"sort"

	"shelfsmart/internal/models"
)

// DefaultTopN is the size of the most-consumed ranking.
const DefaultTopN = 5

// ConsumedItem is one entry of the most-consumed ranking.
type ConsumedItem struct {
	ItemName string `json:"itemName"`
	Quantity int    `json:"quantity"`
}

// TopConsumed ranks items by the summed magnitude of their CONSUMED movements.
// Ties keep first-encounter order. n <= 0 means DefaultTopN.
func TopConsumed(movements []models.StockMovement, n int) []ConsumedItem {
	if n <= 0 {
		n = DefaultTopN
	}

	var ranking []ConsumedItem
	position := make(map[string]int)
	for _, m := range movements {
		if m.MovementType != models.MovementConsumed {
			continue
		}
		qty := m.QuantityChanged
		if qty < 0 {
			qty = -qty
		}
		if i, ok := position[m.ItemName]; ok {
			ranking[i].Quantity += qty
			continue
		}
		position[m.ItemName] = len(ranking)
		ranking = append(ranking, ConsumedItem{ItemName: m.ItemName, Quantity: qty})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Quantity > ranking[j].Quantity
	})
	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}
