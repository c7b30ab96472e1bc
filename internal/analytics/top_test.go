package analytics

import (
	"testing"

	"shelfsmart/internal/models"

	"github.com/stretchr/testify/assert"
)

func consumed(name string, qty int) models.StockMovement {
	return models.StockMovement{ItemName: name, QuantityChanged: qty, MovementType: models.MovementConsumed}
}

func TestTopConsumed_RanksByMagnitude(t *testing.T) {
	movements := []models.StockMovement{
		consumed("A", -3),
		consumed("B", -10),
		consumed("A", -2),
		{ItemName: "C", QuantityChanged: 50, MovementType: models.MovementAdded},
	}

	got := TopConsumed(movements, 5)

	assert.Equal(t, []ConsumedItem{{ItemName: "B", Quantity: 10}, {ItemName: "A", Quantity: 5}}, got)
}

func TestTopConsumed_TiesKeepEncounterOrder(t *testing.T) {
	movements := []models.StockMovement{
		consumed("Rice", -4),
		consumed("Oil", -4),
		consumed("Beans", 4),
	}

	got := TopConsumed(movements, 0)

	assert.Equal(t, []string{"Rice", "Oil", "Beans"}, []string{got[0].ItemName, got[1].ItemName, got[2].ItemName})
}

func TestTopConsumed_LimitsToN(t *testing.T) {
	var movements []models.StockMovement
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		movements = append(movements, consumed(name, -1))
	}

	assert.Len(t, TopConsumed(movements, 0), DefaultTopN)
	assert.Len(t, TopConsumed(movements, 2), 2)
	assert.Empty(t, TopConsumed(nil, 3))
}
