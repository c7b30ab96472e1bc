package listview

import (
	"testing"

	"shelfsmart/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manyItems(n int) []models.InventoryItem {
	out := make([]models.InventoryItem, n)
	for i := range out {
		out[i] = models.InventoryItem{ID: int64(i + 1), Name: "Item", Category: "Grains"}
	}
	out[n-1].Name = "Special"
	out[n-1].Category = "Oils"
	return out
}

func TestView_PageAndInfo(t *testing.T) {
	v := NewView(8, InventoryName).WithCategory(InventoryCategory)
	v.SetItems(manyItems(20))

	rows, info := v.Page()
	assert.Len(t, rows, 8)
	assert.Equal(t, 3, info.PageCount)
	assert.Equal(t, 1, info.From)
	assert.Equal(t, 8, info.To)

	require.NoError(t, v.SetPage(3))
	rows, info = v.Page()
	assert.Len(t, rows, 4)
	assert.Equal(t, 17, info.From)
	assert.Equal(t, 20, info.To)
}

func TestView_SetPageRejectsOutOfRange(t *testing.T) {
	v := NewView(8, InventoryName)
	v.SetItems(manyItems(9))

	assert.ErrorIs(t, v.SetPage(3), ErrPageOutOfRange)
	assert.ErrorIs(t, v.SetPage(0), ErrPageOutOfRange)
	_, info := v.Page()
	assert.Equal(t, 1, info.Page)
}

func TestView_FilterChangeClampsPage(t *testing.T) {
	v := NewView(8, InventoryName).WithCategory(InventoryCategory)
	v.SetItems(manyItems(20))
	require.NoError(t, v.SetPage(3))

	v.SetQuery("special")
	rows, info := v.Page()
	assert.Equal(t, 1, info.Page)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(20), rows[0].ID)

	v.SetQuery("")
	v.SetCategory("Pasta")
	rows, info = v.Page()
	assert.Empty(t, rows)
	assert.True(t, info.Empty)
	assert.Equal(t, 1, info.PageCount)
}

func TestView_RemoveClampsPage(t *testing.T) {
	v := NewView(4, InventoryName)
	v.SetItems(manyItems(5))
	require.NoError(t, v.SetPage(2))

	removed := v.Remove(func(i models.InventoryItem) bool { return i.ID == 5 })
	assert.True(t, removed)

	_, info := v.Page()
	assert.Equal(t, 1, info.Page)
	assert.Equal(t, 4, v.Len())
}

func TestView_MutationsTouchOneRecord(t *testing.T) {
	v := NewView(10, InventoryName)
	v.SetItems([]models.InventoryItem{{ID: 1, Quantity: 10}, {ID: 2, Quantity: 3}, {ID: 1, Quantity: 7}})

	assert.True(t, v.Update(func(i models.InventoryItem) bool { return i.ID == 1 }, func(i *models.InventoryItem) {
		i.Quantity -= 5
	}))
	assert.True(t, v.Remove(func(i models.InventoryItem) bool { return i.ID == 2 }))

	items := v.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 7, items[1].Quantity)

	assert.False(t, v.Replace(func(i models.InventoryItem) bool { return i.ID == 99 }, models.InventoryItem{ID: 99}))
}
