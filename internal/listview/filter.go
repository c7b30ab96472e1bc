// Package listview derives the visible page of a list screen from a raw
// collection, a text query, a category and a page index.
package listview

import (
	"strings"

	"shelfsmart/internal/models"
)

// Field extracts a searchable string from a record.
type Field[T any] func(T) string

// Filter keeps the records where any of fields contains query, ignoring case.
// An empty query keeps everything. Order is preserved.
func Filter[T any](items []T, query string, fields ...Field[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" || len(fields) == 0 {
		return append([]T(nil), items...)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), needle) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// FilterCategory keeps the records whose category equals category exactly.
// The "All Category" sentinel and the empty string pass everything through.
func FilterCategory[T any](items []T, category string, field Field[T]) []T {
	if category == "" || category == models.AllCategories || field == nil {
		return append([]T(nil), items...)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if field(item) == category {
			out = append(out, item)
		}
	}
	return out
}

// Searchable fields of the list screens.
var (
	InventoryName     Field[models.InventoryItem] = func(i models.InventoryItem) string { return i.Name }
	InventoryCategory Field[models.InventoryItem] = func(i models.InventoryItem) string { return i.Category }

	SupplierName    Field[models.Supplier] = func(s models.Supplier) string { return s.Name }
	SupplierEmail   Field[models.Supplier] = func(s models.Supplier) string { return s.Email }
	SupplierContact Field[models.Supplier] = func(s models.Supplier) string { return s.ContactInfo }
)
