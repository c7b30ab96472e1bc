package models

// AllCategories is the category filter value that disables category filtering.
const AllCategories = "All Category"

// Categories lists the category options offered by the inventory filter.
var Categories = []string{
	"Grains",
	"Pasta",
	"Canned Goods",
	"Oils",
	"Legumes",
	"Sweeteners",
	"Baking",
}

type InventoryItem struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	Threshold    int       `json:"threshold"`
	ExpiryDate   Date      `json:"expiryDate"`
	Category     string    `json:"category"`
	SupplierID   *int64    `json:"supplierId,omitempty"`
	Supplier     *Supplier `json:"supplier,omitempty"`
	SupplierInfo string    `json:"supplierInfo,omitempty"`
}

// IsLowStock reports whether the item is at or below its restock threshold.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.Threshold
}

// SupplierName returns the best available supplier label for display.
func (i *InventoryItem) SupplierName() string {
	if i.Supplier != nil && i.Supplier.Name != "" {
		return i.Supplier.Name
	}
	return i.SupplierInfo
}

// ResolvedSupplierID returns the referenced supplier id from either the id field or the embedded object.
func (i *InventoryItem) ResolvedSupplierID() (int64, bool) {
	if i.SupplierID != nil {
		return *i.SupplierID, true
	}
	if i.Supplier != nil && i.Supplier.ID != 0 {
		return i.Supplier.ID, true
	}
	return 0, false
}

// InventoryInput is the payload sent when creating or editing an item.
type InventoryInput struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Threshold  int    `json:"threshold"`
	ExpiryDate Date   `json:"expiryDate"`
	Category   string `json:"category"`
	SupplierID *int64 `json:"supplierId"`
}

// ConsumeRequest is the body of POST /inventory/:id/consume.
type ConsumeRequest struct {
	Quantity int `json:"quantity"`
}

// ExpiryAlert is one entry returned by GET /alerts/expiry.
type ExpiryAlert struct {
	ItemID     int64  `json:"itemId"`
	Name       string `json:"name"`
	ExpiryDate Date   `json:"expiryDate"`
	DaysLeft   int    `json:"daysLeft"`
}
