package models

type Supplier struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ContactInfo string `json:"contactInfo"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// SupplierInput is the payload sent when creating or editing a supplier.
type SupplierInput struct {
	Name        string `json:"name"`
	ContactInfo string `json:"contactInfo"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}
