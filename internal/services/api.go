package services

import (
	"context"
	"fmt"

	"shelfsmart/internal/models"
)

// InventoryAPI is the part of the backend client the inventory screen uses.
type InventoryAPI interface {
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
	SearchInventory(ctx context.Context, name, category string) ([]models.InventoryItem, error)
	CreateItem(ctx context.Context, input models.InventoryInput) (*models.InventoryItem, error)
	UpdateItem(ctx context.Context, id int64, input models.InventoryInput) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id int64) error
	ConsumeItem(ctx context.Context, id int64, quantity int) error
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
}

// SupplierAPI is the part of the backend client the suppliers screen uses.
type SupplierAPI interface {
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreateSupplier(ctx context.Context, input models.SupplierInput) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, input models.SupplierInput) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id int64) error
}

// AuthAPI covers login and registration.
type AuthAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) error
}

// ActivityAPI reads the backend audit trail.
type ActivityAPI interface {
	Activity(ctx context.Context) ([]models.ActivityEntry, error)
}

// AlertsAPI reads the counts behind the notification bell and the suggestions panel.
type AlertsAPI interface {
	LowStock(ctx context.Context) ([]models.InventoryItem, error)
	ExpiryAlerts(ctx context.Context) ([]models.ExpiryAlert, error)
	Suggestions(ctx context.Context) (models.Suggestions, error)
}

// SessionState is the credential context a coordinator checks and clears.
type SessionState interface {
	Authenticated() bool
	Clear(ctx context.Context) error
}

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Confirmed is a Confirmer with a fixed answer.
type Confirmed bool

func (c Confirmed) Confirm(context.Context, string) (bool, error) {
	return bool(c), nil
}

// confirm asks confirmer; a missing confirmer declines.
func confirm(ctx context.Context, confirmer Confirmer, prompt string) (bool, error) {
	if confirmer == nil {
		return false, nil
	}
	ok, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return ok, nil
}
