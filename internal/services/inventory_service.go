package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shelfsmart/internal/common"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/models"
	"shelfsmart/internal/notify"

	"go.uber.org/zap"
)

// InventoryCoordinator owns the inventory screen's collection and performs
// its mutations against the backend.
type InventoryCoordinator interface {
	Load(ctx context.Context) error
	Search(ctx context.Context, query, category string) error
	Create(ctx context.Context, input models.InventoryInput) (*models.InventoryItem, error)
	Update(ctx context.Context, id int64, input models.InventoryInput) (*models.InventoryItem, error)
	Delete(ctx context.Context, id int64) error
	Consume(ctx context.Context, id int64, quantity int) error
	CanConsume(id int64, quantity int) bool

	View() *listview.View[models.InventoryItem]
	LastError() error
	Busy(action string) bool
}

type inventoryCoordinator struct {
	*coordinator
	api       InventoryAPI
	confirmer Confirmer
	view      *listview.View[models.InventoryItem]
	latest    listview.Latest
}

// NewInventoryCoordinator creates the inventory coordinator with the given page size.
func NewInventoryCoordinator(api InventoryAPI, session SessionState, confirmer Confirmer, notifier notify.Notifier, logger *zap.Logger, pageSize int) InventoryCoordinator {
	return &inventoryCoordinator{
		coordinator: newCoordinator(session, notifier, logger),
		api:         api,
		confirmer:   confirmer,
		view:        listview.NewView(pageSize, listview.InventoryName).WithCategory(listview.InventoryCategory),
	}
}

func (s *inventoryCoordinator) View() *listview.View[models.InventoryItem] {
	return s.view
}

// Load replaces the collection with the full inventory.
func (s *inventoryCoordinator) Load(ctx context.Context) error {
	return s.fetch(ctx, s.view.Query(), s.view.Category(), false)
}

// Search runs the server-side search for query and category. Only the
// response to the most recent call is applied.
func (s *inventoryCoordinator) Search(ctx context.Context, query, category string) error {
	return s.fetch(ctx, query, category, true)
}

func (s *inventoryCoordinator) fetch(ctx context.Context, query, category string, search bool) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	reqCtx, epoch := s.latest.Begin(ctx)
	var (
		items []models.InventoryItem
		err   error
	)
	if search {
		items, err = s.api.SearchInventory(reqCtx, query, category)
	} else {
		items, err = s.api.ListInventory(reqCtx)
	}

	applied := s.latest.Apply(epoch, func() {
		if err != nil {
			return
		}
		s.view.SetItems(items)
		if search {
			s.view.SetQuery(query)
			s.view.SetCategory(category)
		}
		s.setLastError(nil)
	})
	if !applied {
		return listview.ErrSuperseded
	}
	if err != nil {
		return s.fail(ctx, err, notify.KindRead, "Failed to load inventory")
	}
	return nil
}

// ValidateInventoryInput checks the fields required before an item is sent.
func ValidateInventoryInput(input models.InventoryInput) error {
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return err
	}
	if err := common.ValidateNonNegative(input.Quantity, "quantity"); err != nil {
		return err
	}
	if err := common.ValidateNonNegative(input.Threshold, "threshold"); err != nil {
		return err
	}
	if input.ExpiryDate.IsZero() {
		return common.NewValidationError("expiryDate", "expiryDate is required")
	}
	if err := common.ValidateRequiredString(input.Category, "category"); err != nil {
		return err
	}
	if input.SupplierID == nil || *input.SupplierID == 0 {
		return common.NewValidationError("supplierId", "a supplier must be selected")
	}
	return nil
}

func (s *inventoryCoordinator) Create(ctx context.Context, input models.InventoryInput) (*models.InventoryItem, error) {
	done, err := s.start(ActionAdd)
	if err != nil {
		return nil, err
	}
	defer done()

	input.Name = strings.TrimSpace(input.Name)
	if err := ValidateInventoryInput(input); err != nil {
		return nil, s.fail(ctx, err, notify.KindValidation, "")
	}

	created, err := s.api.CreateItem(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, err, notify.KindWrite, "Failed to add item")
	}
	item := s.reconcile(ctx, *created, input.SupplierID)
	s.view.Append(item)

	notify.Success(s.notifier, "Item added successfully")
	return &item, nil
}

func (s *inventoryCoordinator) Update(ctx context.Context, id int64, input models.InventoryInput) (*models.InventoryItem, error) {
	done, err := s.start(ActionEdit)
	if err != nil {
		return nil, err
	}
	defer done()

	input.Name = strings.TrimSpace(input.Name)
	if err := ValidateInventoryInput(input); err != nil {
		return nil, s.fail(ctx, err, notify.KindValidation, "")
	}

	updated, err := s.api.UpdateItem(ctx, id, input)
	if err != nil {
		return nil, s.fail(ctx, err, notify.KindWrite, "Failed to update item")
	}
	if updated.ID == 0 {
		updated.ID = id
	}
	item := s.reconcile(ctx, *updated, input.SupplierID)
	if !s.view.Replace(byItemID(id), item) {
		s.view.Append(item)
	}

	notify.Success(s.notifier, "Item updated successfully")
	return &item, nil
}

// reconcile fills in the supplier display object when the server echoed only
// the reference. The supplier list is fetched fresh rather than taken from a
// cache that may be stale.
func (s *inventoryCoordinator) reconcile(ctx context.Context, item models.InventoryItem, requested *int64) models.InventoryItem {
	if item.Supplier != nil {
		return item
	}
	supplierID, ok := item.ResolvedSupplierID()
	if !ok {
		if requested == nil {
			return item
		}
		supplierID = *requested
		item.SupplierID = requested
	}

	suppliers, err := s.api.ListSuppliers(ctx)
	if err != nil {
		s.logger.Warn("Failed to resolve supplier for item",
			zap.Int64("item_id", item.ID), zap.Int64("supplier_id", supplierID), zap.Error(err))
		return item
	}
	for i := range suppliers {
		if suppliers[i].ID == supplierID {
			supplier := suppliers[i]
			item.Supplier = &supplier
			break
		}
	}
	return item
}

func (s *inventoryCoordinator) Delete(ctx context.Context, id int64) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	item, ok := s.view.Find(byItemID(id))
	if !ok {
		return s.fail(ctx, fmt.Errorf("inventory item %d: %w", id, common.ErrNotFound), notify.KindWrite, "Failed to delete item")
	}

	confirmed, err := confirm(ctx, s.confirmer, fmt.Sprintf("Are you sure you want to delete %q?", item.Name))
	if err != nil {
		return err
	}
	if !confirmed {
		return common.ErrDeleteCancelled
	}

	done, err := s.start(ActionDelete)
	if err != nil {
		return err
	}
	defer done()

	if err := s.api.DeleteItem(ctx, id); err != nil {
		return s.fail(ctx, err, notify.KindWrite, "Failed to delete item")
	}
	s.view.Remove(byItemID(id))

	notify.Success(s.notifier, "Item deleted successfully")
	return nil
}

// CanConsume reports whether quantity may be consumed from item id.
func (s *inventoryCoordinator) CanConsume(id int64, quantity int) bool {
	item, ok := s.view.Find(byItemID(id))
	return ok && validConsume(item, quantity) == nil
}

func validConsume(item models.InventoryItem, quantity int) error {
	if quantity <= 0 || quantity > item.Quantity {
		return common.NewValidationError("quantity",
			fmt.Sprintf("quantity to consume must be between 1 and %d", item.Quantity))
	}
	return nil
}

// Consume decrements an item by quantity. The item stays listed at zero.
func (s *inventoryCoordinator) Consume(ctx context.Context, id int64, quantity int) error {
	done, err := s.start(ActionConsume)
	if err != nil {
		return err
	}
	defer done()

	item, ok := s.view.Find(byItemID(id))
	if !ok {
		return s.fail(ctx, fmt.Errorf("inventory item %d: %w", id, common.ErrNotFound), notify.KindWrite, "Failed to consume item")
	}
	if err := validConsume(item, quantity); err != nil {
		return s.fail(ctx, err, notify.KindValidation, "")
	}

	if err := s.api.ConsumeItem(ctx, id, quantity); err != nil {
		return s.fail(ctx, err, notify.KindWrite, "Failed to consume item")
	}
	s.view.Update(byItemID(id), func(i *models.InventoryItem) {
		i.Quantity -= quantity
		if i.Quantity < 0 {
			i.Quantity = 0
		}
	})

	notify.Success(s.notifier, fmt.Sprintf("Consumed %d of %s", quantity, item.Name))
	return nil
}

func byItemID(id int64) func(models.InventoryItem) bool {
	return func(i models.InventoryItem) bool { return i.ID == id }
}

// IsSuperseded reports whether err only means a newer request replaced this one.
func IsSuperseded(err error) bool {
	return errors.Is(err, listview.ErrSuperseded)
}
