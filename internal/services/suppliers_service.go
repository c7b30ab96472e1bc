package services

import (
	"context"
	"fmt"
	"strings"

	"shelfsmart/internal/common"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/models"
	"shelfsmart/internal/notify"

	"go.uber.org/zap"
)

// SupplierCoordinator owns the suppliers screen's collection. Search is
// client-side over name, email and contact info.
type SupplierCoordinator interface {
	Load(ctx context.Context) error
	Create(ctx context.Context, input models.SupplierInput) (*models.Supplier, error)
	Update(ctx context.Context, id int64, input models.SupplierInput) (*models.Supplier, error)
	Delete(ctx context.Context, id int64) error

	View() *listview.View[models.Supplier]
	LastError() error
	Busy(action string) bool
}

type supplierCoordinator struct {
	*coordinator
	api       SupplierAPI
	confirmer Confirmer
	view      *listview.View[models.Supplier]
	latest    listview.Latest
}

func NewSupplierCoordinator(api SupplierAPI, session SessionState, confirmer Confirmer, notifier notify.Notifier, logger *zap.Logger, pageSize int) SupplierCoordinator {
	return &supplierCoordinator{
		coordinator: newCoordinator(session, notifier, logger),
		api:         api,
		confirmer:   confirmer,
		view:        listview.NewView(pageSize, listview.SupplierName, listview.SupplierEmail, listview.SupplierContact),
	}
}

func (s *supplierCoordinator) View() *listview.View[models.Supplier] {
	return s.view
}

func (s *supplierCoordinator) Load(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}

	reqCtx, epoch := s.latest.Begin(ctx)
	suppliers, err := s.api.ListSuppliers(reqCtx)
	applied := s.latest.Apply(epoch, func() {
		if err == nil {
			s.view.SetItems(suppliers)
			s.setLastError(nil)
		}
	})
	if !applied {
		return listview.ErrSuperseded
	}
	if err != nil {
		return s.fail(ctx, err, notify.KindRead, "Failed to load suppliers")
	}
	return nil
}

// ValidateSupplierInput checks the fields required before a supplier is sent.
func ValidateSupplierInput(input models.SupplierInput) error {
	return common.ValidateRequiredString(input.Name, "name")
}

func (s *supplierCoordinator) Create(ctx context.Context, input models.SupplierInput) (*models.Supplier, error) {
	done, err := s.start(ActionAdd)
	if err != nil {
		return nil, err
	}
	defer done()

	input.Name = strings.TrimSpace(input.Name)
	if err := ValidateSupplierInput(input); err != nil {
		return nil, s.fail(ctx, err, notify.KindValidation, "")
	}

	created, err := s.api.CreateSupplier(ctx, input)
	if err != nil {
		return nil, s.fail(ctx, err, notify.KindWrite, "Failed to add supplier")
	}
	s.view.Append(*created)

	notify.Success(s.notifier, "Supplier added successfully")
	return created, nil
}

// Update replaces the local record with the server's response.
func (s *supplierCoordinator) Update(ctx context.Context, id int64, input models.SupplierInput) (*models.Supplier, error) {
	done, err := s.start(ActionEdit)
	if err != nil {
		return nil, err
	}
	defer done()

	input.Name = strings.TrimSpace(input.Name)
	if err := ValidateSupplierInput(input); err != nil {
		return nil, s.fail(ctx, err, notify.KindValidation, "")
	}

	updated, err := s.api.UpdateSupplier(ctx, id, input)
	if err != nil {
		return nil, s.fail(ctx, err, notify.KindWrite, "Failed to update supplier")
	}
	if updated.ID == 0 {
		updated.ID = id
	}
	if !s.view.Replace(bySupplierID(id), *updated) {
		s.view.Append(*updated)
	}

	notify.Success(s.notifier, "Supplier updated successfully")
	return updated, nil
}

func (s *supplierCoordinator) Delete(ctx context.Context, id int64) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	supplier, ok := s.view.Find(bySupplierID(id))
	if !ok {
		return s.fail(ctx, fmt.Errorf("supplier %d: %w", id, common.ErrNotFound), notify.KindWrite, "Failed to delete supplier")
	}

	confirmed, err := confirm(ctx, s.confirmer, fmt.Sprintf("Are you sure you want to delete %q?", supplier.Name))
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

	if err := s.api.DeleteSupplier(ctx, id); err != nil {
		return s.fail(ctx, err, notify.KindWrite, "Failed to delete supplier")
	}
	s.view.Remove(bySupplierID(id))

	notify.Success(s.notifier, "Supplier deleted successfully")
	return nil
}

func bySupplierID(id int64) func(models.Supplier) bool {
	return func(s models.Supplier) bool { return s.ID == id }
}
