package handlers

import (
	"context"
	"net/http"

	"shelfsmart/internal/common"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/models"
	"shelfsmart/internal/services"

	"github.com/labstack/echo/v4"
)

const screenSuppliers = "suppliers"

// SupplierHandlers serves the suppliers screen.
type SupplierHandlers struct {
	suppliers services.SupplierCoordinator
	loaded    *loaded
}

// NewSupplierHandlers creates a new supplier handlers instance
func NewSupplierHandlers(suppliers services.SupplierCoordinator) *SupplierHandlers {
	return &SupplierHandlers{suppliers: suppliers, loaded: newLoaded()}
}

// SupplierPage is the suppliers screen as rendered for one request.
type SupplierPage struct {
	Suppliers []models.Supplier `json:"suppliers"`
	Page      listview.PageInfo `json:"page"`
	Search    string            `json:"search"`
	Error     string            `json:"error,omitempty"`
}

func (h *SupplierHandlers) ensure(ctx context.Context, refresh bool) error {
	if !h.loaded.needs(screenSuppliers, refresh) {
		return nil
	}
	if err := h.suppliers.Load(ctx); err != nil {
		return err
	}
	h.loaded.mark(screenSuppliers)
	return nil
}

// ListSuppliers returns the visible page. Search runs locally over name,
// email and contact info.
func (h *SupplierHandlers) ListSuppliers(c echo.Context) error {
	ctx := c.Request().Context()
	view := h.suppliers.View()

	var stale error
	if err := h.ensure(ctx, parseBool(c, "refresh")); err != nil {
		if common.IsAuthError(err) || services.IsSuperseded(err) || view.Len() == 0 {
			return httpError(err)
		}
		stale = err
	}

	view.SetQuery(c.QueryParam("search"))
	page, err := parsePage(c)
	if err != nil {
		return err
	}
	if page > 0 {
		if err := view.SetPage(page); err != nil {
			return httpError(err)
		}
	}

	items, info := view.Page()
	resp := SupplierPage{Suppliers: items, Page: info, Search: view.Query()}
	if stale != nil {
		resp.Error = "Failed to load suppliers"
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateSupplier adds a supplier. Admin only.
func (h *SupplierHandlers) CreateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SupplierInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.ensure(ctx, false); err != nil {
		return httpError(err)
	}

	supplier, err := h.suppliers.Create(ctx, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, supplier)
}

// UpdateSupplier edits a supplier. Admin only.
func (h *SupplierHandlers) UpdateSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req models.SupplierInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.ensure(ctx, false); err != nil {
		return httpError(err)
	}

	supplier, err := h.suppliers.Update(ctx, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, supplier)
}

// DeleteSupplier removes a supplier once the request carries confirm=true. Admin only.
func (h *SupplierHandlers) DeleteSupplier(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.ensure(ctx, false); err != nil {
		return httpError(err)
	}

	if err := h.suppliers.Delete(withConfirmation(ctx, parseBool(c, "confirm")), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
