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

const screenInventory = "inventory"

// InventoryHandlers serves the inventory screen.
type InventoryHandlers struct {
	inventory       services.InventoryCoordinator
	loaded          *loaded
	pageSize        int
	compactPageSize int
}

// NewInventoryHandlers creates a new inventory handlers instance
func NewInventoryHandlers(inventory services.InventoryCoordinator, pageSize, compactPageSize int) *InventoryHandlers {
	return &InventoryHandlers{
		inventory:       inventory,
		loaded:          newLoaded(),
		pageSize:        pageSize,
		compactPageSize: compactPageSize,
	}
}

// InventoryPage is the inventory screen as rendered for one request.
type InventoryPage struct {
	Items      []models.InventoryItem `json:"items"`
	Page       listview.PageInfo      `json:"page"`
	Search     string                 `json:"search"`
	Category   string                 `json:"category"`
	Categories []string               `json:"categories"`
	Error      string                 `json:"error,omitempty"`
}

func (h *InventoryHandlers) render(stale error) InventoryPage {
	view := h.inventory.View()
	items, info := view.Page()
	page := InventoryPage{
		Items:      items,
		Page:       info,
		Search:     view.Query(),
		Category:   view.Category(),
		Categories: append([]string{models.AllCategories}, models.Categories...),
	}
	if page.Category == "" {
		page.Category = models.AllCategories
	}
	if stale != nil {
		page.Error = "Failed to load inventory"
	}
	return page
}

// ensure loads the collection unless it is already present.
func (h *InventoryHandlers) ensure(ctx context.Context, refresh bool) error {
	if !h.loaded.needs(screenInventory, refresh) {
		return nil
	}
	if err := h.inventory.Load(ctx); err != nil {
		return err
	}
	h.loaded.mark(screenInventory)
	return nil
}

// ListInventory returns the visible page of the inventory. A changed search
// or category goes to the backend search; paging only re-slices.
func (h *InventoryHandlers) ListInventory(c echo.Context) error {
	ctx := c.Request().Context()
	view := h.inventory.View()

	if c.QueryParams().Has("compact") {
		if parseBool(c, "compact") {
			view.SetPageSize(h.compactPageSize)
		} else {
			view.SetPageSize(h.pageSize)
		}
	}

	search := c.QueryParam("search")
	category := c.QueryParam("category")
	if category == "" {
		category = models.AllCategories
	}
	current := view.Category()
	if current == "" {
		current = models.AllCategories
	}

	var err error
	if search != view.Query() || category != current {
		err = h.inventory.Search(ctx, search, category)
		if err == nil {
			h.loaded.mark(screenInventory)
		}
	} else {
		err = h.ensure(ctx, parseBool(c, "refresh"))
	}

	var stale error
	if err != nil {
		if common.IsAuthError(err) || services.IsSuperseded(err) || view.Len() == 0 {
			return httpError(err)
		}
		stale = err
	}

	page, perr := parsePage(c)
	if perr != nil {
		return perr
	}
	if page > 0 {
		if err := view.SetPage(page); err != nil {
			return httpError(err)
		}
	}
	return c.JSON(http.StatusOK, h.render(stale))
}

// CreateItem adds an item. Admin only.
func (h *InventoryHandlers) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.InventoryInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.ensure(ctx, false); err != nil {
		return httpError(err)
	}

	item, err := h.inventory.Create(ctx, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem edits an item. Admin only.
func (h *InventoryHandlers) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req models.InventoryInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.ensure(ctx, false); err != nil {
		return httpError(err)
	}

	item, err := h.inventory.Update(ctx, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem removes an item once the request carries confirm=true. Admin only.
func (h *InventoryHandlers) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.ensure(ctx, false); err != nil {
		return httpError(err)
	}

	ctx = withConfirmation(ctx, parseBool(c, "confirm"))
	if err := h.inventory.Delete(ctx, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ConsumeItem takes quantity out of an item and returns the updated item.
func (h *InventoryHandlers) ConsumeItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req models.ConsumeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := h.ensure(ctx, false); err != nil {
		return httpError(err)
	}

	if err := h.inventory.Consume(ctx, id, req.Quantity); err != nil {
		return httpError(err)
	}
	item, _ := h.inventory.View().Find(func(i models.InventoryItem) bool { return i.ID == id })
	return c.JSON(http.StatusOK, item)
}
