package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"shelfsmart/internal/models"
)

func (c *Client) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/inventory"}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SearchInventory runs the server-side search. Empty name and the
// "All Category" sentinel are omitted from the query.
func (c *Client) SearchInventory(ctx context.Context, name, category string) ([]models.InventoryItem, error) {
	query := url.Values{}
	if name = strings.TrimSpace(name); name != "" {
		query.Set("name", name)
	}
	if category != "" && category != models.AllCategories {
		query.Set("category", category)
	}

	var items []models.InventoryItem
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/inventory/search", query: query}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/inventory/low-stock"}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) CreateItem(ctx context.Context, input models.InventoryInput) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := c.do(ctx, request{method: http.MethodPost, endpoint: "/inventory", payload: input}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) UpdateItem(ctx context.Context, id int64, input models.InventoryInput) (*models.InventoryItem, error) {
	var item models.InventoryItem
	endpoint := fmt.Sprintf("/inventory/%d", id)
	if err := c.do(ctx, request{method: http.MethodPut, endpoint: endpoint, payload: input}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, endpoint: fmt.Sprintf("/inventory/%d", id)}, nil)
}

// ConsumeItem records consumption of quantity units of an item.
func (c *Client) ConsumeItem(ctx context.Context, id int64, quantity int) error {
	endpoint := fmt.Sprintf("/inventory/%d/consume", id)
	return c.do(ctx, request{method: http.MethodPost, endpoint: endpoint, payload: models.ConsumeRequest{Quantity: quantity}}, nil)
}
