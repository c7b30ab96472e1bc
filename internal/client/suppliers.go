package client

import (
	"context"
	"fmt"
	"net/http"

	"shelfsmart/internal/models"
)

func (c *Client) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/suppliers"}, &suppliers); err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (c *Client) CreateSupplier(ctx context.Context, input models.SupplierInput) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := c.do(ctx, request{method: http.MethodPost, endpoint: "/suppliers", payload: input}, &supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (c *Client) UpdateSupplier(ctx context.Context, id int64, input models.SupplierInput) (*models.Supplier, error) {
	var supplier models.Supplier
	endpoint := fmt.Sprintf("/suppliers/%d", id)
	if err := c.do(ctx, request{method: http.MethodPut, endpoint: endpoint, payload: input}, &supplier); err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (c *Client) DeleteSupplier(ctx context.Context, id int64) error {
	return c.do(ctx, request{method: http.MethodDelete, endpoint: fmt.Sprintf("/suppliers/%d", id)}, nil)
}
