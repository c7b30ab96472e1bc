package client

import (
	"context"
	"net/http"

	"shelfsmart/internal/models"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, request{method: http.MethodPost, endpoint: "/login", payload: req, public: true}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, request{method: http.MethodPost, endpoint: "/user/register", payload: req, public: true}, nil)
}
