// Package client talks to the ShelfSmart REST backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shelfsmart/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Credentials supplies the bearer token attached to authenticated requests.
type Credentials interface {
	Token() string
}

// Client handles REST communication with the backend. Every request is
// bounded by the configured timeout.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials Credentials
	logger      *zap.Logger
}

// New creates a backend client
func New(baseURL string, timeout time.Duration, credentials Credentials, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: timeout},
		credentials: credentials,
		logger:      logger,
	}
}

// BaseURL is the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method   string
	endpoint string
	query    url.Values
	payload  interface{}
	public   bool
}

// makeRequest performs an HTTP request to the backend
func (c *Client) makeRequest(ctx context.Context, r request) (*http.Response, error) {
	endpoint := c.baseURL + r.endpoint
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.payload != nil {
		jsonData, err := json.Marshal(r.payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	var token string
	if !r.public {
		if c.credentials != nil {
			token = c.credentials.Token()
		}
		if token == "" {
			return nil, common.ErrNotAuthenticated
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID, ok := common.GetRequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}
	req.Header.Set(common.RequestIDHeader, requestID)
	if r.payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("Making API request",
		zap.String("method", r.method),
		zap.String("endpoint", r.endpoint),
		zap.String("request_id", requestID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	return resp, nil
}

// do performs r and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	data, err := c.roundTrip(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.endpoint, err)
	}
	return nil
}

// roundTrip performs r and returns the raw body of a 2xx response.
func (c *Client) roundTrip(ctx context.Context, r request) ([]byte, error) {
	resp, err := c.makeRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &common.APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
			Body:       string(data),
		}
		c.logger.Warn("API error",
			zap.String("method", r.method),
			zap.String("endpoint", r.endpoint),
			zap.Int("status", resp.StatusCode))
		if apiErr.Unauthorized() && !r.public {
			return nil, fmt.Errorf("%w: %w", common.ErrSessionExpired, apiErr)
		}
		return nil, apiErr
	}
	return data, nil
}

// errorMessage pulls a human readable message out of an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// IsTimeout reports whether err came from the request deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Ping checks that the backend answers HTTP at all. Any status counts as
// reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.makeRequest(ctx, request{method: http.MethodGet, endpoint: "/", public: true})
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}
