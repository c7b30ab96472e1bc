package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"shelfsmart/internal/models"
)

func (c *Client) ExpiryAlerts(ctx context.Context) ([]models.ExpiryAlert, error) {
	var alerts []models.ExpiryAlert
	if err := c.do(ctx, request{method: http.MethodGet, endpoint: "/alerts/expiry"}, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// Suggestions fetches the AI restocking suggestions.
func (c *Client) Suggestions(ctx context.Context) (models.Suggestions, error) {
	data, err := c.roundTrip(ctx, request{method: http.MethodGet, endpoint: "/inventory/suggestions"})
	if err != nil {
		return models.Suggestions{}, err
	}
	return ParseSuggestions(data)
}

// ParseSuggestions decodes a suggestions payload. A payload delivered as a
// JSON string holding the object is unwrapped first.
func ParseSuggestions(data []byte) (models.Suggestions, error) {
	var s models.Suggestions
	var wrapped string
	if err := json.Unmarshal(data, &wrapped); err == nil {
		data = []byte(wrapped)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Suggestions{}, fmt.Errorf("failed to decode suggestions: %w", err)
	}
	return s, nil
}
