package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"shelfsmart/internal/common"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/reports"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"timeout", fmt.Errorf("failed to execute request: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, "Backend request timed out"},
		{"credentials", common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"validation", common.NewValidationError("", "Quantity must be positive"), http.StatusBadRequest, "Quantity must be positive"},
		{"superseded", listview.ErrSuperseded, http.StatusConflict, "Superseded by a newer request"},
		{"no data", fmt.Errorf("export: %w", reports.ErrNoData), http.StatusNotFound, "No data available to download"},
		{"backend", &common.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}, http.StatusBadGateway, "boom"},
		{"other", errors.New("connection refused"), http.StatusBadGateway, "Backend request failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var he *echo.HTTPError
			require.True(t, errors.As(httpError(tc.err), &he))
			assert.Equal(t, tc.code, he.Code)
			assert.Equal(t, tc.msg, he.Message)
		})
	}
	assert.NoError(t, httpError(nil))
}
