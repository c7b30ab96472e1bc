package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"shelfsmart/internal/common"
	"shelfsmart/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSession struct {
	token   string
	profile models.UserProfile
}

func (f fakeSession) Authenticated() bool         { return f.token != "" }
func (f fakeSession) Profile() models.UserProfile { return f.profile }

func serve(e *echo.Echo, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRequestID_AssignsAndPropagates(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	var seen string
	e.GET("/", func(c echo.Context) error {
		seen, _ = common.GetRequestIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	rec := serve(e, http.MethodGet, "/", nil)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(common.RequestIDHeader))

	rec = serve(e, http.MethodGet, "/", http.Header{common.RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(common.RequestIDHeader))
}

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	e := echo.New()
	e.Use(RequestID(), RequestLogger(zap.New(core)), Version("1.2.3"))
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/missing", func(c echo.Context) error { return echo.NewHTTPError(http.StatusNotFound, "nope") })
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	rec := serve(e, http.MethodGet, "/ok", nil)
	assert.Equal(t, "1.2.3", rec.Header().Get(VersionHeader))
	serve(e, http.MethodGet, "/missing", nil)
	rec = serve(e, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/boom", entries[2].ContextMap()["path"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
}

func TestRequireSessionAndRole(t *testing.T) {
	cases := []struct {
		name    string
		session fakeSession
		want    int
	}{
		{"anonymous", fakeSession{}, http.StatusUnauthorized},
		{"user", fakeSession{token: "t", profile: models.UserProfile{Role: models.RoleUser}}, http.StatusForbidden},
		{"admin", fakeSession{token: "t", profile: models.UserProfile{Role: models.RoleAdmin}}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/admin", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RequireRole(tc.session, models.RoleAdmin))
			e.GET("/any", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }, RequireSession(tc.session))

			assert.Equal(t, tc.want, serve(e, http.MethodGet, "/admin", nil).Code)
			wantAny := http.StatusNoContent
			if !tc.session.Authenticated() {
				wantAny = http.StatusUnauthorized
			}
			assert.Equal(t, wantAny, serve(e, http.MethodGet, "/any", nil).Code)
		})
	}
}
