// Package testutil provides an in-memory fake of the ShelfSmart backend for tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"shelfsmart/internal/common"
	"shelfsmart/internal/models"

	"github.com/labstack/echo/v4"
)

// DefaultToken is accepted by a fresh Backend.
const DefaultToken = "test-token"

// RecordedRequest is one request the backend received.
type RecordedRequest struct {
	Method    string
	Path      string
	Query     string
	RequestID string
	Auth      string
}

// Backend serves the REST endpoints the client uses from fixtures.
type Backend struct {
	Server *httptest.Server

	mu          sync.Mutex
	token       string
	users       map[string]string
	items       []models.InventoryItem
	suppliers   []models.Supplier
	activity    []models.ActivityEntry
	alerts      []models.ExpiryAlert
	reports     map[string]string
	suggestions string
	nextID      int64
	requests    []RecordedRequest
	failures    map[string]int
	gates       map[string]chan struct{}
	bareUpdates bool
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		token:    DefaultToken,
		users:    map[string]string{"admin@shelfsmart.test": "secret"},
		reports:  make(map[string]string),
		failures: make(map[string]int),
		gates:    make(map[string]chan struct{}),
		nextID:   100,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(b.record, b.inject)

	e.POST("/login", b.login)
	e.POST("/user/register", b.register)

	auth := b.requireToken
	e.GET("/inventory", b.listInventory, auth)
	e.GET("/inventory/search", b.searchInventory, auth)
	e.GET("/inventory/low-stock", b.lowStock, auth)
	e.GET("/inventory/suggestions", b.getSuggestions, auth)
	e.POST("/inventory", b.createItem, auth)
	e.PUT("/inventory/:id", b.updateItem, auth)
	e.DELETE("/inventory/:id", b.deleteItem, auth)
	e.POST("/inventory/:id/consume", b.consumeItem, auth)
	e.GET("/suppliers", b.listSuppliers, auth)
	e.POST("/suppliers", b.createSupplier, auth)
	e.PUT("/suppliers/:id", b.updateSupplier, auth)
	e.DELETE("/suppliers/:id", b.deleteSupplier, auth)
	e.GET("/alerts/expiry", b.expiryAlerts, auth)
	e.GET("/activity", b.listActivity, auth)
	e.GET("/reports/:kind", b.report, auth)

	b.Server = httptest.NewServer(e)
	t.Cleanup(b.Server.Close)
	return b
}

// URL is the base URL of the fake backend.
func (b *Backend) URL() string {
	return b.Server.URL
}

// SetToken changes the accepted bearer token. An empty token rejects every call.
func (b *Backend) SetToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

func (b *Backend) SetItems(items ...models.InventoryItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append([]models.InventoryItem(nil), items...)
}

func (b *Backend) Items() []models.InventoryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.InventoryItem(nil), b.items...)
}

func (b *Backend) SetSuppliers(suppliers ...models.Supplier) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suppliers = append([]models.Supplier(nil), suppliers...)
}

func (b *Backend) Suppliers() []models.Supplier {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Supplier(nil), b.suppliers...)
}

func (b *Backend) SetActivity(entries ...models.ActivityEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.activity = append([]models.ActivityEntry(nil), entries...)
}

func (b *Backend) SetAlerts(alerts ...models.ExpiryAlert) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alerts = append([]models.ExpiryAlert(nil), alerts...)
}

// SetReport sets the CSV body served by GET /reports/<kind>.
func (b *Backend) SetReport(kind models.ReportKind, csv string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reports[string(kind)] = csv
}

// SetSuggestions sets the raw JSON served by GET /inventory/suggestions.
func (b *Backend) SetSuggestions(raw string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suggestions = raw
}

// SetBareUpdates makes PUT /inventory/:id echo only the supplier id.
func (b *Backend) SetBareUpdates(bare bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bareUpdates = bare
}

// FailNext makes the next request to method and path answer with status.
func (b *Backend) FailNext(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = status
}

// Hold blocks requests to method and path until the returned release is called.
func (b *Backend) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	b.mu.Lock()
	b.gates[method+" "+path] = ch
	b.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.gates, method+" "+path)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Requests returns every request received so far.
func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// Calls counts the requests received for method and path.
func (b *Backend) Calls(method, path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// WaitForCalls polls until at least n requests for method and path arrived.
func (b *Backend) WaitForCalls(method, path string, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if b.Calls(method, path) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return b.Calls(method, path) >= n
}

func (b *Backend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:    req.Method,
			Path:      req.URL.Path,
			Query:     req.URL.RawQuery,
			RequestID: req.Header.Get(common.RequestIDHeader),
			Auth:      req.Header.Get("Authorization"),
		})
		b.mu.Unlock()
		return next(c)
	}
}

// inject applies Hold gates and FailNext failures.
func (b *Backend) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Method + " " + c.Request().URL.Path
		b.mu.Lock()
		gate := b.gates[key]
		status, fail := b.failures[key]
		if fail {
			delete(b.failures, key)
		}
		b.mu.Unlock()

		if gate != nil {
			select {
			case <-gate:
			case <-c.Request().Context().Done():
				return nil
			}
		}
		if fail {
			return c.JSON(status, map[string]string{"message": http.StatusText(status)})
		}
		return next(c)
	}
}

func (b *Backend) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		b.mu.Lock()
		token := b.token
		b.mu.Unlock()
		if token == "" || c.Request().Header.Get("Authorization") != "Bearer "+token {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
		}
		return next(c)
	}
}

func (b *Backend) login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if pw, ok := b.users[req.Email]; !ok || pw != req.Password {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}
	if b.token == "" {
		b.token = DefaultToken
	}
	return c.JSON(http.StatusOK, models.LoginResponse{Token: b.token})
}

func (b *Backend) register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[req.Email]; exists {
		return c.JSON(http.StatusConflict, map[string]string{"message": "Email already registered"})
	}
	b.users[req.Email] = req.Password
	return c.JSON(http.StatusCreated, map[string]string{"message": "registered"})
}

func (b *Backend) listInventory(c echo.Context) error {
	return c.JSON(http.StatusOK, b.Items())
}

func (b *Backend) searchInventory(c echo.Context) error {
	name := strings.ToLower(c.QueryParam("name"))
	category := c.QueryParam("category")
	out := []models.InventoryItem{}
	for _, item := range b.Items() {
		if name != "" && !strings.Contains(strings.ToLower(item.Name), name) {
			continue
		}
		if category != "" && item.Category != category {
			continue
		}
		out = append(out, item)
	}
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) lowStock(c echo.Context) error {
	out := []models.InventoryItem{}
	for _, item := range b.Items() {
		if item.IsLowStock() {
			out = append(out, item)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (b *Backend) getSuggestions(c echo.Context) error {
	b.mu.Lock()
	raw := b.suggestions
	b.mu.Unlock()
	if raw == "" {
		raw = "{}"
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(raw))
}

func (b *Backend) supplierLocked(id *int64) *models.Supplier {
	if id == nil {
		return nil
	}
	for i := range b.suppliers {
		if b.suppliers[i].ID == *id {
			s := b.suppliers[i]
			return &s
		}
	}
	return nil
}

func (b *Backend) createItem(c echo.Context) error {
	var input models.InventoryInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	item := models.InventoryItem{
		ID:         b.nextID,
		Name:       input.Name,
		Quantity:   input.Quantity,
		Threshold:  input.Threshold,
		ExpiryDate: input.ExpiryDate,
		Category:   input.Category,
		SupplierID: input.SupplierID,
		Supplier:   b.supplierLocked(input.SupplierID),
	}
	b.items = append(b.items, item)
	return c.JSON(http.StatusCreated, item)
}

func (b *Backend) updateItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid id"})
	}
	var input models.InventoryInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID != id {
			continue
		}
		item := models.InventoryItem{
			ID:         id,
			Name:       input.Name,
			Quantity:   input.Quantity,
			Threshold:  input.Threshold,
			ExpiryDate: input.ExpiryDate,
			Category:   input.Category,
			SupplierID: input.SupplierID,
			Supplier:   b.supplierLocked(input.SupplierID),
		}
		b.items[i] = item
		if b.bareUpdates {
			item.Supplier = nil
		}
		return c.JSON(http.StatusOK, item)
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "item not found"})
}

func (b *Backend) deleteItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid id"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "item not found"})
}

func (b *Backend) consumeItem(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid id"})
	}
	var req models.ConsumeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID != id {
			continue
		}
		if req.Quantity <= 0 || req.Quantity > b.items[i].Quantity {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid quantity"})
		}
		b.items[i].Quantity -= req.Quantity
		return c.JSON(http.StatusOK, map[string]string{"message": "consumed"})
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "item not found"})
}

func (b *Backend) listSuppliers(c echo.Context) error {
	return c.JSON(http.StatusOK, b.Suppliers())
}

func (b *Backend) createSupplier(c echo.Context) error {
	var input models.SupplierInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	s := models.Supplier{ID: b.nextID, Name: input.Name, ContactInfo: input.ContactInfo, Email: input.Email, Address: input.Address}
	b.suppliers = append(b.suppliers, s)
	return c.JSON(http.StatusCreated, s)
}

func (b *Backend) updateSupplier(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid id"})
	}
	var input models.SupplierInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid request"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.suppliers {
		if b.suppliers[i].ID == id {
			b.suppliers[i] = models.Supplier{ID: id, Name: input.Name, ContactInfo: input.ContactInfo, Email: input.Email, Address: input.Address}
			return c.JSON(http.StatusOK, b.suppliers[i])
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "supplier not found"})
}

func (b *Backend) deleteSupplier(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid id"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.suppliers {
		if b.suppliers[i].ID == id {
			b.suppliers = append(b.suppliers[:i], b.suppliers[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "supplier not found"})
}

func (b *Backend) expiryAlerts(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(http.StatusOK, append([]models.ExpiryAlert{}, b.alerts...))
}

func (b *Backend) listActivity(c echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return c.JSON(http.StatusOK, append([]models.ActivityEntry{}, b.activity...))
}

func (b *Backend) report(c echo.Context) error {
	kind := c.Param("kind")
	b.mu.Lock()
	body, ok := b.reports[kind]
	b.mu.Unlock()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"message": fmt.Sprintf("no %s report", kind)})
	}
	return c.Blob(http.StatusOK, "text/csv", []byte(body))
}
