package handlers

import (
	"shelfsmart/internal/analytics"
	"shelfsmart/internal/middleware"
	"shelfsmart/internal/models"
	"shelfsmart/internal/services"
	"shelfsmart/internal/websocket"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Deps is everything the view server is built from.
type Deps struct {
	Session       middleware.SessionState
	Auth          services.AuthService
	Inventory     services.InventoryCoordinator
	Suppliers     services.SupplierCoordinator
	Activity      services.ActivityService
	Reports       services.ReportService
	Notifications services.NotificationService
	Hub           *websocket.Hub
	Deriver       *analytics.Deriver
	Checks        map[string]Checker
	Jobs          JobLister
	Logger        *zap.Logger
	Version       string

	InventoryPageSize        int
	InventoryCompactPageSize int
}

// NewServer builds the echo app serving the dashboard views.
func NewServer(deps Deps) *echo.Echo {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	inventoryHandlers := NewInventoryHandlers(deps.Inventory, deps.InventoryPageSize, deps.InventoryCompactPageSize)
	supplierHandlers := NewSupplierHandlers(deps.Suppliers)
	activityHandlers := NewActivityHandlers(deps.Activity)
	reportHandlers := NewReportHandlers(deps.Reports, inventoryHandlers, deps.Notifications, deps.Deriver)
	notificationHandlers := NewNotificationHandlers(deps.Notifications, deps.Hub)
	healthHandlers := NewHealthHandlers(deps.Checks, deps.Jobs, deps.Version)
	authHandlers := NewAuthHandlers(deps.Auth, deps.Session, func() {
		inventoryHandlers.loaded.reset()
		supplierHandlers.loaded.reset()
		activityHandlers.loaded.reset()
		reportHandlers.loaded.reset()
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(middleware.Version(deps.Version))

	// Health endpoints (no session required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	views := e.Group("/views")

	// Authentication routes
	views.POST("/login", authHandlers.Login)
	views.POST("/register", authHandlers.Register)
	views.POST("/logout", authHandlers.Logout)
	views.GET("/session", authHandlers.Session)

	protected := views.Group("", middleware.RequireSession(deps.Session))
	admin := middleware.RequireRole(deps.Session, models.RoleAdmin)

	protected.GET("/inventory", inventoryHandlers.ListInventory)
	protected.POST("/inventory", inventoryHandlers.CreateItem, admin)
	protected.PUT("/inventory/:id", inventoryHandlers.UpdateItem, admin)
	protected.DELETE("/inventory/:id", inventoryHandlers.DeleteItem, admin)
	protected.POST("/inventory/:id/consume", inventoryHandlers.ConsumeItem)

	protected.GET("/suppliers", supplierHandlers.ListSuppliers)
	protected.POST("/suppliers", supplierHandlers.CreateSupplier, admin)
	protected.PUT("/suppliers/:id", supplierHandlers.UpdateSupplier, admin)
	protected.DELETE("/suppliers/:id", supplierHandlers.DeleteSupplier, admin)

	protected.GET("/activity", activityHandlers.ListActivity)

	protected.GET("/reports", reportHandlers.ListReports)
	protected.GET("/reports/charts", reportHandlers.GetCharts)
	protected.GET("/reports/:kind", reportHandlers.GetReport)
	protected.GET("/reports/:kind/export", reportHandlers.ExportReport)
	protected.POST("/reports/:kind/archive", reportHandlers.ArchiveReport)

	protected.GET("/notifications", notificationHandlers.GetNotifications)
	protected.GET("/notifications/ws", notificationHandlers.Stream)
	protected.GET("/suggestions", notificationHandlers.GetSuggestions)

	return e
}
