package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"shelfsmart/internal/caching"
	"shelfsmart/internal/client"
	"shelfsmart/internal/config"
	"shelfsmart/internal/models"
	"shelfsmart/internal/notify"
	"shelfsmart/internal/reports"
	"shelfsmart/internal/services"
	"shelfsmart/internal/session"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// app holds the collaborators shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	out      io.Writer
	in       io.Reader
	session  *session.Session
	api      *client.Client
	redis    *redis.Client
	cache    caching.CacheService
	archive  *reports.Archive
	notifier notify.Notifier
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{
		cfg:      cfg,
		logger:   logger,
		out:      os.Stdout,
		in:       os.Stdin,
		notifier: notify.NewLogger(logger),
	}

	if cfg.Session.Backend == config.SessionBackendRedis {
		a.redis = session.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		a.cache = caching.NewRedisCacheService(a.redis)
	} else {
		a.cache = caching.NewMemoryCacheService()
	}

	var store session.Store
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		store = session.NewRedisStore(a.redis, cfg.Session.Name, 0)
	case config.SessionBackendMemory:
		store = session.NewMemoryStore()
	default:
		store = session.NewFileStore(cfg.Session.File)
	}
	a.session = session.New(store)
	if err := a.session.Restore(ctx); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	a.api = client.New(cfg.API.BaseURL, cfg.Timeout(), a.session, logger)

	if cfg.ArchiveEnabled() {
		objects, err := reports.NewMinioStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize report archive: %w", err)
		}
		a.archive = reports.NewArchive(objects, cfg.Minio.Bucket, logger)
	}
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// alertsAPI serves restock suggestions through the cache.
type alertsAPI struct {
	*client.Client
	suggestions *caching.SuggestionCache
}

func (a alertsAPI) Suggestions(ctx context.Context) (models.Suggestions, error) {
	return a.suggestions.Suggestions(ctx)
}

func (a *app) alerts() alertsAPI {
	return alertsAPI{
		Client:      a.api,
		suggestions: caching.NewSuggestionCache(a.api, a.cache, caching.DefaultSuggestionsTTL, a.logger),
	}
}

func (a *app) inventory(confirmer services.Confirmer, pageSize int) services.InventoryCoordinator {
	return services.NewInventoryCoordinator(a.api, a.session, confirmer, a.notifier, a.logger, pageSize)
}

func (a *app) suppliers(confirmer services.Confirmer) services.SupplierCoordinator {
	return services.NewSupplierCoordinator(a.api, a.session, confirmer, a.notifier, a.logger, a.cfg.Pages.Suppliers)
}

func (a *app) activity() services.ActivityService {
	return services.NewActivityService(a.api, a.session, a.notifier, a.logger, a.cfg.Pages.Activity)
}

func (a *app) reports() services.ReportService {
	return services.NewReportService(a.api, a.session, a.archive, a.notifier, a.logger)
}

func (a *app) notifications() services.NotificationService {
	return services.NewNotificationService(a.alerts(), a.session, a.notifier, a.logger)
}

func (a *app) auth() services.AuthService {
	return services.NewAuthService(a.api, a.session, a.logger)
}

// requireAdmin mirrors the dashboard, which only offers mutations to admins.
func (a *app) requireAdmin() error {
	if !a.session.Authenticated() {
		return fmt.Errorf("not logged in: run 'shelfsmart login' first")
	}
	if !a.session.Profile().IsAdmin() {
		return fmt.Errorf("insufficient permissions: %s role required", models.RoleAdmin)
	}
	return nil
}
