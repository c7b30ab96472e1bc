package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"shelfsmart/internal/analytics"
	"shelfsmart/internal/handlers"
	"shelfsmart/internal/jobs"
	"shelfsmart/internal/reports"
	"shelfsmart/internal/websocket"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func runServe(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", a.cfg.Server.Listen, "listen address")
	archiveFormat := fs.String("archive-format", string(reports.FormatXLSX), "format of the daily report archive")
	if err := fs.Parse(args); err != nil {
		return err
	}
	format, err := reports.ParseFormat(*archiveFormat)
	if err != nil {
		return err
	}

	inventory := a.inventory(handlers.RequestConfirmer, a.cfg.Pages.Inventory)
	notifications := a.notifications()
	reportSvc := a.reports()

	hub := websocket.NewHub(a.logger, a.cfg.Server.AllowedOrigins...)
	updates, unsubscribe := notifications.Subscribe(1)
	defer unsubscribe()
	go hub.Forward(updates)

	scheduler, err := jobs.NewScheduler(a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = scheduler.Stop() }()
	if err := jobs.NewNotificationPoller(notifications, a.cfg.NotifyInterval(), a.logger).Register(scheduler); err != nil {
		return err
	}
	if a.archive != nil {
		if err := jobs.NewReportArchiver(reportSvc, format, jobs.DefaultArchiveInterval, a.logger).Register(scheduler); err != nil {
			return err
		}
	}
	scheduler.Start()

	checks := map[string]handlers.Checker{
		"backend": handlers.CheckFunc(a.api.Ping),
		"cache":   handlers.CheckFunc(a.cache.Ping),
	}

	e := handlers.NewServer(handlers.Deps{
		Session:       a.session,
		Auth:          a.auth(),
		Inventory:     inventory,
		Suppliers:     a.suppliers(handlers.RequestConfirmer),
		Activity:      a.activity(),
		Reports:       reportSvc,
		Notifications: notifications,
		Hub:           hub,
		Deriver:       analytics.NewDeriver(),
		Checks:        checks,
		Jobs:          scheduler,
		Logger:        a.logger,
		Version:       version,

		InventoryPageSize:        a.cfg.Pages.Inventory,
		InventoryCompactPageSize: a.cfg.Pages.InventoryCompact,
	})

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("ShelfSmart view server starting",
			zap.String("version", version),
			zap.String("listen", *listen),
			zap.String("backend", a.api.BaseURL()))
		errCh <- e.Start(*listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down view server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
