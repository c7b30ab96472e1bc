package jobs

import (
	"context"
	"errors"
	"time"

	"shelfsmart/internal/common"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/services"

	"go.uber.org/zap"
)

// Job names.
const (
	NotificationJob  = "notification-refresh"
	ReportArchiveJob = "report-archive"
)

// DefaultNotificationInterval matches the dashboard's five minute refresh.
const DefaultNotificationInterval = 5 * time.Minute

// NotificationRefresher is the part of the notification service the poller drives.
type NotificationRefresher interface {
	Refresh(ctx context.Context) (services.Notifications, error)
}

// NotificationPoller refreshes low-stock and expiry counts on an interval.
type NotificationPoller struct {
	refresher NotificationRefresher
	interval  time.Duration
	logger    *zap.Logger
}

func NewNotificationPoller(refresher NotificationRefresher, interval time.Duration, logger *zap.Logger) *NotificationPoller {
	if interval <= 0 {
		interval = DefaultNotificationInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationPoller{refresher: refresher, interval: interval, logger: logger}
}

// Register adds the poller to s. The first refresh runs when s starts.
func (p *NotificationPoller) Register(s *Scheduler) error {
	return s.AddJob(NotificationJob, p.interval, true, p.Poll)
}

// Poll performs one refresh.
func (p *NotificationPoller) Poll(ctx context.Context) {
	n, err := p.refresher.Refresh(ctx)
	switch {
	case err == nil:
		p.logger.Debug("Notifications refreshed",
			zap.Int("low_stock", n.Counts.LowStock),
			zap.Int("expiring", n.Counts.Expiring))
	case errors.Is(err, context.Canceled):
		// stopped
	case errors.Is(err, listview.ErrSuperseded):
		p.logger.Debug("Notification refresh overtaken by a newer one")
	case common.IsAuthError(err):
		p.logger.Debug("Skipping notification refresh without a session", zap.Error(err))
	default:
		p.logger.Warn("Notification refresh failed", zap.Error(err))
	}
}

// StartNotificationPoller creates a scheduler running only the poller and
// starts it. Stop the returned scheduler to end polling.
func StartNotificationPoller(refresher NotificationRefresher, interval time.Duration, logger *zap.Logger) (*Scheduler, error) {
	s, err := NewScheduler(logger)
	if err != nil {
		return nil, err
	}
	if err := NewNotificationPoller(refresher, interval, logger).Register(s); err != nil {
		_ = s.Stop()
		return nil, err
	}
	s.Start()
	return s, nil
}
