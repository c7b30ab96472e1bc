package jobs

import (
	"context"
	"errors"
	"time"

	"shelfsmart/internal/models"
	"shelfsmart/internal/reports"
	"shelfsmart/internal/services"

	"go.uber.org/zap"
)

// DefaultArchiveInterval is how often the standard reports are archived.
const DefaultArchiveInterval = 24 * time.Hour

// ReportArchiver reloads the daily and weekly reports and uploads them.
type ReportArchiver struct {
	reports  services.ReportService
	format   reports.Format
	interval time.Duration
	logger   *zap.Logger
}

func NewReportArchiver(svc services.ReportService, format reports.Format, interval time.Duration, logger *zap.Logger) *ReportArchiver {
	if interval <= 0 {
		interval = DefaultArchiveInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportArchiver{reports: svc, format: format, interval: interval, logger: logger}
}

func (a *ReportArchiver) Register(s *Scheduler) error {
	return s.AddJob(ReportArchiveJob, a.interval, false, a.Run)
}

// Run archives both standard reports. Empty reports are skipped.
func (a *ReportArchiver) Run(ctx context.Context) {
	if err := a.reports.Load(ctx); err != nil {
		a.logger.Warn("Report archive skipped", zap.Error(err))
		return
	}
	for _, kind := range []models.ReportKind{models.ReportDaily, models.ReportWeekly} {
		link, err := a.reports.Archive(ctx, kind, a.format)
		switch {
		case err == nil:
			a.logger.Info("Archived report", zap.String("kind", string(kind)), zap.String("url", link))
		case errors.Is(err, reports.ErrNoData):
			a.logger.Debug("Nothing to archive", zap.String("kind", string(kind)))
		default:
			a.logger.Warn("Failed to archive report", zap.String("kind", string(kind)), zap.Error(err))
		}
	}
}
