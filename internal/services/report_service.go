package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"shelfsmart/internal/common"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/models"
	"shelfsmart/internal/notify"
	"shelfsmart/internal/reports"

	"go.uber.org/zap"
)

// ReportAPI fetches the raw report payloads.
type ReportAPI interface {
	Report(ctx context.Context, kind models.ReportKind, start, end time.Time) ([]byte, error)
}

// Default custom report window.
var (
	DefaultCustomStart = time.Date(2024, time.July, 22, 0, 0, 0, 0, time.UTC)
	DefaultCustomEnd   = time.Date(2025, time.March, 23, 0, 0, 0, 0, time.UTC)
)

// ErrArchiveDisabled is returned by Archive when no bucket is configured.
var ErrArchiveDisabled = errors.New("report archiving is not configured")

// ReportService holds the three stock reports and exports them.
type ReportService interface {
	// Load fetches the daily and weekly reports together.
	Load(ctx context.Context) error
	// Custom fetches the report for [start, end]. Only the latest call is applied.
	Custom(ctx context.Context, start, end time.Time) error
	Movements(kind models.ReportKind) []models.StockMovement
	Window() (start, end time.Time)
	LastGenerated(kind models.ReportKind) (time.Time, bool)
	Export(w io.Writer, kind models.ReportKind, format reports.Format) (string, error)
	Archive(ctx context.Context, kind models.ReportKind, format reports.Format) (string, error)

	LastError() error
	Busy(action string) bool
}

type reportService struct {
	*coordinator
	api     ReportAPI
	archive *reports.Archive
	now     func() time.Time
	loc     *time.Location
	latest  listview.Latest

	dataMu     sync.RWMutex
	movements  map[models.ReportKind][]models.StockMovement
	start, end time.Time
}

// NewReportService creates the report service. archive may be nil.
func NewReportService(api ReportAPI, session SessionState, archive *reports.Archive, notifier notify.Notifier, logger *zap.Logger) ReportService {
	return &reportService{
		coordinator: newCoordinator(session, notifier, logger),
		api:         api,
		archive:     archive,
		now:         time.Now,
		loc:         time.Local,
		movements:   make(map[models.ReportKind][]models.StockMovement),
		start:       DefaultCustomStart,
		end:         DefaultCustomEnd,
	}
}

func downloadAction(kind models.ReportKind) string {
	return "downloading:" + string(kind)
}

func (s *reportService) fetch(ctx context.Context, kind models.ReportKind, start, end time.Time) ([]models.StockMovement, error) {
	data, err := s.api.Report(ctx, kind, start, end)
	if err != nil {
		return nil, err
	}
	movements, err := reports.ParseCSVIn(bytes.NewReader(data), s.loc)
	var rowErr *reports.RowError
	if errors.As(err, &rowErr) {
		s.logger.Warn("Skipped unreadable report rows", zap.String("kind", string(kind)), zap.Error(err))
		err = nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s report: %w", kind, err)
	}
	return movements, nil
}

func (s *reportService) Load(ctx context.Context) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	done, err := s.flights.begin(ActionLoad)
	if err != nil {
		return err
	}
	defer done()

	var (
		wg                  sync.WaitGroup
		daily, weekly       []models.StockMovement
		dailyErr, weeklyErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		daily, dailyErr = s.fetch(ctx, models.ReportDaily, time.Time{}, time.Time{})
	}()
	go func() {
		defer wg.Done()
		weekly, weeklyErr = s.fetch(ctx, models.ReportWeekly, time.Time{}, time.Time{})
	}()
	wg.Wait()

	if err := errors.Join(dailyErr, weeklyErr); err != nil {
		return s.fail(ctx, err, notify.KindRead, "Failed to load reports")
	}

	s.dataMu.Lock()
	s.movements[models.ReportDaily] = daily
	s.movements[models.ReportWeekly] = weekly
	s.dataMu.Unlock()
	s.setLastError(nil)
	return nil
}

func (s *reportService) Custom(ctx context.Context, start, end time.Time) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	if err := common.ValidateDateRange(start, end); err != nil {
		return s.fail(ctx, err, notify.KindValidation, "")
	}

	reqCtx, epoch := s.latest.Begin(ctx)
	movements, err := s.fetch(reqCtx, models.ReportCustom, start, end)
	applied := s.latest.Apply(epoch, func() {
		s.dataMu.Lock()
		s.start, s.end = start, end
		if err == nil {
			s.movements[models.ReportCustom] = movements
		}
		s.dataMu.Unlock()
	})
	if !applied {
		return listview.ErrSuperseded
	}
	if err != nil {
		return s.fail(ctx, err, notify.KindRead, "Failed to load custom report")
	}
	return nil
}

func (s *reportService) Movements(kind models.ReportKind) []models.StockMovement {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return append([]models.StockMovement(nil), s.movements[kind]...)
}

func (s *reportService) Window() (time.Time, time.Time) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	return s.start, s.end
}

// LastGenerated is the newest movement timestamp of a report.
func (s *reportService) LastGenerated(kind models.ReportKind) (time.Time, bool) {
	s.dataMu.RLock()
	defer s.dataMu.RUnlock()
	var latest time.Time
	found := false
	for _, m := range s.movements[kind] {
		if !found || m.Timestamp.After(latest) {
			latest, found = m.Timestamp, true
		}
	}
	return latest, found
}

// Export writes the loaded report to w and returns its download file name.
// An empty report is rejected before anything is written.
func (s *reportService) Export(w io.Writer, kind models.ReportKind, format reports.Format) (string, error) {
	done, err := s.flights.begin(downloadAction(kind))
	if err != nil {
		return "", err
	}
	defer done()

	movements := s.Movements(kind)
	if len(movements) == 0 {
		err := common.NewValidationError("report", reports.ErrNoData.Error())
		notify.Failure(s.notifier, err, notify.KindValidation, "No data available to download")
		return "", fmt.Errorf("%s report: %w", kind, reports.ErrNoData)
	}

	now := s.now()
	if err := reports.Export(w, format, reports.Title(kind), movements, now); err != nil {
		notify.Failure(s.notifier, err, notify.KindWrite, "Failed to download report")
		return "", err
	}
	notify.Success(s.notifier, "Report downloaded successfully")
	return reports.FileNameFor(reports.Prefix(kind), now, format), nil
}

// Archive renders the report and uploads it, returning a presigned link.
func (s *reportService) Archive(ctx context.Context, kind models.ReportKind, format reports.Format) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveDisabled
	}
	var buf bytes.Buffer
	name, err := s.Export(&buf, kind, format)
	if err != nil {
		return "", err
	}
	link, err := s.archive.Put(ctx, name, format, buf.Bytes())
	if err != nil {
		return "", s.fail(ctx, err, notify.KindWrite, "Failed to archive report")
	}
	return link, nil
}
