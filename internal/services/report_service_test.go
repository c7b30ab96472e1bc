package services

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"shelfsmart/internal/client"
	"shelfsmart/internal/common"
	"shelfsmart/internal/models"
	"shelfsmart/internal/notify"
	"shelfsmart/internal/reports"
	"shelfsmart/internal/session"
	"shelfsmart/internal/testutil"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const (
	dailyCSV = `MovementId,ItemId,ItemName,QuantityChanged,MovementType,Timestamp
1,10,Basmati Rice,-5,CONSUMED,2025-03-23T08:00:00Z
2,11,Penne,12,ADDED,2025-03-23T09:30:00Z
`
	weeklyCSV = `MovementId,ItemId,ItemName,QuantityChanged,MovementType,Timestamp
1,10,Basmati Rice,-5,CONSUMED,2025-03-23T08:00:00Z
`
)

type ReportServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	backend  *testutil.Backend
	session  *session.Session
	recorder *notify.Recorder
	service  *reportService
}

func (s *ReportServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = testutil.NewBackend(s.T())
	s.backend.SetReport(models.ReportDaily, dailyCSV)
	s.backend.SetReport(models.ReportWeekly, weeklyCSV)
	s.backend.SetReport(models.ReportCustom, weeklyCSV)

	s.session = session.New(session.NewMemoryStore())
	s.Require().NoError(s.session.Save(s.ctx, testutil.DefaultToken, models.PlaceholderProfile()))
	s.recorder = notify.NewRecorder(0)
	api := client.New(s.backend.URL(), 2*time.Second, s.session, zap.NewNop())
	s.service = NewReportService(api, s.session, nil, s.recorder, zap.NewNop()).(*reportService)
	s.service.now = func() time.Time { return time.Date(2025, 3, 23, 12, 0, 0, 0, time.UTC) }
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func (s *ReportServiceTestSuite) TestLoad_FetchesDailyAndWeekly() {
	s.Require().NoError(s.service.Load(s.ctx))

	s.Len(s.service.Movements(models.ReportDaily), 2)
	s.Len(s.service.Movements(models.ReportWeekly), 1)
	s.Empty(s.service.Movements(models.ReportCustom))
	latest, ok := s.service.LastGenerated(models.ReportDaily)
	s.True(ok)
	s.Equal(time.Date(2025, 3, 23, 9, 30, 0, 0, time.UTC), latest)
	_, ok = s.service.LastGenerated(models.ReportCustom)
	s.False(ok)
}

func (s *ReportServiceTestSuite) TestLoad_EitherFailureFailsBoth() {
	s.Require().NoError(s.service.Load(s.ctx))
	s.backend.FailNext(http.MethodGet, "/reports/weekly", http.StatusInternalServerError)

	err := s.service.Load(s.ctx)

	s.Error(err)
	s.Error(s.service.LastError())
	s.Len(s.service.Movements(models.ReportDaily), 2)
	last, _ := s.recorder.Last()
	s.Equal("Failed to load reports", last.Message)
}

func (s *ReportServiceTestSuite) TestCustom_DefaultWindowAndQuery() {
	start, end := s.service.Window()
	s.Equal(DefaultCustomStart, start)
	s.Equal(DefaultCustomEnd, end)

	s.Require().NoError(s.service.Custom(s.ctx, start, end))

	s.Len(s.service.Movements(models.ReportCustom), 1)
	var query string
	for _, r := range s.backend.Requests() {
		if r.Path == "/reports/custom" {
			query = r.Query
		}
	}
	s.Contains(query, "startDate=2024-07-22")
	s.Contains(query, "endDate=2025-03-23")
}

func (s *ReportServiceTestSuite) TestCustom_InvertedRangeRejected() {
	err := s.service.Custom(s.ctx, DefaultCustomEnd, DefaultCustomStart)

	s.True(common.IsValidationError(err))
	s.Zero(s.backend.Calls(http.MethodGet, "/reports/custom"))
}

func (s *ReportServiceTestSuite) TestExport_CSV() {
	s.Require().NoError(s.service.Load(s.ctx))
	var buf bytes.Buffer

	name, err := s.service.Export(&buf, models.ReportDaily, reports.FormatCSV)

	s.Require().NoError(err)
	s.Equal("Daily_Stock_Report_2025-03-23.csv", name)
	s.True(strings.HasPrefix(buf.String(), "MovementId,ItemId,ItemName"))
	s.Contains(buf.String(), `"Penne"`)
	last, _ := s.recorder.Last()
	s.Equal(notify.KindSuccess, last.Kind)
	s.False(s.service.Busy(downloadAction(models.ReportDaily)))
}

func (s *ReportServiceTestSuite) TestExport_EmptyReport() {
	var buf bytes.Buffer

	_, err := s.service.Export(&buf, models.ReportWeekly, reports.FormatXLSX)

	s.ErrorIs(err, reports.ErrNoData)
	s.Zero(buf.Len())
	last, _ := s.recorder.Last()
	s.Equal(notify.KindValidation, last.Kind)
	s.Equal("No data available to download", last.Message)
}

func (s *ReportServiceTestSuite) TestArchive_Disabled() {
	_, err := s.service.Archive(s.ctx, models.ReportDaily, reports.FormatCSV)

	s.ErrorIs(err, ErrArchiveDisabled)
}
