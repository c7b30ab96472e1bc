package reports

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) EnsureBucketExists(ctx context.Context, bucket string) error {
	args := m.Called(ctx, bucket)
	return args.Error(0)
}

func (m *MockObjectStore) Upload(ctx context.Context, bucket, object string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, bucket, object, reader, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStore) PresignedURL(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucket, object, expiry)
	return args.String(0), args.Error(1)
}

type ArchiveTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *MockObjectStore
	archive *Archive
}

func (s *ArchiveTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = &MockObjectStore{}
	s.archive = NewArchive(s.store, "shelfsmart-reports", zap.NewNop())
}

func (s *ArchiveTestSuite) TearDownTest() {
	s.store.AssertExpectations(s.T())
}

func TestArchiveTestSuite(t *testing.T) {
	suite.Run(t, new(ArchiveTestSuite))
}

func (s *ArchiveTestSuite) TestPut_UploadsAndSigns() {
	data := []byte("MovementId,ItemId\n1,2")
	object := "reports/Daily_Stock_Report_2025-03-23.csv"
	s.store.On("EnsureBucketExists", s.ctx, "shelfsmart-reports").Return(nil).Once()
	s.store.On("Upload", s.ctx, "shelfsmart-reports", object, mock.Anything, int64(len(data)), "text/csv; charset=utf-8").
		Run(func(args mock.Arguments) {
			body, err := io.ReadAll(args.Get(3).(io.Reader))
			s.Require().NoError(err)
			s.Equal(data, body)
		}).
		Return(nil).Once()
	s.store.On("PresignedURL", s.ctx, "shelfsmart-reports", object, DefaultLinkExpiry).
		Return("https://minio.local/shelfsmart-reports/"+object+"?sig=1", nil).Once()

	link, err := s.archive.Put(s.ctx, "Daily_Stock_Report_2025-03-23.csv", FormatCSV, data)

	s.Require().NoError(err)
	s.Contains(link, "sig=1")
}

func (s *ArchiveTestSuite) TestPut_BucketFailureStopsUpload() {
	s.store.On("EnsureBucketExists", s.ctx, "shelfsmart-reports").Return(errors.New("access denied")).Once()

	_, err := s.archive.Put(s.ctx, "x.csv", FormatCSV, []byte("x"))

	s.ErrorContains(err, "access denied")
	s.store.AssertNotCalled(s.T(), "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ArchiveTestSuite) TestPut_UploadFailure() {
	s.store.On("EnsureBucketExists", s.ctx, "shelfsmart-reports").Return(nil).Once()
	s.store.On("Upload", s.ctx, "shelfsmart-reports", "reports/x.pdf", mock.Anything, int64(1), "application/pdf").
		Return(errors.New("connection reset")).Once()

	_, err := s.archive.Put(s.ctx, "x.pdf", FormatPDF, []byte("x"))

	s.ErrorContains(err, "failed to upload reports/x.pdf")
}
