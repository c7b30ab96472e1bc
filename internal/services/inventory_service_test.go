package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"shelfsmart/internal/client"
	"shelfsmart/internal/common"
	"shelfsmart/internal/listview"
	"shelfsmart/internal/models"
	"shelfsmart/internal/notify"
	"shelfsmart/internal/session"
	"shelfsmart/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

func int64Ptr(v int64) *int64 { return &v }

func validInput() models.InventoryInput {
	return models.InventoryInput{
		Name:       "Basmati Rice",
		Quantity:   10,
		Threshold:  2,
		ExpiryDate: models.NewDate(2025, 9, 1),
		Category:   "Grains",
		SupplierID: int64Ptr(1),
	}
}

type InventoryCoordinatorTestSuite struct {
	suite.Suite
	ctx       context.Context
	backend   *testutil.Backend
	session   *session.Session
	recorder  *notify.Recorder
	confirmer *MockConfirmer
	service   InventoryCoordinator
}

func (s *InventoryCoordinatorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = testutil.NewBackend(s.T())
	s.backend.SetSuppliers(
		models.Supplier{ID: 1, Name: "Acme Foods"},
		models.Supplier{ID: 2, Name: "Harvest Co"},
	)
	s.backend.SetItems(
		models.InventoryItem{ID: 1, Name: "Basmati Rice", Quantity: 10, Threshold: 2, Category: "Grains", SupplierID: int64Ptr(1)},
		models.InventoryItem{ID: 2, Name: "Penne", Quantity: 4, Threshold: 5, Category: "Pasta", SupplierID: int64Ptr(2)},
		models.InventoryItem{ID: 3, Name: "Olive Oil", Quantity: 7, Threshold: 1, Category: "Oils", SupplierID: int64Ptr(1)},
	)

	s.session = session.New(session.NewMemoryStore())
	s.Require().NoError(s.session.Save(s.ctx, testutil.DefaultToken, models.UserProfile{Name: "Admin", Role: models.RoleAdmin}))
	s.recorder = notify.NewRecorder(0)
	s.confirmer = &MockConfirmer{}

	api := client.New(s.backend.URL(), 2*time.Second, s.session, zap.NewNop())
	s.service = NewInventoryCoordinator(api, s.session, s.confirmer, s.recorder, zap.NewNop(), 8)
	s.Require().NoError(s.service.Load(s.ctx))
}

func (s *InventoryCoordinatorTestSuite) TearDownTest() {
	s.confirmer.AssertExpectations(s.T())
}

func TestInventoryCoordinatorTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryCoordinatorTestSuite))
}

func (s *InventoryCoordinatorTestSuite) lastKind() notify.Kind {
	last, ok := s.recorder.Last()
	s.Require().True(ok)
	return last.Kind
}

func (s *InventoryCoordinatorTestSuite) quantityOf(id int64) (int, bool) {
	item, ok := s.service.View().Find(func(i models.InventoryItem) bool { return i.ID == id })
	return item.Quantity, ok
}

func (s *InventoryCoordinatorTestSuite) TestLoad_PopulatesView() {
	rows, info := s.service.View().Page()

	s.Len(rows, 3)
	s.Equal(3, info.Total)
	s.NoError(s.service.LastError())
}

func (s *InventoryCoordinatorTestSuite) TestLoad_FailureKeepsStaleData() {
	s.backend.FailNext(http.MethodGet, "/inventory", http.StatusInternalServerError)

	err := s.service.Load(s.ctx)

	s.Error(err)
	s.Equal(3, s.service.View().Len())
	s.Error(s.service.LastError())
	s.Equal(notify.KindRead, s.lastKind())
}

func (s *InventoryCoordinatorTestSuite) TestNoCredentialSkipsBackend() {
	s.Require().NoError(s.session.Clear(s.ctx))
	before := len(s.backend.Requests())

	_, err := s.service.Create(s.ctx, validInput())

	s.ErrorIs(err, common.ErrNotAuthenticated)
	s.Equal(before, len(s.backend.Requests()))
	s.Equal(notify.KindAuth, s.lastKind())
}

func (s *InventoryCoordinatorTestSuite) TestCreate_ValidationNeverSendsRequest() {
	cases := map[string]func(*models.InventoryInput){
		"name":      func(in *models.InventoryInput) { in.Name = "  " },
		"quantity":  func(in *models.InventoryInput) { in.Quantity = -1 },
		"threshold": func(in *models.InventoryInput) { in.Threshold = -1 },
		"expiry":    func(in *models.InventoryInput) { in.ExpiryDate = models.Date{} },
		"category":  func(in *models.InventoryInput) { in.Category = "" },
		"supplier":  func(in *models.InventoryInput) { in.SupplierID = nil },
	}
	for name, mutate := range cases {
		input := validInput()
		mutate(&input)

		_, err := s.service.Create(s.ctx, input)

		s.True(common.IsValidationError(err), name)
		s.Equal(notify.KindValidation, s.lastKind(), name)
	}
	s.Zero(s.backend.Calls(http.MethodPost, "/inventory"))
	s.Equal(3, s.service.View().Len())
}

func (s *InventoryCoordinatorTestSuite) TestCreate_AppendsServerRecord() {
	item, err := s.service.Create(s.ctx, validInput())

	s.Require().NoError(err)
	s.NotZero(item.ID)
	s.Require().NotNil(item.Supplier)
	s.Equal("Acme Foods", item.Supplier.Name)
	s.Equal(4, s.service.View().Len())
	stored, ok := s.service.View().Find(func(i models.InventoryItem) bool { return i.ID == item.ID })
	s.True(ok)
	s.Equal("Basmati Rice", stored.Name)
	s.Equal(notify.KindSuccess, s.lastKind())
}

func (s *InventoryCoordinatorTestSuite) TestCreate_FailureLeavesCollection() {
	s.backend.FailNext(http.MethodPost, "/inventory", http.StatusInternalServerError)

	_, err := s.service.Create(s.ctx, validInput())

	s.Error(err)
	s.Equal(3, s.service.View().Len())
	s.Equal(notify.KindWrite, s.lastKind())
	s.NoError(s.service.LastError())
}

func (s *InventoryCoordinatorTestSuite) TestUpdate_ResolvesSupplierFromFreshList() {
	s.backend.SetBareUpdates(true)
	// the server renamed the supplier after the screen loaded
	s.backend.SetSuppliers(models.Supplier{ID: 1, Name: "Acme Foods"}, models.Supplier{ID: 2, Name: "Harvest Cooperative"})
	input := validInput()
	input.Name = "Penne Rigate"
	input.Category = "Pasta"
	input.SupplierID = int64Ptr(2)

	item, err := s.service.Update(s.ctx, 2, input)

	s.Require().NoError(err)
	s.Require().NotNil(item.Supplier)
	s.Equal("Harvest Cooperative", item.Supplier.Name)
	s.Equal(1, s.backend.Calls(http.MethodGet, "/suppliers"))
	stored, _ := s.service.View().Find(func(i models.InventoryItem) bool { return i.ID == 2 })
	s.Equal("Penne Rigate", stored.Name)
	s.Equal(3, s.service.View().Len())
}

func (s *InventoryCoordinatorTestSuite) TestUpdate_EchoedSupplierIsUsedAsIs() {
	_, err := s.service.Update(s.ctx, 1, validInput())

	s.Require().NoError(err)
	s.Zero(s.backend.Calls(http.MethodGet, "/suppliers"))
}

func (s *InventoryCoordinatorTestSuite) TestUpdate_FailureLeavesRecord() {
	s.backend.FailNext(http.MethodPut, "/inventory/1", http.StatusBadGateway)
	input := validInput()
	input.Name = "Renamed"

	_, err := s.service.Update(s.ctx, 1, input)

	s.Error(err)
	stored, _ := s.service.View().Find(func(i models.InventoryItem) bool { return i.ID == 1 })
	s.Equal("Basmati Rice", stored.Name)
}

func (s *InventoryCoordinatorTestSuite) TestDelete_ConfirmedRemovesExactlyOne() {
	s.confirmer.On("Confirm", s.ctx, mock.AnythingOfType("string")).Return(true, nil).Once()

	err := s.service.Delete(s.ctx, 2)

	s.Require().NoError(err)
	items := s.service.View().Items()
	s.Len(items, 2)
	s.Equal(int64(1), items[0].ID)
	s.Equal(int64(3), items[1].ID)
	s.Len(s.backend.Items(), 2)
}

func (s *InventoryCoordinatorTestSuite) TestDelete_CancelledTouchesNothing() {
	s.confirmer.On("Confirm", s.ctx, mock.AnythingOfType("string")).Return(false, nil).Once()

	err := s.service.Delete(s.ctx, 2)

	s.ErrorIs(err, common.ErrDeleteCancelled)
	s.Equal(3, s.service.View().Len())
	s.Zero(s.backend.Calls(http.MethodDelete, "/inventory/2"))
	s.Len(s.backend.Items(), 3)
}

func (s *InventoryCoordinatorTestSuite) TestDelete_FailureKeepsRecordVisible() {
	s.confirmer.On("Confirm", s.ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
	s.backend.FailNext(http.MethodDelete, "/inventory/2", http.StatusInternalServerError)

	err := s.service.Delete(s.ctx, 2)

	s.Error(err)
	s.Equal(3, s.service.View().Len())
}

func (s *InventoryCoordinatorTestSuite) TestConsume_Partial() {
	s.True(s.service.CanConsume(1, 5))

	s.Require().NoError(s.service.Consume(s.ctx, 1, 5))

	qty, _ := s.quantityOf(1)
	s.Equal(5, qty)
}

func (s *InventoryCoordinatorTestSuite) TestConsume_OverQuantityRejected() {
	s.False(s.service.CanConsume(1, 11))
	s.False(s.service.CanConsume(1, 0))

	err := s.service.Consume(s.ctx, 1, 11)

	s.True(common.IsValidationError(err))
	qty, _ := s.quantityOf(1)
	s.Equal(10, qty)
	s.Zero(s.backend.Calls(http.MethodPost, "/inventory/1/consume"))
}

func (s *InventoryCoordinatorTestSuite) TestConsume_AllKeepsItem() {
	s.Require().NoError(s.service.Consume(s.ctx, 1, 10))

	qty, ok := s.quantityOf(1)
	s.True(ok)
	s.Equal(0, qty)
	s.Equal(3, s.service.View().Len())
}

func (s *InventoryCoordinatorTestSuite) TestExpiredSessionClearsCredential() {
	s.backend.SetToken("rotated")

	err := s.service.Consume(s.ctx, 1, 1)

	s.ErrorIs(err, common.ErrSessionExpired)
	s.False(s.session.Authenticated())
	s.Equal(notify.KindAuth, s.lastKind())
	qty, _ := s.quantityOf(1)
	s.Equal(10, qty)
}

func (s *InventoryCoordinatorTestSuite) TestDuplicateSubmissionRejectedWhilePending() {
	release := s.backend.Hold(http.MethodPost, "/inventory/1/consume")
	defer release()

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = s.service.Consume(s.ctx, 1, 2)
	}()
	s.Require().True(s.backend.WaitForCalls(http.MethodPost, "/inventory/1/consume", 1, time.Second))
	s.True(s.service.Busy(ActionConsume))

	err := s.service.Consume(s.ctx, 1, 2)
	s.ErrorIs(err, common.ErrRequestInFlight)

	// a different action kind is not blocked
	s.False(s.service.Busy(ActionEdit))

	release()
	wg.Wait()
	s.NoError(firstErr)
	s.False(s.service.Busy(ActionConsume))
	qty, _ := s.quantityOf(1)
	s.Equal(8, qty)
	s.Equal(1, s.backend.Calls(http.MethodPost, "/inventory/1/consume"))
}

func (s *InventoryCoordinatorTestSuite) TestSearch_AppliesServerFilter() {
	s.Require().NoError(s.service.Search(s.ctx, "penne", models.AllCategories))

	rows, _ := s.service.View().Page()
	s.Require().Len(rows, 1)
	s.Equal(int64(2), rows[0].ID)
	s.Equal("penne", s.service.View().Query())
}

func TestInventoryCoordinator_StaleSearchIsDropped(t *testing.T) {
	ctx := context.Background()
	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.Save(ctx, "tok", models.PlaceholderProfile()))
	api := &MockInventoryAPI{}
	entered := make(chan struct{})
	release := make(chan struct{})

	api.On("SearchInventory", mock.Anything, "ri", "").
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return([]models.InventoryItem{{ID: 1, Name: "Rice"}, {ID: 2, Name: "Rice Flour"}}, nil).Once()
	api.On("SearchInventory", mock.Anything, "rice f", "").
		Return([]models.InventoryItem{{ID: 2, Name: "Rice Flour"}}, nil).Once()

	svc := NewInventoryCoordinator(api, sess, Confirmed(true), nil, nil, 8)

	var slowErr error
	done := make(chan struct{})
	go func() {
		slowErr = svc.Search(ctx, "ri", "")
		close(done)
	}()
	<-entered

	require.NoError(t, svc.Search(ctx, "rice f", ""))
	close(release)
	<-done

	api.AssertExpectations(t)
	assert.ErrorIs(t, slowErr, listview.ErrSuperseded)
	assert.True(t, IsSuperseded(slowErr))
	items := svc.View().Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, "rice f", svc.View().Query())
}
