package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"driverdesk/internal/adapters/out/postgres/noterepo"
	"driverdesk/internal/adapters/out/postgres/orderrepo"
	"driverdesk/internal/adapters/out/postgres/pgtest"
	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAggregateTracker records the tracking calls of the repository.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(key string, aggregate any) {
	m.Called(key, aggregate)
}

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

var scannedAt = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.pg.DB, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

func (suite *OrderRepositoryIntegrationTestSuite) newOrder(driverID, name string, at time.Time) *order.Order {
	o, err := order.NewOrder(driverID, name, order.Details{
		Customer: order.Customer{Name: "Amina", Phone: "0600000000", Address: "12 rue des Fleurs"},
		Tags:     "big",
		Store:    "irrakids",
	}, decimal.NewFromInt(250), decimal.NewFromInt(20), at)
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_AssignsIDAndTracks() {
	ctx := context.Background()
	o := suite.newOrder("d1", "#100", scannedAt)

	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", "order:1", o).Once()
	repo := orderrepo.NewGormOrderRepository(suite.pg.DB, tracker)

	suite.Require().NoError(repo.Add(ctx, o))
	suite.Equal(int64(1), o.ID())
	tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateScanIsConflict() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("d1", "#100", scannedAt)))

	err := suite.repository.Add(ctx, suite.newOrder("d1", "#100", scannedAt.Add(time.Minute)))
	suite.Require().ErrorIs(err, errs.ErrConflict)

	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("d2", "#100", scannedAt)))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripsEveryField() {
	ctx := context.Background()
	o := suite.newOrder("d1", "#100", scannedAt)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	_, err := o.ChangeStatus(order.Delivered, scannedAt.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(o.AttachPayout("PO-20240501-1000", decimal.NewFromInt(20)))
	o.AppendDriverNote("gate code 42", scannedAt.Add(time.Hour))
	o.SetScheduledTime("2024-05-01 15:00")
	suite.Require().NoError(suite.repository.Update(ctx, o))

	got, err := suite.repository.Get(ctx, "d1", "#100")
	suite.Require().NoError(err)
	suite.Equal(order.Delivered, got.Status())
	suite.Equal("Amina", got.Customer().Name)
	suite.Equal("irrakids", got.Details().Store)
	suite.True(decimal.NewFromInt(250).Equal(got.CashAmount()))
	payoutID, ok := got.PayoutID()
	suite.True(ok)
	suite.Equal("PO-20240501-1000", payoutID)
	suite.Equal(o.StatusLog().String(), got.StatusLog().String())
	suite.Equal(o.DriverNotes(), got.DriverNotes())
	suite.Equal("2024-05-01", got.ScanDate())
	suite.True(scannedAt.Equal(got.ScannedAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_WritesZeroValues() {
	ctx := context.Background()
	o := suite.newOrder("d1", "#100", scannedAt)
	suite.Require().NoError(suite.repository.Add(ctx, o))

	_, err := o.ChangeStatus(order.Refused, scannedAt.Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, o))

	accepted, err := o.AcceptReturn("agent", scannedAt.Add(2*time.Hour))
	suite.Require().NoError(err)
	suite.True(accepted)
	suite.Require().NoError(o.SetCashAmount(decimal.Zero))
	suite.Require().NoError(suite.repository.Update(ctx, o))

	got, err := suite.repository.Get(ctx, "d1", "#100")
	suite.Require().NoError(err)
	suite.False(got.ReturnPending())
	suite.True(got.CashAmount().IsZero())
	suite.Equal("agent", got.ReturnAgent())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_Missing() {
	_, err := suite.repository.Get(context.Background(), "d1", "#404")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	exists, err := suite.repository.Exists(context.Background(), "d1", "#404")
	suite.Require().NoError(err)
	suite.False(exists)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListVisible_HidesDraftNoteOrders() {
	ctx := context.Background()
	hidden := suite.newOrder("d1", "#1", scannedAt)
	released := suite.newOrder("d1", "#2", scannedAt.Add(time.Minute))
	loose := suite.newOrder("d1", "#3", scannedAt.Add(2*time.Minute))
	other := suite.newOrder("d2", "#4", scannedAt)
	for _, o := range []*order.Order{hidden, released, loose, other} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	notes := noterepo.NewGormNoteRepository(suite.pg.DB, suite.tracker)
	draft, err := note.NewNote("d1", scannedAt)
	suite.Require().NoError(err)
	suite.Require().NoError(draft.AddItem(note.Item{OrderID: hidden.ID(), OrderName: "#1", ScannedAt: scannedAt}))
	suite.Require().NoError(notes.Add(ctx, draft))

	approved, err := note.NewNote("d1", scannedAt.Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(approved.AddItem(note.Item{OrderID: released.ID(), OrderName: "#2", ScannedAt: scannedAt}))
	suite.Require().NoError(approved.Approve(scannedAt))
	suite.Require().NoError(notes.Add(ctx, approved))

	visible, err := suite.repository.ListVisible(ctx, "d1")
	suite.Require().NoError(err)
	suite.Require().Len(visible, 2)
	suite.Equal("#3", visible[0].Name())
	suite.Equal("#2", visible[1].Name())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestFindLatestByName_NewestScanAcrossDrivers() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("d1", "#7", scannedAt)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.newOrder("d2", "#7", scannedAt.Add(time.Hour))))

	latest, err := suite.repository.FindLatestByName(ctx, "#7")
	suite.Require().NoError(err)
	suite.Equal("d2", latest.DriverID())

	_, err = suite.repository.FindLatestByName(ctx, "#8")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByPayoutAndIDs() {
	ctx := context.Background()
	a := suite.newOrder("d1", "#1", scannedAt)
	b := suite.newOrder("d1", "#2", scannedAt)
	for _, o := range []*order.Order{a, b} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}
	_, err := a.ChangeStatus(order.Delivered, scannedAt)
	suite.Require().NoError(err)
	suite.Require().NoError(a.AttachPayout("PO-1", decimal.NewFromInt(20)))
	suite.Require().NoError(suite.repository.Update(ctx, a))

	byPayout, err := suite.repository.ListByPayout(ctx, "d1", "PO-1")
	suite.Require().NoError(err)
	suite.Require().Len(byPayout, 1)
	suite.Equal("#1", byPayout[0].Name())

	byID, err := suite.repository.ListByIDs(ctx, []int64{b.ID(), a.ID(), 999})
	suite.Require().NoError(err)
	suite.Len(byID, 2)

	none, err := suite.repository.ListByIDs(ctx, nil)
	suite.Require().NoError(err)
	suite.Empty(none)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
