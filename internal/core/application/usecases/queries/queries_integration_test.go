package queries_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	postgres_adapter "driverdesk/internal/adapters/out/postgres"
	"driverdesk/internal/adapters/out/postgres/pgtest"
	"driverdesk/internal/core/application/usecases/queries"
	"driverdesk/internal/core/domain/model/employee"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/model/payout"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// QueriesIntegrationTestSuite runs the SQL read views against a real PostgreSQL.
type QueriesIntegrationTestSuite struct {
	suite.Suite
	pg      *pgtest.Database
	factory ports.UnitOfWorkFactory
}

func TestQueriesIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(QueriesIntegrationTestSuite))
}

func (suite *QueriesIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(pg.DB)
}

func (suite *QueriesIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.Require().NoError(suite.factory.Create().DriverRepository().Provision(context.Background(), []string{"d1", "d2"}))
}

func (suite *QueriesIntegrationTestSuite) TearDownSuite() {
	suite.Require().NoError(suite.pg.Terminate(context.Background()))
}

// seed stores an order moved to status with an explicit fee.
func (suite *QueriesIntegrationTestSuite) seed(
	driverID, name string,
	details order.Details,
	cash, fee int64,
	status order.Status,
	scannedAt time.Time,
) *order.Order {
	ctx := context.Background()
	o, err := order.NewOrder(driverID, name, details, decimal.NewFromInt(cash), decimal.NewFromInt(fee), scannedAt)
	suite.Require().NoError(err)
	if status != order.Dispatched {
		_, err = o.ChangeStatus(status, scannedAt.Add(time.Minute))
		suite.Require().NoError(err)
	}

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.Commit(ctx))
	return o
}

func (suite *QueriesIntegrationTestSuite) file(driverID string, approved bool, createdAt time.Time, orders ...*order.Order) *note.Note {
	ctx := context.Background()
	n, err := note.NewNote(driverID, createdAt)
	suite.Require().NoError(err)
	for _, o := range orders {
		suite.Require().NoError(n.AddItem(note.Item{OrderID: o.ID(), OrderName: o.Name(), ScannedAt: o.ScannedAt()}))
	}
	if approved {
		suite.Require().NoError(n.Approve(createdAt.Add(time.Hour)))
	}
	suite.Require().NoError(suite.factory.Create().NoteRepository().Add(ctx, n))
	return n
}

func (suite *QueriesIntegrationTestSuite) TestListNotes() {
	ctx := context.Background()
	created := now.Add(-2 * time.Hour)
	o1 := suite.seed("d1", "#1", order.Details{}, 100, 20, order.Dispatched, now)
	o2 := suite.seed("d1", "#2", order.Details{}, 250, 20, order.Dispatched, now)
	o3 := suite.seed("d1", "#3", order.Details{}, 50, 20, order.Delivered, now.Add(-48*time.Hour))
	suite.file("d1", false, created, o1, o2)
	suite.file("d1", true, created.Add(-48*time.Hour), o3)

	handler := queries.NewListNotesQueryHandler(suite.pg.DB)

	q, err := queries.NewListNotesQuery("d1", false)
	suite.Require().NoError(err)
	drafts, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Require().Len(drafts, 1)
	suite.Equal(2, drafts[0].Parcels)
	suite.True(drafts[0].TotalCOD.Equal(decimal.NewFromInt(350)))
	suite.Equal("draft", drafts[0].Status)
	suite.Equal(kernel.FormatTimestamp(created.Local()), drafts[0].CreatedAt)

	q, err = queries.NewListNotesQuery("d1", true)
	suite.Require().NoError(err)
	history, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Require().Len(history, 1)
	suite.Equal(1, history[0].Parcels)
	suite.True(history[0].TotalCOD.Equal(decimal.NewFromInt(50)))

	q, err = queries.NewListNotesQuery("d2", false)
	suite.Require().NoError(err)
	none, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Empty(none)

	q, err = queries.NewListNotesQuery("ghost", false)
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, q)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestGetNote() {
	ctx := context.Background()
	o1 := suite.seed("d1", "#1", order.Details{}, 100, 20, order.Dispatched, now)
	o2 := suite.seed("d1", "#2", order.Details{}, 250, 20, order.Dispatched, now)
	n := suite.file("d1", false, now, o2, o1)

	handler := queries.NewGetNoteQueryHandler(suite.pg.DB)

	q, err := queries.NewGetNoteQuery("d1", n.ID())
	suite.Require().NoError(err)
	detail, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal(n.ID(), detail.ID)
	suite.Equal("draft", detail.Status)
	suite.Require().Len(detail.Items, 2)
	suite.Equal("#2", detail.Items[0].OrderName)
	suite.True(detail.Items[0].CashAmount.Equal(decimal.NewFromInt(250)))
	suite.Equal("#1", detail.Items[1].OrderName)

	q, err = queries.NewGetNoteQuery("d2", n.ID())
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, q)
	suite.ErrorIs(err, errs.ErrObjectNotFound, "a note of another driver is not found")

	_, err = queries.NewGetNoteQuery("d1", 0)
	suite.ErrorIs(err, errs.ErrValueIsInvalid)
}

func (suite *QueriesIntegrationTestSuite) seedPayouts() {
	ctx := context.Background()
	suite.seed("d1", "#1", order.Details{}, 100, 20, order.Delivered, now)
	suite.seed("d1", "#2", order.Details{}, 300, 30, order.Delivered, now)

	paid, err := payout.NewPayout("d1", "PO-20240429-0900", now.Add(-49*time.Hour))
	suite.Require().NoError(err)
	suite.Require().NoError(paid.Add("#2", decimal.NewFromInt(300), decimal.NewFromInt(30)))
	suite.Require().NoError(paid.MarkPaid(now.Add(-24 * time.Hour)))

	open, err := payout.NewPayout("d1", "PO-20240501-1000", now.Add(-30*time.Minute))
	suite.Require().NoError(err)
	suite.Require().NoError(open.Add("#1", decimal.NewFromInt(100), decimal.NewFromInt(20)))
	suite.Require().NoError(open.Add("#999", decimal.NewFromInt(10), decimal.NewFromInt(5)))

	repo := suite.factory.Create().PayoutRepository()
	suite.Require().NoError(repo.Add(ctx, paid))
	suite.Require().NoError(repo.Add(ctx, open))
}

func (suite *QueriesIntegrationTestSuite) TestListPayouts() {
	ctx := context.Background()
	suite.seedPayouts()

	cache := &mapCache{}
	handler := queries.NewListPayoutsQueryHandler(suite.pg.DB, cache)

	q, err := queries.NewListPayoutsQuery("d1")
	suite.Require().NoError(err)
	payouts, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Require().Len(payouts, 2)

	open := payouts[0]
	suite.Equal("PO-20240501-1000", open.PayoutID)
	suite.Equal("pending", open.Status)
	suite.Equal("", open.DatePaid)
	suite.Equal([]string{"#1", "#999"}, open.Orders)
	suite.True(open.TotalCash.Equal(decimal.NewFromInt(110)))
	suite.True(open.TotalFees.Equal(decimal.NewFromInt(25)))
	suite.True(open.TotalPayout.Equal(decimal.NewFromInt(85)))
	suite.Require().Len(open.OrderDetails, 2)
	suite.True(open.OrderDetails[0].CashAmount.Equal(decimal.NewFromInt(100)))
	suite.True(open.OrderDetails[0].DriverFee.Equal(decimal.NewFromInt(20)))
	suite.Equal("#999", open.OrderDetails[1].Name)
	suite.True(open.OrderDetails[1].CashAmount.IsZero(), "missing orders read as zero")

	paid := payouts[1]
	suite.Equal("paid", paid.Status)
	suite.Equal(kernel.FormatTimestamp(now.Add(-24*time.Hour).Local()), paid.DatePaid)

	_, err = handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal(1, cache.loads)

	q, err = queries.NewListPayoutsQuery("ghost")
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, q)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

type workbookSpy struct {
	driverID string
	payouts  []queries.PayoutView
}

func (w *workbookSpy) WritePayouts(out io.Writer, driverID string, payouts []queries.PayoutView) error {
	w.driverID = driverID
	w.payouts = payouts
	_, err := out.Write([]byte("xlsx"))
	return err
}

func (suite *QueriesIntegrationTestSuite) TestExportPayouts() {
	suite.seedPayouts()

	spy := &workbookSpy{}
	handler := queries.NewExportPayoutsQueryHandler(queries.NewListPayoutsQueryHandler(suite.pg.DB, nil), spy)

	q, err := queries.NewExportPayoutsQuery("d1")
	suite.Require().NoError(err)
	var buf bytes.Buffer
	suite.Require().NoError(handler.Handle(context.Background(), q, &buf))

	suite.Equal("d1", spy.driverID)
	suite.Len(spy.payouts, 2)
	suite.Equal("xlsx", buf.String())
}

func (suite *QueriesIntegrationTestSuite) seedStats() {
	suite.seed("d1", "#1", order.Details{}, 100, 20, order.Delivered, now)
	suite.seed("d1", "#2", order.Details{}, 50, 20, order.Cancelled, now.Add(-24*time.Hour))
	suite.seed("d1", "#3", order.Details{}, 70, 20, order.Dispatched, now.Add(-11*24*time.Hour))
	suite.seed("d1", "#4", order.Details{}, 30, 20, order.Returned, now)
	suite.seed("d1", "#5", order.Details{}, 10, 20, order.Refused, now.Add(-2*24*time.Hour))
}

func (suite *QueriesIntegrationTestSuite) TestStats() {
	ctx := context.Background()
	suite.seedStats()
	handler := queries.NewStatsQueryHandler(suite.pg.DB, clock)

	all, err := queries.NewPeriod(0, "", "")
	suite.Require().NoError(err)
	q, err := queries.NewGetStatsQuery("d1", all)
	suite.Require().NoError(err)
	stats, err := handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal(5, stats.TotalOrders)
	suite.Equal(1, stats.Delivered)
	suite.Equal(3, stats.Returned)
	suite.True(stats.TotalCollect.Equal(decimal.NewFromInt(100)))
	suite.True(stats.TotalFees.Equal(decimal.NewFromInt(20)))
	suite.True(stats.CanceledAmount.Equal(decimal.NewFromInt(90)))
	suite.InDelta(20.0, stats.DeliveryRate, 0.001)

	twoDays, err := queries.NewPeriod(2, "", "")
	suite.Require().NoError(err)
	q, err = queries.NewGetStatsQuery("d1", twoDays)
	suite.Require().NoError(err)
	stats, err = handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal(3, stats.TotalOrders)
	suite.True(stats.CanceledAmount.Equal(decimal.NewFromInt(80)))

	old, err := queries.NewPeriod(0, "2024-04-20", "2024-04-20")
	suite.Require().NoError(err)
	q, err = queries.NewGetStatsQuery("d1", old)
	suite.Require().NoError(err)
	stats, err = handler.Handle(ctx, q)
	suite.Require().NoError(err)
	suite.Equal(1, stats.TotalOrders)
	suite.Zero(stats.DeliveryRate)

	q, err = queries.NewGetStatsQuery("ghost", all)
	suite.Require().NoError(err)
	_, err = handler.Handle(ctx, q)
	suite.ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *QueriesIntegrationTestSuite) TestAdminStats() {
	suite.seedStats()
	handler := queries.NewStatsQueryHandler(suite.pg.DB, clock)

	all, err := queries.NewPeriod(0, "", "")
	suite.Require().NoError(err)
	stats, err := handler.HandleAdmin(context.Background(), queries.NewAdminStatsQuery(all))
	suite.Require().NoError(err)

	suite.Len(stats, 2)
	suite.Equal(5, stats["d1"].TotalOrders)
	suite.Equal(0, stats["d2"].TotalOrders, "drivers without orders are listed")
}

func (suite *QueriesIntegrationTestSuite) TestTrends() {
	suite.seed("d1", "#1", order.Details{}, 100, 20, order.Delivered, now)
	suite.seed("d2", "#2", order.Details{}, 100, 20, order.Delivered, now)
	suite.seed("d1", "#3", order.Details{}, 100, 20, order.Delivered, now.Add(-48*time.Hour))
	suite.seed("d1", "#4", order.Details{}, 100, 20, order.Delivered, now.Add(48*time.Hour))
	suite.seed("d1", "#5", order.Details{}, 100, 20, order.Cancelled, now)

	handler := queries.NewTrendsQueryHandler(suite.pg.DB, clock)

	open, err := queries.NewPeriod(0, "", "")
	suite.Require().NoError(err)
	points, err := handler.Handle(context.Background(), queries.NewTrendsQuery(open))
	suite.Require().NoError(err)
	suite.Equal([]queries.TrendPoint{
		{Date: "2024-04-29", Delivered: 1},
		{Date: "2024-05-01", Delivered: 2},
	}, points)

	recent, err := queries.NewPeriod(0, "2024-04-30", "2024-05-10")
	suite.Require().NoError(err)
	points, err = handler.Handle(context.Background(), queries.NewTrendsQuery(recent))
	suite.Require().NoError(err)
	suite.Equal([]queries.TrendPoint{
		{Date: "2024-05-01", Delivered: 2},
		{Date: "2024-05-03", Delivered: 1},
	}, points)
}

func (suite *QueriesIntegrationTestSuite) TestSearchOrders() {
	suite.seed("d1", "#10", order.Details{Customer: order.Customer{Name: "Sami", Phone: "0611223344"}}, 100, 20, order.Dispatched, now)
	suite.seed("d2", "#20", order.Details{Customer: order.Customer{Phone: "0799"}}, 100, 20, order.Delivered, now)

	handler := queries.NewSearchOrdersQueryHandler(suite.pg.DB)

	q, err := queries.NewSearchOrdersQuery("1122")
	suite.Require().NoError(err)
	hits, err := handler.Handle(context.Background(), q)
	suite.Require().NoError(err)
	suite.Require().Len(hits, 1)
	suite.Equal("d1", hits[0].Driver)
	suite.Equal("#10", hits[0].OrderName)
	suite.Equal("Sami", hits[0].CustomerName)
	suite.Equal("Dispatched", hits[0].DeliveryStatus)

	q, err = queries.NewSearchOrdersQuery("#2")
	suite.Require().NoError(err)
	hits, err = handler.Handle(context.Background(), q)
	suite.Require().NoError(err)
	suite.Require().Len(hits, 1)
	suite.Equal("Livré", hits[0].DeliveryStatus)

	q, err = queries.NewSearchOrdersQuery("%")
	suite.Require().NoError(err)
	hits, err = handler.Handle(context.Background(), q)
	suite.Require().NoError(err)
	suite.Empty(hits, "wildcards are matched literally")

	_, err = queries.NewSearchOrdersQuery("  ")
	suite.ErrorIs(err, errs.ErrValueIsRequired)
}

func (suite *QueriesIntegrationTestSuite) TestTagSummary() {
	seed := func(name, store, tags string, status order.Status) {
		suite.seed("d1", name, order.Details{Store: store, Tags: tags}, 100, 20, status, now)
	}
	seed("#1", "irrakids", "big", order.Dispatched)
	seed("#2", "irrakids", "fast", order.Dispatched)
	seed("#3", "irranova", "fast", order.Dispatched)
	seed("#4", "irranova", "big fast", order.Dispatched)
	seed("#5", "irrakids", "oscario", order.Dispatched)
	seed("#6", "irranova", "", order.Dispatched)
	seed("#7", "irranova", "oscario", order.Deleted)

	handler := queries.NewTagSummaryQueryHandler(suite.pg.DB, fees)
	summary, err := handler.Handle(context.Background(), queries.NewTagSummaryQuery())
	suite.Require().NoError(err)

	suite.Equal(1, summary["big"]["irrakids"])
	suite.Equal(1, summary["big"]["irranova"])
	suite.Equal(1, summary["fast"]["irrakids"])
	suite.Equal(1, summary["fast"]["irranova"])
	suite.Equal(1, summary["oscario"]["irrakids"])
	suite.NotContains(summary["oscario"], "irranova")
}

func (suite *QueriesIntegrationTestSuite) TestDirectoryQueries() {
	ctx := context.Background()
	repo := suite.factory.Create().EmployeeLogRepository()
	amount := decimal.NewFromInt(120)
	first, err := employee.NewLogEntry("amina", "#1", &amount, now.Add(-time.Hour))
	suite.Require().NoError(err)
	second, err := employee.NewLogEntry("yanis", "#2", nil, now)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.Add(ctx, &first))
	suite.Require().NoError(repo.Add(ctx, &second))

	logs, err := queries.NewListEmployeeLogsQueryHandler(suite.factory).Handle(ctx, queries.NewListEmployeeLogsQuery())
	suite.Require().NoError(err)
	suite.Require().Len(logs, 2)
	suite.Equal("yanis", logs[0].Employee)
	suite.Nil(logs[0].Amount)
	suite.True(logs[1].Amount.Equal(amount))

	drivers, err := queries.NewListDriversQueryHandler(suite.factory).Handle(ctx, queries.NewListDriversQuery())
	suite.Require().NoError(err)
	suite.Equal([]string{"d1", "d2"}, drivers)
}
