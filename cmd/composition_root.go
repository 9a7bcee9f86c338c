package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	httpin "driverdesk/internal/adapters/in/http"
	"driverdesk/internal/adapters/in/ws"
	"driverdesk/internal/adapters/out/cache"
	"driverdesk/internal/adapters/out/metrics"
	"driverdesk/internal/adapters/out/notify"
	"driverdesk/internal/adapters/out/postgres"
	"driverdesk/internal/adapters/out/spreadsheet"
	"driverdesk/internal/adapters/out/storefront"
	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/application/usecases/queries"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/services"
	"driverdesk/internal/jobs"
	"driverdesk/internal/pkg/keylock"

	"gorm.io/gorm"
)

// CompositionRoot owns the long-lived collaborators and builds every handler.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	loc     *time.Location
	clock   kernel.SystemClock
	fees    services.FeeClassifier
	views   services.OrderViews
	locker  *keylock.Locker
	metrics *metrics.Prometheus
	cache   *cache.ViewCache
	hub     *notify.Hub
	sink    *notify.KafkaSink
	effects commands.Effects

	stores            *storefront.Client
	customerSheet     spreadsheet.CustomerSheet
	verificationSheet spreadsheet.ExpectedOrders
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	loc, err := config.Location()
	if err != nil {
		return nil, err
	}
	stores, err := storefront.ParseStores(config.Stores)
	if err != nil {
		return nil, err
	}

	tariff := services.DefaultTariff()
	tariff.NormalFee = config.NormalFee
	tariff.ExchangeFee = config.ExchangeFee

	prom := metrics.New()
	hubOpts := []notify.Option{notify.WithObserver(prom)}

	var sink *notify.KafkaSink
	if len(config.KafkaBrokers) > 0 {
		sink = notify.NewKafkaSink(notify.NewKafkaWriter(config.KafkaBrokers, config.KafkaOrderEventsTopic))
		hubOpts = append(hubOpts, notify.WithSink(sink))
	}

	c := &CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,

		loc:     loc,
		clock:   kernel.NewSystemClock(loc),
		fees:    services.NewFeeClassifier(tariff),
		views:   services.NewOrderViews(services.DefaultFollowupPolicy(loc)),
		locker:  keylock.New(),
		metrics: prom,
		cache:   cache.New(config.CacheTTL, cache.WithObserver(prom)),
		hub:     notify.NewHub(logger, config.HubBuffer, hubOpts...),
		sink:    sink,

		stores:            storefront.NewClient(stores, &http.Client{Timeout: config.LookupTimeout}, logger),
		customerSheet:     spreadsheet.NewCustomerSheet(spreadsheet.NewWorkbook(config.CustomerSheetPath)),
		verificationSheet: spreadsheet.NewExpectedOrders(spreadsheet.NewWorkbook(config.VerificationSheetPath)),
	}
	c.effects = commands.NewEffects(c.hub, c.cache, c.metrics)
	return c, nil
}

// Close disconnects the websocket clients and flushes the broker sink.
func (c *CompositionRoot) Close() error {
	c.hub.Close()
	if c.sink != nil {
		return c.sink.Close()
	}
	return nil
}

func (c *CompositionRoot) Metrics() *metrics.Prometheus {
	return c.metrics
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

// ProvisionDrivers creates the configured default drivers when missing.
func (c *CompositionRoot) ProvisionDrivers(ctx context.Context) error {
	if len(c.config.DefaultDrivers) == 0 {
		return nil
	}
	cmd, err := commands.NewProvisionDriversCommand(c.config.DefaultDrivers)
	if err != nil {
		return err
	}
	return c.CreateProvisionDriversCommandHandler().Handle(ctx, cmd)
}

func (c *CompositionRoot) CreateProvisionDriversCommandHandler() commands.ProvisionDriversCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProvisionDriversCommandHandler(f)
}

func (c *CompositionRoot) CreateScanCommandHandler() commands.ScanCommandHandler {
	return commands.NewScanCommandHandler(
		c.uow(), c.stores, c.customerSheet, c.fees, c.clock, c.locker, c.effects, c.logger,
		commands.ScanOptions{
			LookupTimeout: c.config.LookupTimeout,
			RecencyWindow: c.config.RecencyWindow,
		},
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.uow(), c.fees, c.clock, c.locker, c.effects, c.logger)
}

func (c *CompositionRoot) CreateAcceptReturnCommandHandler() commands.AcceptReturnCommandHandler {
	return commands.NewAcceptReturnCommandHandler(c.uow(), c.clock, c.locker, c.effects)
}

func (c *CompositionRoot) CreateRemoveNoteItemCommandHandler() commands.RemoveNoteItemCommandHandler {
	return commands.NewRemoveNoteItemCommandHandler(c.uow(), c.clock, c.locker, c.effects)
}

func (c *CompositionRoot) CreateApproveNoteCommandHandler() commands.ApproveNoteCommandHandler {
	return commands.NewApproveNoteCommandHandler(
		c.uow(), c.fees, c.clock, c.locker, c.effects, c.logger, c.config.SweepOnApprove,
	)
}

func (c *CompositionRoot) CreateSettlePayoutCommandHandler() commands.SettlePayoutCommandHandler {
	return commands.NewSettlePayoutCommandHandler(c.uow(), c.clock, c.locker, c.effects, c.logger)
}

func (c *CompositionRoot) CreateUpdatePayoutCommandHandler() commands.UpdatePayoutCommandHandler {
	return commands.NewUpdatePayoutCommandHandler(c.uow(), c.locker, c.effects)
}

func (c *CompositionRoot) CreateSyncVerificationCommandHandler() commands.SyncVerificationCommandHandler {
	return commands.NewSyncVerificationCommandHandler(c.uow(), c.verificationSheet, c.logger)
}

func (c *CompositionRoot) CreateReviewVerificationCommandHandler() commands.ReviewVerificationCommandHandler {
	return commands.NewReviewVerificationCommandHandler(c.uow(), c.verificationSheet, c.logger)
}

func (c *CompositionRoot) CreateUpdateVerificationCommandHandler() commands.UpdateVerificationCommandHandler {
	return commands.NewUpdateVerificationCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateLogEmployeeActionCommandHandler() commands.LogEmployeeActionCommandHandler {
	var f commands.EmployeeLogUoWFactory = FuncEmployeeLogUoWFactory(func() commands.EmployeeLogUoW {
		return c.uowFactory.Create()
	})
	return commands.NewLogEmployeeActionCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.uowFactory, c.views, c.cache, c.clock)
}

func (c *CompositionRoot) CreateListPayoutsQueryHandler() queries.ListPayoutsQueryHandler {
	return queries.NewListPayoutsQueryHandler(c.gormDB, c.cache)
}

func (c *CompositionRoot) CreateStatsQueryHandler() queries.StatsQueryHandler {
	return queries.NewStatsQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateListAdminNotesQueryHandler() queries.ListAdminNotesQueryHandler {
	return queries.NewListAdminNotesQueryHandler(c.uowFactory, c.cache, c.locker, c.clock)
}

// HTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) HTTPServer() *httpin.Server {
	stats := c.CreateStatsQueryHandler()
	payouts := c.CreateListPayoutsQueryHandler()

	return httpin.NewServer(
		httpin.CommandHandlers{
			Scan:               c.CreateScanCommandHandler(),
			UpdateOrderStatus:  c.CreateUpdateOrderStatusCommandHandler(),
			AcceptReturn:       c.CreateAcceptReturnCommandHandler(),
			RemoveNoteItem:     c.CreateRemoveNoteItemCommandHandler(),
			ApproveNote:        c.CreateApproveNoteCommandHandler(),
			SettlePayout:       c.CreateSettlePayoutCommandHandler(),
			UpdatePayout:       c.CreateUpdatePayoutCommandHandler(),
			ReviewVerification: c.CreateReviewVerificationCommandHandler(),
			UpdateVerification: c.CreateUpdateVerificationCommandHandler(),
			SyncVerification:   c.CreateSyncVerificationCommandHandler(),
			LogEmployeeAction:  c.CreateLogEmployeeActionCommandHandler(),
		},
		httpin.QueryHandlers{
			ListOrders:    c.CreateListOrdersQueryHandler(),
			ListNotes:     queries.NewListNotesQueryHandler(c.gormDB),
			GetNote:       queries.NewGetNoteQueryHandler(c.gormDB),
			ListPayouts:   payouts,
			ExportPayouts: queries.NewExportPayoutsQueryHandler(payouts, spreadsheet.NewPayoutExport()),
			Stats:         stats,
			AdminStats:    httpin.Func[queries.AdminStatsQuery, map[string]queries.Stats](stats.HandleAdmin),
			Trends:        queries.NewTrendsQueryHandler(c.gormDB, c.clock),
			Search:        queries.NewSearchOrdersQueryHandler(c.gormDB),
			AdminNotes:    c.CreateListAdminNotesQueryHandler(),
			TagSummary:    queries.NewTagSummaryQueryHandler(c.gormDB, c.fees),
			EmployeeLogs:  queries.NewListEmployeeLogsQueryHandler(c.uowFactory),
			Drivers:       queries.NewListDriversQueryHandler(c.uowFactory),
		},
		c.loc,
		c.logger,
	)
}

func (c *CompositionRoot) WSHandler() *ws.Handler {
	return ws.NewHandler(c.hub, c.logger)
}

// JobManager schedules the verification sync and the cache sweep. The sync is
// skipped when no verification workbook is configured.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	schedule := jobs.Schedule{
		VerificationSync:        c.config.VerificationSyncSpec,
		VerificationSyncTimeout: 30 * time.Second,
		CacheSweep:              c.config.CacheSweepSpec,
	}
	var syncer jobs.VerificationSyncer
	if c.config.VerificationSheetPath != "" {
		syncer = c.CreateSyncVerificationCommandHandler()
	}
	return jobs.NewJobManager(syncer, c.cache, c.clock, schedule, c.logger)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncEmployeeLogUoWFactory func() commands.EmployeeLogUoW

func (f FuncEmployeeLogUoWFactory) Create() commands.EmployeeLogUoW {
	return f()
}
