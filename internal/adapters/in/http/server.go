package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/application/usecases/queries"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Handler is a use case returning a result.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// ActionHandler is a use case returning only an error.
type ActionHandler[In any] interface {
	Handle(ctx context.Context, in In) error
}

// Func adapts a plain function, such as a method value, to Handler.
type Func[In, Out any] func(ctx context.Context, in In) (Out, error)

func (f Func[In, Out]) Handle(ctx context.Context, in In) (Out, error) {
	return f(ctx, in)
}

// PayoutExporter streams a driver's payouts as a workbook.
type PayoutExporter interface {
	Handle(ctx context.Context, query queries.ExportPayoutsQuery, w io.Writer) error
}

// CommandHandlers groups the write use cases served over HTTP.
type CommandHandlers struct {
	Scan               Handler[commands.ScanCommand, commands.ScanResult]
	UpdateOrderStatus  ActionHandler[commands.UpdateOrderStatusCommand]
	AcceptReturn       Handler[commands.AcceptReturnCommand, bool]
	RemoveNoteItem     ActionHandler[commands.RemoveNoteItemCommand]
	ApproveNote        ActionHandler[commands.ApproveNoteCommand]
	SettlePayout       Handler[commands.SettlePayoutCommand, int]
	UpdatePayout       ActionHandler[commands.UpdatePayoutCommand]
	ReviewVerification Handler[commands.ReviewVerificationCommand, commands.VerificationReview]
	UpdateVerification ActionHandler[commands.UpdateVerificationCommand]
	SyncVerification   Handler[commands.SyncVerificationCommand, commands.SyncResult]
	LogEmployeeAction  ActionHandler[commands.LogEmployeeActionCommand]
}

// QueryHandlers groups the read use cases served over HTTP.
type QueryHandlers struct {
	ListOrders    Handler[queries.ListOrdersQuery, []queries.OrderItem]
	ListNotes     Handler[queries.ListNotesQuery, []queries.NoteSummary]
	GetNote       Handler[queries.GetNoteQuery, queries.NoteDetail]
	ListPayouts   Handler[queries.ListPayoutsQuery, []queries.PayoutView]
	ExportPayouts PayoutExporter
	Stats         Handler[queries.GetStatsQuery, queries.Stats]
	AdminStats    Handler[queries.AdminStatsQuery, map[string]queries.Stats]
	Trends        Handler[queries.TrendsQuery, []queries.TrendPoint]
	Search        Handler[queries.SearchOrdersQuery, []queries.SearchHit]
	AdminNotes    Handler[queries.ListAdminNotesQuery, []queries.AdminNote]
	TagSummary    Handler[queries.TagSummaryQuery, queries.TagSummary]
	EmployeeLogs  Handler[queries.ListEmployeeLogsQuery, []queries.EmployeeLogView]
	Drivers       Handler[queries.ListDriversQuery, []string]
}

// Server exposes the driver, admin and staff endpoints.
// It translates HTTP requests into commands and queries and maps their errors
// back to status codes.
type Server struct {
	commands CommandHandlers
	queries  QueryHandlers

	// loc interprets naive timestamps sent by admins.
	loc      *time.Location
	validate *validator.Validate
	logger   *slog.Logger
}

func NewServer(
	commandHandlers CommandHandlers,
	queryHandlers QueryHandlers,
	loc *time.Location,
	logger *slog.Logger,
) *Server {
	if loc == nil {
		loc = time.UTC
	}
	return &Server{
		commands: commandHandlers,
		queries:  queryHandlers,
		loc:      loc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("component", "http"),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/drivers", s.ListDrivers)

	e.POST("/scan", s.Scan)
	e.GET("/orders", s.listOrders("active"))
	e.GET("/orders/archive", s.listOrders("archive"))
	e.GET("/orders/all", s.listOrders("all"))
	e.GET("/orders/followups", s.listOrders("followups"))
	e.PUT("/order/status", s.UpdateOrderStatus)
	e.POST("/order/return/accept", s.AcceptReturn)

	e.GET("/notes", s.ListNotes)
	e.GET("/notes/:id", s.GetNote)
	e.DELETE("/notes/:id/items/:order", s.RemoveNoteItem)
	e.POST("/notes/:id/approve", s.ApproveNote)

	e.GET("/payouts", s.ListPayouts)
	e.POST("/payout/mark-paid/:id", s.settlePayout(true))
	e.POST("/payout/mark-unpaid/:id", s.settlePayout(false))
	e.PUT("/payout/:id", s.UpdatePayout)

	e.GET("/stats", s.Stats)

	admin := e.Group("/admin")
	admin.GET("/stats", s.AdminStats)
	admin.GET("/trends", s.Trends)
	admin.GET("/search", s.Search)
	admin.GET("/verify", s.ReviewVerification)
	admin.PUT("/verify/:id", s.UpdateVerification)
	admin.POST("/verify/sync", s.SyncVerification)
	admin.GET("/notes", s.AdminNotes)
	admin.GET("/tag-summary", s.TagSummary)
	admin.GET("/payouts/export", s.ExportPayouts)

	e.POST("/employee/log", s.LogEmployeeAction)
	e.GET("/employee/logs", s.EmployeeLogs)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// ListDrivers handles GET /drivers.
func (s *Server) ListDrivers(ctx echo.Context) error {
	drivers, err := s.queries.Drivers.Handle(ctx.Request().Context(), queries.NewListDriversQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, drivers)
}

// bind decodes the request into req and validates its tags.
func (s *Server) bind(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return errBadRequest("invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return errBadRequest(err.Error())
	}
	return nil
}

func success(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true})
}
