package http

import (
	"net/http"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/application/usecases/queries"
	"driverdesk/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

type verificationRow struct {
	ID            int64  `json:"id"`
	OrderName     string `json:"orderName"`
	OrderDate     string `json:"orderDate"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Address       string `json:"address"`
	CODTotal      string `json:"codTotal"`
	City          string `json:"city"`
	Driver        string `json:"driver"`
	ScanTime      string `json:"scanTime"`
	Status        string `json:"status"`
	Verified      bool   `json:"verified"`
}

type verificationReview struct {
	Rows     []verificationRow `json:"rows"`
	Total    int               `json:"total"`
	Verified int               `json:"verified"`
	Missing  int               `json:"missing"`
}

type verificationUpdateRequest struct {
	DriverID *string `json:"driver_id"`
	ScanTime *string `json:"scan_time"`
}

type syncResponse struct {
	Success    bool `json:"success"`
	Created    int  `json:"created"`
	Backfilled int  `json:"backfilled"`
	Skipped    int  `json:"skipped"`
}

// period reads the days/start/end query parameters.
func period(ctx echo.Context) (queries.Period, error) {
	var days int
	if err := echo.QueryParamsBinder(ctx).Int("days", &days).BindError(); err != nil {
		return queries.Period{}, errBadRequest("days must be an integer")
	}
	return queries.NewPeriod(days, ctx.QueryParam("start"), ctx.QueryParam("end"))
}

// Stats handles GET /stats?driver=&days=&start=&end=.
func (s *Server) Stats(ctx echo.Context) error {
	p, err := period(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetStatsQuery(ctx.QueryParam("driver"), p)
	if err != nil {
		return s.fail(ctx, err)
	}

	stats, err := s.queries.Stats.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, stats)
}

// AdminStats handles GET /admin/stats.
func (s *Server) AdminStats(ctx echo.Context) error {
	p, err := period(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	stats, err := s.queries.AdminStats.Handle(ctx.Request().Context(), queries.NewAdminStatsQuery(p))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, stats)
}

// Trends handles GET /admin/trends.
func (s *Server) Trends(ctx echo.Context) error {
	p, err := period(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	points, err := s.queries.Trends.Handle(ctx.Request().Context(), queries.NewTrendsQuery(p))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, points)
}

// Search handles GET /admin/search?q=.
func (s *Server) Search(ctx echo.Context) error {
	query, err := queries.NewSearchOrdersQuery(ctx.QueryParam("q"))
	if err != nil {
		return s.fail(ctx, err)
	}

	hits, err := s.queries.Search.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, hits)
}

// ReviewVerification handles GET /admin/verify?date=|start=&end=&q=.
func (s *Server) ReviewVerification(ctx echo.Context) error {
	command, err := commands.NewReviewVerificationCommand(
		ctx.QueryParam("date"),
		ctx.QueryParam("start"),
		ctx.QueryParam("end"),
		ctx.QueryParam("q"),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	review, err := s.commands.ReviewVerification.Handle(ctx.Request().Context(), command)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := verificationReview{
		Rows:     make([]verificationRow, 0, len(review.Rows)),
		Total:    review.Total,
		Verified: review.Verified,
		Missing:  review.Missing,
	}
	for _, r := range review.Rows {
		row := verificationRow{
			ID:            r.ID,
			OrderName:     r.Expected.OrderName,
			OrderDate:     r.Expected.OrderDate,
			CustomerName:  r.Expected.CustomerName,
			CustomerPhone: r.Expected.CustomerPhone,
			Address:       r.Expected.Address,
			CODTotal:      r.Expected.CODTotal,
			City:          r.Expected.City,
			Driver:        r.DriverID,
			Status:        r.Status,
			Verified:      r.Verified,
		}
		if r.ScanTime != nil {
			row.ScanTime = kernel.FormatTimestamp(r.ScanTime.In(s.loc))
		}
		response.Rows = append(response.Rows, row)
	}
	return ctx.JSON(http.StatusOK, response)
}

// UpdateVerification handles PUT /admin/verify/:id. An empty string clears a field.
func (s *Server) UpdateVerification(ctx echo.Context) error {
	var id int64
	if err := echo.PathParamsBinder(ctx).MustInt64("id", &id).BindError(); err != nil {
		return s.fail(ctx, errBadRequest("verification id must be an integer"))
	}

	var req verificationUpdateRequest
	if err := s.bind(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewUpdateVerificationCommand(id, req.DriverID, req.ScanTime, s.loc)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.commands.UpdateVerification.Handle(ctx.Request().Context(), command); err != nil {
		return s.fail(ctx, err)
	}
	return success(ctx)
}

// SyncVerification handles POST /admin/verify/sync?date=.
func (s *Server) SyncVerification(ctx echo.Context) error {
	command, err := commands.NewSyncVerificationCommand(ctx.QueryParam("date"))
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.commands.SyncVerification.Handle(ctx.Request().Context(), command)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, syncResponse{
		Success:    true,
		Created:    result.Created,
		Backfilled: result.Backfilled,
		Skipped:    result.Skipped,
	})
}

// AdminNotes handles GET /admin/notes?driver=.
func (s *Server) AdminNotes(ctx echo.Context) error {
	query := queries.NewListAdminNotesQuery(ctx.QueryParam("driver"))

	notes, err := s.queries.AdminNotes.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, notes)
}

// TagSummary handles GET /admin/tag-summary.
func (s *Server) TagSummary(ctx echo.Context) error {
	summary, err := s.queries.TagSummary.Handle(ctx.Request().Context(), queries.NewTagSummaryQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, summary)
}
