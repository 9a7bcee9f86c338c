package http

import (
	"bytes"
	"fmt"
	"net/http"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type payoutUpdateRequest struct {
	Orders      []string         `json:"orders" validate:"omitempty,dive,required"`
	TotalCash   *decimal.Decimal `json:"total_cash"`
	TotalFees   *decimal.Decimal `json:"total_fees"`
	TotalPayout *decimal.Decimal `json:"total_payout"`
	DateCreated *string          `json:"date_created"`
}

// ListPayouts handles GET /payouts?driver=.
func (s *Server) ListPayouts(ctx echo.Context) error {
	query, err := queries.NewListPayoutsQuery(ctx.QueryParam("driver"))
	if err != nil {
		return s.fail(ctx, err)
	}

	payouts, err := s.queries.ListPayouts.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, payouts)
}

// settlePayout serves mark-paid (paid=true) and mark-unpaid.
func (s *Server) settlePayout(paid bool) echo.HandlerFunc {
	newCommand := commands.NewMarkPayoutUnpaidCommand
	if paid {
		newCommand = commands.NewMarkPayoutPaidCommand
	}

	return func(ctx echo.Context) error {
		command, err := newCommand(ctx.QueryParam("driver"), ctx.Param("id"))
		if err != nil {
			return s.fail(ctx, err)
		}

		changed, err := s.commands.SettlePayout.Handle(ctx.Request().Context(), command)
		if err != nil {
			return s.fail(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"success": true, "ordersUpdated": changed})
	}
}

// UpdatePayout handles PUT /payout/:id?driver=.
func (s *Server) UpdatePayout(ctx echo.Context) error {
	var req payoutUpdateRequest
	if err := s.bind(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewUpdatePayoutCommand(ctx.QueryParam("driver"), ctx.Param("id"), commands.PayoutChanges{
		Orders:      req.Orders,
		TotalCash:   req.TotalCash,
		TotalFees:   req.TotalFees,
		TotalPayout: req.TotalPayout,
		DateCreated: req.DateCreated,
	}, s.loc)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.commands.UpdatePayout.Handle(ctx.Request().Context(), command); err != nil {
		return s.fail(ctx, err)
	}
	return success(ctx)
}

// ExportPayouts handles GET /admin/payouts/export?driver=.
// The workbook is rendered in memory so that a failure still yields a JSON error.
func (s *Server) ExportPayouts(ctx echo.Context) error {
	query, err := queries.NewExportPayoutsQuery(ctx.QueryParam("driver"))
	if err != nil {
		return s.fail(ctx, err)
	}

	var buf bytes.Buffer
	if err = s.queries.ExportPayouts.Handle(ctx.Request().Context(), query, &buf); err != nil {
		return s.fail(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "payouts-"+query.DriverID()+".xlsx"))
	return ctx.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
