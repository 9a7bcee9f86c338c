package http

import (
	"net/http"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type scanRequest struct {
	Barcode string `json:"barcode" validate:"required"`
}

type scanResponse struct {
	Result         string `json:"result"`
	Order          string `json:"order"`
	Tag            string `json:"tag"`
	DeliveryStatus string `json:"deliveryStatus"`
	NoteID         *int64 `json:"noteId"`
}

type statusUpdateRequest struct {
	OrderName     string           `json:"order_name" validate:"required"`
	NewStatus     *string          `json:"new_status"`
	Note          *string          `json:"note"`
	DriverNote    *string          `json:"driver_note"`
	CashAmount    *decimal.Decimal `json:"cash_amount"`
	ScheduledTime *string          `json:"scheduled_time"`
	CommLog       *string          `json:"comm_log"`
	FollowLog     *string          `json:"follow_log"`
}

type acceptReturnRequest struct {
	OrderName string `json:"order_name" validate:"required"`
	Agent     string `json:"agent" validate:"required"`
}

// Scan handles POST /scan?driver=.
func (s *Server) Scan(ctx echo.Context) error {
	var req scanRequest
	if err := s.bind(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewScanCommand(ctx.QueryParam("driver"), req.Barcode)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.commands.Scan.Handle(ctx.Request().Context(), command)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := scanResponse{
		Result:         result.Result,
		Order:          result.OrderName,
		Tag:            result.Tag,
		DeliveryStatus: result.DeliveryStatus,
	}
	if result.NoteID != 0 {
		response.NoteID = &result.NoteID
	}
	return ctx.JSON(http.StatusOK, response)
}

// listOrders serves one of the driver's order views.
func (s *Server) listOrders(view string) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		query, err := queries.NewListOrdersQuery(ctx.QueryParam("driver"), view)
		if err != nil {
			return s.fail(ctx, err)
		}

		items, err := s.queries.ListOrders.Handle(ctx.Request().Context(), query)
		if err != nil {
			return s.fail(ctx, err)
		}
		return ctx.JSON(http.StatusOK, items)
	}
}

// UpdateOrderStatus handles PUT /order/status?driver=.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	var req statusUpdateRequest
	if err := s.bind(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewUpdateOrderStatusCommand(ctx.QueryParam("driver"), req.OrderName, commands.OrderChanges{
		Status:        req.NewStatus,
		Notes:         req.Note,
		DriverNote:    req.DriverNote,
		ScheduledTime: req.ScheduledTime,
		CashAmount:    req.CashAmount,
		CommLog:       req.CommLog,
		FollowLog:     req.FollowLog,
	})
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.commands.UpdateOrderStatus.Handle(ctx.Request().Context(), command); err != nil {
		return s.fail(ctx, err)
	}
	return success(ctx)
}

// AcceptReturn handles POST /order/return/accept?driver=.
func (s *Server) AcceptReturn(ctx echo.Context) error {
	var req acceptReturnRequest
	if err := s.bind(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewAcceptReturnCommand(ctx.QueryParam("driver"), req.OrderName, req.Agent)
	if err != nil {
		return s.fail(ctx, err)
	}

	accepted, err := s.commands.AcceptReturn.Handle(ctx.Request().Context(), command)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"success": true, "accepted": accepted})
}
