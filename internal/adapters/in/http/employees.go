package http

import (
	"net/http"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type employeeLogRequest struct {
	Employee string           `json:"employee" validate:"required"`
	Order    string           `json:"order"`
	Amount   *decimal.Decimal `json:"amount"`
}

// LogEmployeeAction handles POST /employee/log.
func (s *Server) LogEmployeeAction(ctx echo.Context) error {
	var req employeeLogRequest
	if err := s.bind(ctx, &req); err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewLogEmployeeActionCommand(req.Employee, req.Order, req.Amount)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.commands.LogEmployeeAction.Handle(ctx.Request().Context(), command); err != nil {
		return s.fail(ctx, err)
	}
	return success(ctx)
}

// EmployeeLogs handles GET /employee/logs.
func (s *Server) EmployeeLogs(ctx echo.Context) error {
	logs, err := s.queries.EmployeeLogs.Handle(ctx.Request().Context(), queries.NewListEmployeeLogsQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, logs)
}
