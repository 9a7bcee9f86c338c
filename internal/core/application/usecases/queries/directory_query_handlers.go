package queries

import (
	"context"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/ports"
)

// ListEmployeeLogsQueryHandler returns the staff journal, newest first.
type ListEmployeeLogsQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListEmployeeLogsQueryHandler(uowFactory ports.UnitOfWorkFactory) ListEmployeeLogsQueryHandler {
	return ListEmployeeLogsQueryHandler{uowFactory: uowFactory}
}

func (h ListEmployeeLogsQueryHandler) Handle(ctx context.Context, query ListEmployeeLogsQuery) ([]EmployeeLogView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	entries, err := h.uowFactory.Create().EmployeeLogRepository().List(ctx)
	if err != nil {
		return nil, err
	}

	logs := make([]EmployeeLogView, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, EmployeeLogView{
			Timestamp: kernel.FormatTimestamp(e.Timestamp),
			Employee:  e.Employee,
			Order:     e.Order,
			Amount:    e.Amount,
		})
	}
	return logs, nil
}

// ListDriversQueryHandler returns the provisioned driver ids in order.
type ListDriversQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListDriversQueryHandler(uowFactory ports.UnitOfWorkFactory) ListDriversQueryHandler {
	return ListDriversQueryHandler{uowFactory: uowFactory}
}

func (h ListDriversQueryHandler) Handle(ctx context.Context, query ListDriversQuery) ([]string, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	drivers, err := h.uowFactory.Create().DriverRepository().List(ctx)
	if err != nil {
		return nil, err
	}
	if drivers == nil {
		drivers = []string{}
	}
	return drivers, nil
}
