package commands

import (
	"context"

	"driverdesk/internal/core/domain/model/employee"
	"driverdesk/internal/core/domain/model/kernel"
)

type LogEmployeeActionCommandHandler struct {
	uowFactory EmployeeLogUoWFactory
	clock      kernel.Clock
}

func NewLogEmployeeActionCommandHandler(uowFactory EmployeeLogUoWFactory, clock kernel.Clock) LogEmployeeActionCommandHandler {
	return LogEmployeeActionCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h LogEmployeeActionCommandHandler) Handle(ctx context.Context, command LogEmployeeActionCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	entry, err := employee.NewLogEntry(command.Employee(), command.Order(), command.Amount(), h.clock.Now())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.EmployeeLogRepository().Add(ctx, &entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
