package commands

import (
	"context"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/keylock"
)

// AcceptReturnCommandHandler clears the return-pending flag of an order.
// Confirming an order that is not pending is a successful no-op.
type AcceptReturnCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	locker     *keylock.Locker
	effects    Effects
}

func NewAcceptReturnCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	locker *keylock.Locker,
	effects Effects,
) AcceptReturnCommandHandler {
	return AcceptReturnCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		locker:     locker,
		effects:    effects,
	}
}

// Handle reports whether a pending return was confirmed.
func (h AcceptReturnCommandHandler) Handle(ctx context.Context, command AcceptReturnCommand) (bool, error) {
	if err := command.Validate(); err != nil {
		return false, err
	}

	unlock := h.locker.Lock(command.DriverID())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := requireDriver(ctx, uow.DriverRepository(), command.DriverID()); err != nil {
		return false, err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, command.DriverID(), command.OrderName())
	if err != nil {
		return false, err
	}

	now := h.clock.Now()
	accepted, err := o.AcceptReturn(command.Agent(), now)
	if err != nil || !accepted {
		return false, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.effects.driverChanged(ctx, command.DriverID(), ports.Event{
		Type:      ports.EventStatusUpdate,
		DriverID:  command.DriverID(),
		OrderName: o.Name(),
		Status:    o.DisplayStatus(),
		At:        now,
	})
	return true, nil
}
