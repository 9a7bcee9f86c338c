package commands

import (
	"context"

	"driverdesk/internal/pkg/keylock"
)

// UpdatePayoutCommandHandler applies an admin correction to a payout.
type UpdatePayoutCommandHandler struct {
	uowFactory UoWFactory
	locker     *keylock.Locker
	effects    Effects
}

func NewUpdatePayoutCommandHandler(uowFactory UoWFactory, locker *keylock.Locker, effects Effects) UpdatePayoutCommandHandler {
	return UpdatePayoutCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		effects:    effects,
	}
}

func (h UpdatePayoutCommandHandler) Handle(ctx context.Context, command UpdatePayoutCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	unlock := h.locker.Lock(command.DriverID())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := requireDriver(ctx, uow.DriverRepository(), command.DriverID()); err != nil {
		return err
	}

	payoutRepo := uow.PayoutRepository()
	p, err := payoutRepo.Get(ctx, command.DriverID(), command.PayoutID())
	if err != nil {
		return err
	}
	if err = p.Amend(command.Amendment()); err != nil {
		return err
	}
	if err = payoutRepo.Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.driverChanged(ctx, command.DriverID())
	return nil
}
