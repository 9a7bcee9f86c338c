package commands

import (
	"context"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/keylock"
)

// RemoveNoteItemCommandHandler detaches an order from a draft note. The order
// itself stays: once detached it is visible to the driver like any loose order.
type RemoveNoteItemCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	locker     *keylock.Locker
	effects    Effects
}

func NewRemoveNoteItemCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	locker *keylock.Locker,
	effects Effects,
) RemoveNoteItemCommandHandler {
	return RemoveNoteItemCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		locker:     locker,
		effects:    effects,
	}
}

func (h RemoveNoteItemCommandHandler) Handle(ctx context.Context, command RemoveNoteItemCommand) error {
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

	noteRepo := uow.NoteRepository()
	n, err := noteRepo.Get(ctx, command.DriverID(), command.NoteID())
	if err != nil {
		return err
	}

	if _, err = n.RemoveItem(command.OrderName()); err != nil {
		return err
	}
	if err = noteRepo.Update(ctx, n); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.effects.driverChanged(ctx, command.DriverID(), ports.Event{
		Type:      ports.EventNoteUpdate,
		DriverID:  command.DriverID(),
		OrderName: command.OrderName(),
		NoteID:    n.ID(),
		At:        h.clock.Now(),
	})
	return nil
}
