package commands

import (
	"context"
	"log/slog"

	"driverdesk/internal/core/application/ledger"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/services"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/keylock"
)

// ApproveNoteCommandHandler approves a draft note. With the sweep enabled, the
// orders of the note that were delivered while it was a draft are counted in
// the driver's open payout at approval time.
type ApproveNoteCommandHandler struct {
	uowFactory UoWFactory
	fees       services.FeeClassifier
	clock      kernel.Clock
	locker     *keylock.Locker
	effects    Effects
	logger     *slog.Logger
	sweep      bool
}

func NewApproveNoteCommandHandler(
	uowFactory UoWFactory,
	fees services.FeeClassifier,
	clock kernel.Clock,
	locker *keylock.Locker,
	effects Effects,
	logger *slog.Logger,
	sweepDeliveredOrders bool,
) ApproveNoteCommandHandler {
	return ApproveNoteCommandHandler{
		uowFactory: uowFactory,
		fees:       fees,
		clock:      clock,
		locker:     locker,
		effects:    effects,
		logger:     logger.With("component", "note-approval"),
		sweep:      sweepDeliveredOrders,
	}
}

func (h ApproveNoteCommandHandler) Handle(ctx context.Context, command ApproveNoteCommand) error {
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

	now := h.clock.Now()
	if err = n.Approve(now); err != nil {
		return err
	}
	if err = noteRepo.Update(ctx, n); err != nil {
		return err
	}

	swept := 0
	if h.sweep {
		if swept, err = h.sweepDelivered(ctx, uow, n); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if swept > 0 {
		h.logger.InfoContext(ctx, "delivered orders counted on approval",
			"driver", command.DriverID(), "note", n.ID(), "orders", swept)
	}
	h.effects.driverChanged(ctx, command.DriverID(), ports.Event{
		Type:     ports.EventNoteApproved,
		DriverID: command.DriverID(),
		NoteID:   n.ID(),
		At:       now,
	})
	return nil
}

func (h ApproveNoteCommandHandler) sweepDelivered(ctx context.Context, uow UoW, n *note.Note) (int, error) {
	ids := make([]int64, 0, len(n.Items()))
	for _, it := range n.Items() {
		ids = append(ids, it.OrderID)
	}

	orderRepo := uow.OrderRepository()
	members, err := orderRepo.ListByIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	payouts := ledger.NewPayoutLedger(uow.PayoutRepository(), orderRepo, h.clock)
	swept := 0
	for _, o := range members {
		if _, linked := o.PayoutID(); linked || o.Status() != order.Delivered {
			continue
		}
		if err = countDelivery(ctx, payouts, h.fees, o); err != nil {
			return swept, err
		}
		if err = orderRepo.Update(ctx, o); err != nil {
			return swept, err
		}
		swept++
	}
	return swept, nil
}
