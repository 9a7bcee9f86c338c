package commands

import (
	"context"
	"log/slog"

	"driverdesk/internal/core/application/ledger"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/keylock"
)

// SettlePayoutCommandHandler flips a payout between pending and paid and
// cascades the change to the orders it carries. Every cascaded order is
// announced with its own status_update event.
type SettlePayoutCommandHandler struct {
	uowFactory UoWFactory
	clock      kernel.Clock
	locker     *keylock.Locker
	effects    Effects
	logger     *slog.Logger
}

func NewSettlePayoutCommandHandler(
	uowFactory UoWFactory,
	clock kernel.Clock,
	locker *keylock.Locker,
	effects Effects,
	logger *slog.Logger,
) SettlePayoutCommandHandler {
	return SettlePayoutCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
		locker:     locker,
		effects:    effects,
		logger:     logger.With("component", "payout-settlement"),
	}
}

// Handle returns the number of orders whose status changed.
func (h SettlePayoutCommandHandler) Handle(ctx context.Context, command SettlePayoutCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	driverID := command.DriverID()
	unlock := h.locker.Lock(driverID)
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := requireDriver(ctx, uow.DriverRepository(), driverID); err != nil {
		return 0, err
	}

	payouts := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), h.clock)

	var (
		changed   []*order.Order
		err       error
		direction = "paid"
	)
	if command.Paid() {
		changed, err = payouts.MarkPaid(ctx, driverID, command.PayoutID())
	} else {
		direction = "unpaid"
		changed, err = payouts.MarkUnpaid(ctx, driverID, command.PayoutID())
	}
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	now := h.clock.Now()
	events := make([]ports.Event, 0, len(changed))
	for _, o := range changed {
		events = append(events, ports.Event{
			Type:      ports.EventStatusUpdate,
			DriverID:  driverID,
			OrderName: o.Name(),
			Status:    o.Status().String(),
			PayoutID:  command.PayoutID(),
			At:        now,
		})
	}
	h.effects.metrics.PayoutCascade(direction, len(changed))
	h.effects.driverChanged(ctx, driverID, events...)
	h.logger.InfoContext(ctx, "payout settled",
		"driver", driverID, "payout", command.PayoutID(), "direction", direction, "orders", len(changed))

	return len(changed), nil
}
