package commands

import (
	"context"
	"log/slog"
	"time"

	"driverdesk/internal/core/application/ledger"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/services"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/keylock"
)

// UpdateOrderStatusCommandHandler applies a status change and settles its
// payout side effects in the same transaction:
//   - first delivery of a released order: counted in the driver's open payout
//   - delivery of an order held by a draft note: left for the approve sweep
//   - reversal of a delivery: removed from its payout
//   - cash edit of a counted order: recounted in its payout
//
// The driver's lock is held for the whole operation so that two deliveries
// never open two payouts.
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	fees       services.FeeClassifier
	clock      kernel.Clock
	locker     *keylock.Locker
	effects    Effects
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	fees services.FeeClassifier,
	clock kernel.Clock,
	locker *keylock.Locker,
	effects Effects,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		fees:       fees,
		clock:      clock,
		locker:     locker,
		effects:    effects,
		logger:     logger.With("component", "order-status"),
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, command UpdateOrderStatusCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	driverID := command.DriverID()
	unlock := h.locker.Lock(driverID)
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := requireDriver(ctx, uow.DriverRepository(), driverID); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, driverID, command.OrderName())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	previousCash := o.CashAmount()

	var tr order.Transition
	next, statusRequested := command.Status()
	if statusRequested {
		if tr, err = o.ChangeStatus(next, now); err != nil {
			return err
		}
	}

	if err = applyChanges(o, command.Changes(), now); err != nil {
		return err
	}

	payouts := ledger.NewPayoutLedger(uow.PayoutRepository(), orderRepo, h.clock)
	switch {
	case tr.IsDelivery():
		released, relErr := ledger.NewNoteLedger(uow.NoteRepository(), h.clock).ReleasedForPayout(ctx, o)
		if relErr != nil {
			return relErr
		}
		if released {
			if err = countDelivery(ctx, payouts, h.fees, o); err != nil {
				return err
			}
		}

	case tr.IsReversal():
		if payoutID, ok := o.DetachPayout(); ok {
			if _, err = payouts.Remove(ctx, driverID, payoutID, o.Name(), previousCash, o.DriverFee()); err != nil {
				return err
			}
		}

	case !o.CashAmount().Equal(previousCash):
		if payoutID, ok := o.PayoutID(); ok {
			if _, err = payouts.Recount(ctx, driverID, payoutID, o.Name(), previousCash, o.CashAmount()); err != nil {
				return err
			}
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	event := ports.Event{
		Type:      ports.EventStatusUpdate,
		DriverID:  driverID,
		OrderName: o.Name(),
		At:        now,
	}
	if statusRequested {
		event.Status = o.Status().String()
		h.effects.metrics.StatusChanged(tr.From.String(), tr.To.String())
		h.logger.InfoContext(ctx, "order status changed",
			"driver", driverID, "order", o.Name(), "from", tr.From.String(), "to", tr.To.String())
	}
	h.effects.driverChanged(ctx, driverID, event)

	return nil
}

func applyChanges(o *order.Order, c OrderChanges, now time.Time) error {
	if c.Notes != nil {
		o.SetNotes(*c.Notes)
	}
	if c.DriverNote != nil {
		o.AppendDriverNote(*c.DriverNote, now)
	}
	if c.ScheduledTime != nil {
		o.SetScheduledTime(*c.ScheduledTime)
	}
	if c.CashAmount != nil {
		if err := o.SetCashAmount(*c.CashAmount); err != nil {
			return err
		}
	}
	if c.CommLog != nil {
		o.SetCommLog(*c.CommLog)
	}
	if c.FollowLog != nil {
		o.SetFollowLog(*c.FollowLog)
	}
	return nil
}

// countDelivery adds a Livré order to the open payout and links it.
func countDelivery(ctx context.Context, payouts ledger.PayoutLedger, fees services.FeeClassifier, o *order.Order) error {
	fee := fees.DriverFee(o.Tags())
	payoutID, err := payouts.Add(ctx, o.DriverID(), o.Name(), o.CashAmount(), fee)
	if err != nil {
		return err
	}
	return o.AttachPayout(payoutID, fee)
}
