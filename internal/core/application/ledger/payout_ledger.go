package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/model/payout"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// maxPayoutsPerMinute bounds the suffix search of NewPayoutID.
const maxPayoutsPerMinute = 100

// PayoutLedger accumulates delivered orders into the driver's open payout and
// cascades paid / unpaid transitions to the member orders.
type PayoutLedger struct {
	payouts ports.PayoutRepository
	orders  ports.OrderRepository
	clock   kernel.Clock
}

func NewPayoutLedger(payouts ports.PayoutRepository, orders ports.OrderRepository, clock kernel.Clock) PayoutLedger {
	return PayoutLedger{
		payouts: payouts,
		orders:  orders,
		clock:   clock,
	}
}

// Add counts orderName in the open payout of driverID, opening one when every
// payout is paid, and returns the payout id. Not idempotent.
func (l PayoutLedger) Add(ctx context.Context, driverID, orderName string, cash, fee decimal.Decimal) (string, error) {
	open, err := l.payouts.GetOpen(ctx, driverID)
	switch {
	case err == nil:
		if err = open.Add(orderName, cash, fee); err != nil {
			return "", err
		}
		if err = l.payouts.Update(ctx, open); err != nil {
			return "", fmt.Errorf("extend payout %s: %w", open.PayoutID(), err)
		}
		return open.PayoutID(), nil

	case errors.Is(err, errs.ErrObjectNotFound):
		now := l.clock.Now()
		id, idErr := l.nextPayoutID(ctx, driverID, now)
		if idErr != nil {
			return "", idErr
		}
		created, newErr := payout.NewPayout(driverID, id, now)
		if newErr != nil {
			return "", newErr
		}
		if err = created.Add(orderName, cash, fee); err != nil {
			return "", err
		}
		if err = l.payouts.Add(ctx, created); err != nil {
			return "", fmt.Errorf("open payout %s: %w", id, err)
		}
		return id, nil

	default:
		return "", err
	}
}

// Remove reverses Add. It reports false without error when the payout is
// unknown or does not list orderName.
func (l PayoutLedger) Remove(
	ctx context.Context,
	driverID, payoutID, orderName string,
	cash, fee decimal.Decimal,
) (bool, error) {
	p, err := l.payouts.Get(ctx, driverID, payoutID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !p.Remove(orderName, cash, fee) {
		return false, nil
	}
	if err = l.payouts.Update(ctx, p); err != nil {
		return false, fmt.Errorf("shrink payout %s: %w", payoutID, err)
	}
	return true, nil
}

// Recount moves the cash counted for orderName from countedCash to cash after
// the order's amount was edited. It reports false without error when the
// payout is unknown or does not list orderName.
func (l PayoutLedger) Recount(
	ctx context.Context,
	driverID, payoutID, orderName string,
	countedCash, cash decimal.Decimal,
) (bool, error) {
	p, err := l.payouts.Get(ctx, driverID, payoutID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !p.Recount(orderName, countedCash, cash) {
		return false, nil
	}
	if err = l.payouts.Update(ctx, p); err != nil {
		return false, fmt.Errorf("recount payout %s: %w", payoutID, err)
	}
	return true, nil
}

// MarkPaid closes the payout and flips its Livré orders to Paid.
// It returns the orders that changed.
func (l PayoutLedger) MarkPaid(ctx context.Context, driverID, payoutID string) ([]*order.Order, error) {
	p, err := l.payouts.Get(ctx, driverID, payoutID)
	if err != nil {
		return nil, err
	}

	now := l.clock.Now()
	if err = p.MarkPaid(now); err != nil {
		return nil, err
	}
	if err = l.payouts.Update(ctx, p); err != nil {
		return nil, err
	}

	return l.cascade(ctx, driverID, payoutID, order.Delivered, func(o *order.Order) error {
		return o.MarkPaid(now)
	})
}

// MarkUnpaid reopens a paid payout and flips its Paid orders back to Livré.
// Reopening while the driver already has another open payout is a conflict.
func (l PayoutLedger) MarkUnpaid(ctx context.Context, driverID, payoutID string) ([]*order.Order, error) {
	p, err := l.payouts.Get(ctx, driverID, payoutID)
	if err != nil {
		return nil, err
	}

	open, err := l.payouts.GetOpen(ctx, driverID)
	switch {
	case err == nil && open.PayoutID() != p.PayoutID():
		return nil, errs.NewConflictError(
			"payout "+payoutID,
			fmt.Sprintf("driver already has open payout %s", open.PayoutID()),
		)
	case err != nil && !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	if err = p.MarkUnpaid(); err != nil {
		return nil, err
	}
	if err = l.payouts.Update(ctx, p); err != nil {
		return nil, err
	}

	now := l.clock.Now()
	return l.cascade(ctx, driverID, payoutID, order.Paid, func(o *order.Order) error {
		return o.MarkUnpaid(now)
	})
}

// SyncPaidStatus flips an order that is still Livré to Paid when its payout
// has been paid in the meantime. An order without a payout link is matched to
// a paid payout of its driver listing its name. It reports whether the order changed.
func (l PayoutLedger) SyncPaidStatus(ctx context.Context, o *order.Order) (bool, error) {
	if o.Status() != order.Delivered {
		return false, nil
	}

	p, err := l.payoutOf(ctx, o)
	if err != nil || p == nil || p.IsOpen() {
		return false, err
	}

	if _, linked := o.PayoutID(); !linked {
		if err = o.AttachPayout(p.PayoutID(), o.DriverFee()); err != nil {
			return false, err
		}
	}
	if err = o.MarkPaid(l.clock.Now()); err != nil {
		return false, err
	}
	if err = l.orders.Update(ctx, o); err != nil {
		return false, err
	}
	return true, nil
}

func (l PayoutLedger) payoutOf(ctx context.Context, o *order.Order) (*payout.Payout, error) {
	if payoutID, ok := o.PayoutID(); ok {
		p, err := l.payouts.Get(ctx, o.DriverID(), payoutID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil
		}
		return p, err
	}

	all, err := l.payouts.List(ctx, o.DriverID())
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if !p.IsOpen() && p.Contains(o.Name()) {
			return p, nil
		}
	}
	return nil, nil
}

func (l PayoutLedger) cascade(
	ctx context.Context,
	driverID, payoutID string,
	from order.Status,
	apply func(*order.Order) error,
) ([]*order.Order, error) {
	members, err := l.orders.ListByPayout(ctx, driverID, payoutID)
	if err != nil {
		return nil, err
	}

	changed := make([]*order.Order, 0, len(members))
	for _, o := range members {
		if o.Status() != from {
			continue
		}
		if err = apply(o); err != nil {
			return nil, err
		}
		if err = l.orders.Update(ctx, o); err != nil {
			return nil, fmt.Errorf("cascade payout %s to order %s: %w", payoutID, o.Name(), err)
		}
		changed = append(changed, o)
	}
	return changed, nil
}

func (l PayoutLedger) nextPayoutID(ctx context.Context, driverID string, now time.Time) (string, error) {
	for seq := 1; seq <= maxPayoutsPerMinute; seq++ {
		id := payout.NewPayoutID(now, seq)
		taken, err := l.payouts.Exists(ctx, driverID, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", errs.NewConflictError("payout", "too many payouts opened within one minute")
}
