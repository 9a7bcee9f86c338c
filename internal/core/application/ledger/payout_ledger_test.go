package ledger_test

import (
	"testing"
	"time"

	"driverdesk/internal/core/application/ledger"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/model/payout"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/core/ports/memstore"
	"driverdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func newUoW(t *testing.T) ports.UnitOfWork {
	t.Helper()
	uow := memstore.New("d1", "d2").Create()
	require.NoError(t, uow.Begin(t.Context()))
	return uow
}

func deliveredOrder(t *testing.T, uow ports.UnitOfWork, driverID, name string, cash int64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(driverID, name, order.Details{}, decimal.NewFromInt(cash), decimal.NewFromInt(20), base)
	require.NoError(t, err)
	_, err = o.ChangeStatus(order.Delivered, base)
	require.NoError(t, err)
	require.NoError(t, uow.OrderRepository().Add(t.Context(), o))
	return o
}

func TestPayoutLedger_Add_OpensThenExtends(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base))

	first, err := l.Add(ctx, "d1", "#1", decimal.NewFromInt(300), decimal.NewFromInt(20))
	require.NoError(t, err)
	second, err := l.Add(ctx, "d1", "#2", decimal.NewFromInt(100), decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.Equal(t, "PO-20240501-1030", first)
	assert.Equal(t, first, second)

	p, err := uow.PayoutRepository().Get(ctx, "d1", first)
	require.NoError(t, err)
	assert.Equal(t, []string{"#1", "#2"}, p.Orders())
	assert.True(t, decimal.NewFromInt(400).Equal(p.TotalCash()))
	assert.True(t, decimal.NewFromInt(30).Equal(p.TotalFees()))
	assert.True(t, decimal.NewFromInt(370).Equal(p.TotalPayout()))
}

func TestPayoutLedger_Add_SuffixesIDWithinSameMinute(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base))

	first, err := l.Add(ctx, "d1", "#1", decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)
	_, err = l.MarkPaid(ctx, "d1", first)
	require.NoError(t, err)

	second, err := l.Add(ctx, "d1", "#2", decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.Equal(t, "PO-20240501-1030-2", second)
}

func TestPayoutLedger_Remove(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base))

	id, err := l.Add(ctx, "d1", "#1", decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)

	removed, err := l.Remove(ctx, "d1", id, "#1", decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, removed)

	p, err := uow.PayoutRepository().Get(ctx, "d1", id)
	require.NoError(t, err)
	assert.Empty(t, p.Orders())
	assert.True(t, p.TotalPayout().IsZero())

	removed, err = l.Remove(ctx, "d1", id, "#1", decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = l.Remove(ctx, "d1", "PO-unknown", "#1", decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPayoutLedger_MarkPaid_CascadesToDeliveredOrders(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base))

	o := deliveredOrder(t, uow, "d1", "#1", 100)
	id, err := l.Add(ctx, "d1", o.Name(), o.CashAmount(), o.DriverFee())
	require.NoError(t, err)
	require.NoError(t, o.AttachPayout(id, o.DriverFee()))
	require.NoError(t, uow.OrderRepository().Update(ctx, o))

	changed, err := l.MarkPaid(ctx, "d1", id)
	require.NoError(t, err)
	require.Len(t, changed, 1)

	stored, err := uow.OrderRepository().Get(ctx, "d1", "#1")
	require.NoError(t, err)
	assert.Equal(t, order.Paid, stored.Status())

	p, err := uow.PayoutRepository().Get(ctx, "d1", id)
	require.NoError(t, err)
	assert.Equal(t, payout.Paid, p.Status())

	_, err = l.MarkPaid(ctx, "d1", id)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestPayoutLedger_MarkUnpaid(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base))

	o := deliveredOrder(t, uow, "d1", "#1", 100)
	id, err := l.Add(ctx, "d1", o.Name(), o.CashAmount(), o.DriverFee())
	require.NoError(t, err)
	require.NoError(t, o.AttachPayout(id, o.DriverFee()))
	require.NoError(t, uow.OrderRepository().Update(ctx, o))
	_, err = l.MarkPaid(ctx, "d1", id)
	require.NoError(t, err)

	changed, err := l.MarkUnpaid(ctx, "d1", id)
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, order.Delivered, changed[0].Status())

	_, err = l.MarkUnpaid(ctx, "d1", id)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestPayoutLedger_MarkUnpaid_ConflictsWithAnotherOpenPayout(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base))

	paid, err := l.Add(ctx, "d1", "#1", decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)
	_, err = l.MarkPaid(ctx, "d1", paid)
	require.NoError(t, err)

	later := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base.Add(time.Hour)))
	_, err = later.Add(ctx, "d1", "#2", decimal.NewFromInt(100), decimal.NewFromInt(20))
	require.NoError(t, err)

	_, err = l.MarkUnpaid(ctx, "d1", paid)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestPayoutLedger_MarkPaid_UnknownPayout(t *testing.T) {
	uow := newUoW(t)
	l := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base))

	_, err := l.MarkPaid(t.Context(), "d1", "PO-missing")
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestPayoutLedger_SyncPaidStatus(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base))

	linked := deliveredOrder(t, uow, "d1", "#1", 100)
	id, err := l.Add(ctx, "d1", linked.Name(), linked.CashAmount(), linked.DriverFee())
	require.NoError(t, err)
	require.NoError(t, linked.AttachPayout(id, linked.DriverFee()))

	changed, err := l.SyncPaidStatus(ctx, linked)
	require.NoError(t, err)
	assert.False(t, changed, "open payout leaves the order delivered")

	p, err := uow.PayoutRepository().Get(ctx, "d1", id)
	require.NoError(t, err)
	require.NoError(t, p.MarkPaid(base))
	require.NoError(t, uow.PayoutRepository().Update(ctx, p))

	changed, err = l.SyncPaidStatus(ctx, linked)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, order.Paid, linked.Status())
}

func TestPayoutLedger_SyncPaidStatus_MatchesUnlinkedOrderByName(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), kernel.FixedClock(base))

	id, err := l.Add(ctx, "d1", "#1", decimal.NewFromInt(50), decimal.NewFromInt(10))
	require.NoError(t, err)
	_, err = l.MarkPaid(ctx, "d1", id)
	require.NoError(t, err)

	unlinked := deliveredOrder(t, uow, "d1", "#1", 50)
	stranger := deliveredOrder(t, uow, "d1", "#2", 50)

	changed, err := l.SyncPaidStatus(ctx, unlinked)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, order.Paid, unlinked.Status())
	payoutID, ok := unlinked.PayoutID()
	assert.True(t, ok)
	assert.Equal(t, id, payoutID)

	changed, err = l.SyncPaidStatus(ctx, stranger)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, order.Delivered, stranger.Status())
}
