package ledger_test

import (
	"testing"

	"driverdesk/internal/core/application/ledger"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteLedger_AttachReusesOpenNote(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewNoteLedger(uow.NoteRepository(), kernel.FixedClock(base))

	var noteIDs []int64
	for _, name := range []string{"#1", "#2"} {
		o, err := order.NewOrder("d1", name, order.Details{}, decimal.Zero, decimal.NewFromInt(20), base)
		require.NoError(t, err)
		require.NoError(t, uow.OrderRepository().Add(ctx, o))

		n, err := l.Attach(ctx, o)
		require.NoError(t, err)
		noteIDs = append(noteIDs, n.ID())
	}

	assert.Equal(t, noteIDs[0], noteIDs[1])

	open, err := uow.NoteRepository().GetOpen(ctx, "d1")
	require.NoError(t, err)
	assert.Len(t, open.Items(), 2)
}

func TestNoteLedger_ReleasedForPayout(t *testing.T) {
	ctx := t.Context()
	uow := newUoW(t)
	l := ledger.NewNoteLedger(uow.NoteRepository(), kernel.FixedClock(base))

	loose := deliveredOrder(t, uow, "d1", "#1", 100)
	released, err := l.ReleasedForPayout(ctx, loose)
	require.NoError(t, err)
	assert.True(t, released)

	held := deliveredOrder(t, uow, "d1", "#2", 100)
	n, err := l.Attach(ctx, held)
	require.NoError(t, err)

	released, err = l.ReleasedForPayout(ctx, held)
	require.NoError(t, err)
	assert.False(t, released)

	require.NoError(t, n.Approve(base))
	require.NoError(t, uow.NoteRepository().Update(ctx, n))

	released, err = l.ReleasedForPayout(ctx, held)
	require.NoError(t, err)
	assert.True(t, released)
}
