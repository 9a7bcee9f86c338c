package queries_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/services"
	"driverdesk/internal/core/ports/memstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

var clock = kernel.FixedClock(now)

var fees = services.NewFeeClassifier(services.DefaultTariff())

// mapCache is a ViewCache without expiry that counts loads.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]any
	loads   int
}

func (c *mapCache) GetOrLoad(ctx context.Context, driverID, view string, load func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]any)
	}
	key := driverID + "/" + view
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	v, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.loads++
	c.entries[key] = v
	return v, nil
}

func (c *mapCache) InvalidateDriver(driverID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if len(key) > len(driverID) && key[:len(driverID)+1] == driverID+"/" {
			delete(c.entries, key)
		}
	}
}

type invalidations struct {
	mu      sync.Mutex
	drivers []string
}

func (i *invalidations) InvalidateDriver(driverID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.drivers = append(i.drivers, driverID)
}

// seedOrder stores an order scanned at scannedAt, moved to status and filed
// into a note of noteStatus when one is given.
func seedOrder(
	t *testing.T,
	store *memstore.Store,
	driverID, name string,
	cash int64,
	status order.Status,
	scannedAt time.Time,
	noteStatus note.Status,
) *order.Order {
	t.Helper()
	ctx := t.Context()
	uow := store.Create()
	require.NoError(t, uow.Begin(ctx))

	o, err := order.NewOrder(driverID, name, order.Details{}, decimal.NewFromInt(cash), fees.DriverFee(""), scannedAt)
	require.NoError(t, err)
	if status != order.Dispatched {
		_, err = o.ChangeStatus(status, scannedAt.Add(time.Minute))
		require.NoError(t, err)
	}
	require.NoError(t, uow.OrderRepository().Add(ctx, o))

	if noteStatus != "" {
		n, noteErr := note.NewNote(driverID, scannedAt)
		require.NoError(t, noteErr)
		require.NoError(t, n.AddItem(note.Item{OrderID: o.ID(), OrderName: name, ScannedAt: scannedAt}))
		if noteStatus == note.Approved {
			require.NoError(t, n.Approve(scannedAt.Add(time.Minute)))
		}
		require.NoError(t, uow.NoteRepository().Add(ctx, n))
	}

	require.NoError(t, uow.Commit(ctx))
	return o
}
