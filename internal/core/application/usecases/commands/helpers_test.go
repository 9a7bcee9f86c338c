package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/model/verification"
	"driverdesk/internal/core/domain/services"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/core/ports/memstore"
	"driverdesk/internal/pkg/keylock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

var clock = kernel.FixedClock(now)

var fees = services.NewFeeClassifier(services.DefaultTariff())

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memFactory struct{ store *memstore.Store }

func (f memFactory) Create() commands.UoW {
	return f.store.Create()
}

// recorder captures every post-commit side effect.
type recorder struct {
	mu             sync.Mutex
	events         []ports.Event
	invalidated    []string
	scans          []string
	transitions    [][2]string
	cascades       map[string]int
	lookupFailures []string
}

func (r *recorder) Publish(_ context.Context, events ...ports.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *recorder) InvalidateDriver(driverID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated = append(r.invalidated, driverID)
}

func (r *recorder) ScanRecorded(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scans = append(r.scans, result)
}

func (r *recorder) StatusChanged(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, [2]string{from, to})
}

func (r *recorder) PayoutCascade(direction string, orders int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cascades == nil {
		r.cascades = make(map[string]int)
	}
	r.cascades[direction] += orders
}

func (r *recorder) LookupFailed(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookupFailures = append(r.lookupFailures, source)
}

func (r *recorder) eventTypes() []ports.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ports.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store   *memstore.Store
	factory memFactory
	locker  *keylock.Locker
	rec     *recorder
	effects commands.Effects
}

func newFixture(drivers ...string) *fixture {
	if len(drivers) == 0 {
		drivers = []string{"d1"}
	}
	store := memstore.New(drivers...)
	rec := &recorder{}
	return &fixture{
		store:   store,
		factory: memFactory{store},
		locker:  keylock.New(),
		rec:     rec,
		effects: commands.NewEffects(rec, rec, rec),
	}
}

// seedOrder stores an order directly, optionally moved to status and filed
// into a note with the given approval state.
func (f *fixture) seedOrder(t *testing.T, driverID, name, tags string, cash int64, status order.Status, noteStatus note.Status) *order.Order {
	t.Helper()
	ctx := t.Context()
	uow := f.store.Create()
	require.NoError(t, uow.Begin(ctx))

	o, err := order.NewOrder(driverID, name, order.Details{Tags: tags}, decimal.NewFromInt(cash), fees.DriverFee(tags), now.Add(-time.Hour))
	require.NoError(t, err)
	if status != order.Dispatched {
		_, err = o.ChangeStatus(status, now.Add(-time.Hour))
		require.NoError(t, err)
	}
	require.NoError(t, uow.OrderRepository().Add(ctx, o))

	if noteStatus != "" {
		n, noteErr := uow.NoteRepository().GetOpen(ctx, driverID)
		if noteErr != nil {
			n, err = note.NewNote(driverID, now.Add(-2*time.Hour))
			require.NoError(t, err)
			require.NoError(t, n.AddItem(note.Item{OrderID: o.ID(), OrderName: name, ScannedAt: now}))
			require.NoError(t, uow.NoteRepository().Add(ctx, n))
		} else {
			require.NoError(t, n.AddItem(note.Item{OrderID: o.ID(), OrderName: name, ScannedAt: now}))
		}
		if noteStatus == note.Approved {
			require.NoError(t, n.Approve(now.Add(-time.Minute)))
		}
		require.NoError(t, uow.NoteRepository().Update(ctx, n))
	}

	require.NoError(t, uow.Commit(ctx))
	return o
}

func (f *fixture) order(t *testing.T, driverID, name string) *order.Order {
	t.Helper()
	o, err := f.store.Create().OrderRepository().Get(t.Context(), driverID, name)
	require.NoError(t, err)
	return o
}

func (f *fixture) addVerificationRow(t *testing.T, e verification.Expected) *verification.Row {
	t.Helper()
	row, err := verification.NewRow(e)
	require.NoError(t, err)
	require.NoError(t, f.store.Create().VerificationRepository().Add(t.Context(), row))
	return row
}

func ptr[T any](v T) *T {
	return &v
}
