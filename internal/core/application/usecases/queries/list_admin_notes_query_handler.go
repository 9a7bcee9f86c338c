package queries

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"driverdesk/internal/core/application/ledger"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/keylock"
)

// ListAdminNotesQueryHandler lists notes with per-note outcome counts. Before
// counting, delivered orders whose payout was paid in the meantime are moved
// to Paid. That sync writes, so it runs per driver in a unit of work under the
// driver's lock.
type ListAdminNotesQueryHandler struct {
	uowFactory  ports.UnitOfWorkFactory
	invalidator ports.ViewInvalidator
	locker      *keylock.Locker
	clock       kernel.Clock
}

func NewListAdminNotesQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	invalidator ports.ViewInvalidator,
	locker *keylock.Locker,
	clock kernel.Clock,
) ListAdminNotesQueryHandler {
	return ListAdminNotesQueryHandler{
		uowFactory:  uowFactory,
		invalidator: invalidator,
		locker:      locker,
		clock:       clock,
	}
}

func (h ListAdminNotesQueryHandler) Handle(ctx context.Context, query ListAdminNotesQuery) ([]AdminNote, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	reader := h.uowFactory.Create()
	if query.DriverID() != "" {
		exists, err := reader.DriverRepository().Exists(ctx, query.DriverID())
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errs.NewObjectNotFoundError("driver", query.DriverID())
		}
	}

	notes, err := reader.NoteRepository().List(ctx, query.DriverID(), "")
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	idsByDriver := make(map[string][]int64)
	for _, n := range notes {
		for _, it := range n.Items() {
			idsByDriver[n.DriverID()] = append(idsByDriver[n.DriverID()], it.OrderID)
		}
	}

	// Drivers are locked one at a time in a stable order.
	byID := make(map[int64]*order.Order)
	for _, driverID := range slices.Sorted(maps.Keys(idsByDriver)) {
		orders, changed, syncErr := h.syncPaid(ctx, driverID, idsByDriver[driverID])
		if syncErr != nil {
			return nil, syncErr
		}
		if changed {
			h.invalidator.InvalidateDriver(driverID)
		}
		for _, o := range orders {
			byID[o.ID()] = o
		}
	}

	result := make([]AdminNote, 0, len(notes))
	for _, n := range notes {
		view := AdminNote{
			ID:        n.ID(),
			Driver:    n.DriverID(),
			CreatedAt: kernel.FormatTimestamp(n.CreatedAt()),
			Status:    string(n.Status()),
			Items:     make([]AdminNoteItem, 0, len(n.Items())),
		}
		for _, it := range n.Items() {
			o, ok := byID[it.OrderID]
			if !ok {
				continue
			}
			view.Items = append(view.Items, AdminNoteItem{OrderName: o.Name(), Status: o.Status().String()})
			switch s := o.Status(); {
			case s == order.Delivered || s == order.Paid:
				view.Summary.Delivered++
			case s == order.Cancelled || s == order.Refused:
				view.Summary.Cancelled++
			case s == order.Returned:
				view.Summary.Returned++
			}
		}
		result = append(result, view)
	}

	return result, nil
}

// syncPaid loads the note orders of one driver and moves the ones whose payout
// was paid to Paid. It reports whether any order changed.
func (h ListAdminNotesQueryHandler) syncPaid(ctx context.Context, driverID string, ids []int64) ([]*order.Order, bool, error) {
	unlock := h.locker.Lock(driverID)
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, false, err
	}
	defer func() { _ = uow.Rollback(ctx) }()

	orders, err := uow.OrderRepository().ListByIDs(ctx, ids)
	if err != nil {
		return nil, false, fmt.Errorf("load note orders of %s: %w", driverID, err)
	}

	payouts := ledger.NewPayoutLedger(uow.PayoutRepository(), uow.OrderRepository(), h.clock)
	changed := false
	for _, o := range orders {
		synced, syncErr := payouts.SyncPaidStatus(ctx, o)
		if syncErr != nil {
			return nil, false, fmt.Errorf("sync paid status of %s: %w", o.Name(), syncErr)
		}
		changed = changed || synced
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, false, err
	}
	return orders, changed, nil
}
