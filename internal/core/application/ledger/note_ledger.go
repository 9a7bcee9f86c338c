package ledger

import (
	"context"
	"errors"
	"fmt"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/errs"
)

// NoteLedger files scans into the driver's open delivery note and answers
// whether an order is released for payout.
type NoteLedger struct {
	notes ports.NoteRepository
	clock kernel.Clock
}

func NewNoteLedger(notes ports.NoteRepository, clock kernel.Clock) NoteLedger {
	return NoteLedger{notes: notes, clock: clock}
}

// Attach files o into the open note of its driver, opening the note lazily.
// o must already be stored.
func (l NoteLedger) Attach(ctx context.Context, o *order.Order) (*note.Note, error) {
	item := note.Item{OrderID: o.ID(), OrderName: o.Name(), ScannedAt: l.clock.Now()}

	open, err := l.notes.GetOpen(ctx, o.DriverID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		created, newErr := note.NewNote(o.DriverID(), item.ScannedAt)
		if newErr != nil {
			return nil, newErr
		}
		if err = created.AddItem(item); err != nil {
			return nil, err
		}
		if err = l.notes.Add(ctx, created); err != nil {
			return nil, fmt.Errorf("open note for %s: %w", o.DriverID(), err)
		}
		return created, nil
	}
	if err != nil {
		return nil, err
	}

	if err = open.AddItem(item); err != nil {
		return nil, err
	}
	if err = l.notes.Update(ctx, open); err != nil {
		return nil, err
	}
	return open, nil
}

// ReleasedForPayout reports whether a delivery of o may be counted now:
// the order has no note or its note is approved.
func (l NoteLedger) ReleasedForPayout(ctx context.Context, o *order.Order) (bool, error) {
	owning, err := l.notes.FindByOrder(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !owning.IsDraft(), nil
}
