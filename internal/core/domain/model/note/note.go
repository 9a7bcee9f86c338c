// Package note provides the DeliveryNote aggregate: the batch of parcels a driver
// scanned in one working session.
//
// A note starts as a draft that collects scans. Approving it is irreversible and
// releases its orders to the driver-facing views.
package note

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"driverdesk/internal/pkg/errs"
)

var ErrNoteIsNotConstructed = errors.New("Note must be created via NewNote constructor")

// Status is the approval state of a note, persisted as its value.
type Status string

const (
	Draft    Status = "draft"
	Approved Status = "approved"
)

// ParseStatus accepts the two persisted values.
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case Draft, Approved:
		return s, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("note status", fmt.Errorf("%q is not a note status", raw))
	}
}

// Item links one scanned order to the note.
type Item struct {
	OrderID   int64
	OrderName string
	ScannedAt time.Time
}

// Note is a batch of scans. Orders of a draft note are hidden from drivers.
type Note struct {
	id         int64
	driverID   string
	createdAt  time.Time
	status     Status
	approvedAt *time.Time
	items      []Item

	isConstructed bool
}

// NewNote opens an empty draft note for driverID.
func NewNote(driverID string, createdAt time.Time) (*Note, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return nil, errs.NewValueIsRequiredError("driver")
	}
	return &Note{
		driverID:      driverID,
		createdAt:     createdAt,
		status:        Draft,
		isConstructed: true,
	}, nil
}

// RestoreNote rebuilds a note from storage.
func RestoreNote(
	id int64,
	driverID string,
	createdAt time.Time,
	status Status,
	approvedAt *time.Time,
	items []Item,
) (*Note, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, err
	}
	n, err := NewNote(driverID, createdAt)
	if err != nil {
		return nil, err
	}
	n.id = id
	n.status = status
	n.approvedAt = approvedAt
	n.items = append([]Item(nil), items...)
	return n, nil
}

func (n *Note) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNoteIsNotConstructed
	}
	return nil
}

// AssignID records the storage identity after insert.
func (n *Note) AssignID(id int64) {
	n.id = id
}

func (n *Note) ID() int64 {
	return n.id
}

func (n *Note) DriverID() string {
	return n.driverID
}

func (n *Note) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Note) Status() Status {
	return n.status
}

func (n *Note) IsDraft() bool {
	return n.status == Draft
}

func (n *Note) ApprovedAt() (time.Time, bool) {
	if n.approvedAt == nil {
		return time.Time{}, false
	}
	return *n.approvedAt, true
}

// Items returns a copy of the items in scan order.
func (n *Note) Items() []Item {
	return append([]Item(nil), n.items...)
}

// Contains reports whether the order is part of the note.
func (n *Note) Contains(orderID int64) bool {
	for _, it := range n.items {
		if it.OrderID == orderID {
			return true
		}
	}
	return false
}

// AddItem attaches a scanned order. Only drafts accept items and an order joins at most once.
func (n *Note) AddItem(item Item) error {
	if !n.IsDraft() {
		return errs.NewConflictError(n.label(), "only draft notes accept scans")
	}
	if item.OrderID <= 0 || item.OrderName == "" {
		return errs.NewValueIsRequiredError("note item order")
	}
	if n.Contains(item.OrderID) {
		return errs.NewConflictError(n.label(), fmt.Sprintf("order %s is already in the note", item.OrderName))
	}
	n.items = append(n.items, item)
	return nil
}

// RemoveItem detaches the order named orderName from a draft note.
func (n *Note) RemoveItem(orderName string) (Item, error) {
	if !n.IsDraft() {
		return Item{}, errs.NewConflictError(n.label(), "items of an approved note are frozen")
	}
	for i, it := range n.items {
		if it.OrderName == orderName {
			n.items = append(n.items[:i:i], n.items[i+1:]...)
			return it, nil
		}
	}
	return Item{}, errs.NewObjectNotFoundError("note item", orderName)
}

// Approve freezes the note. Approving twice or approving an empty note is a conflict.
func (n *Note) Approve(at time.Time) error {
	if !n.IsDraft() {
		return errs.NewConflictError(n.label(), "note is already approved")
	}
	if len(n.items) == 0 {
		return errs.NewConflictError(n.label(), "note has no items")
	}
	n.status = Approved
	n.approvedAt = &at
	return nil
}

func (n *Note) label() string {
	return fmt.Sprintf("note %d", n.id)
}
