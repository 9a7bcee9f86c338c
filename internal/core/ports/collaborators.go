package ports

import (
	"context"
	"time"

	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/model/verification"

	"github.com/shopspring/decimal"
)

// StoreOrder is what an e-commerce store knows about an order.
type StoreOrder struct {
	Store             string
	CreatedAt         time.Time
	Tags              string
	FulfillmentStatus string
	CancelledAt       *time.Time
	TotalOutstanding  *decimal.Decimal
	TotalPrice        *decimal.Decimal
	Shipping          ShippingAddress
}

// ShippingAddress is the delivery destination of a store order.
type ShippingAddress struct {
	Name     string
	Phone    string
	Address1 string
	Address2 string
	City     string
	Province string
}

// OrderLookup queries the configured stores for an order name.
// An empty result means no store knows the order.
type OrderLookup interface {
	Lookup(ctx context.Context, orderName string) ([]StoreOrder, error)
}

// SheetLookup is the spreadsheet fallback for customer data.
type SheetLookup interface {
	LookupCustomer(ctx context.Context, orderName string) (order.Customer, bool, error)
}

// ExpectedOrderSource lists the externally expected orders of every date.
type ExpectedOrderSource interface {
	ExpectedOrders(ctx context.Context) ([]verification.Expected, error)
}

// EventType names a notification pushed to connected clients.
type EventType string

const (
	EventNewOrder     EventType = "new_order"
	EventStatusUpdate EventType = "status_update"
	EventNoteUpdate   EventType = "note_update"
	EventNoteApproved EventType = "note_approved"
)

// Event is one notification. Fields that do not apply stay empty.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	DriverID  string    `json:"driver"`
	OrderName string    `json:"order,omitempty"`
	Status    string    `json:"status,omitempty"`
	NoteID    int64     `json:"noteId,omitempty"`
	PayoutID  string    `json:"payoutId,omitempty"`
	At        time.Time `json:"at"`
}

// EventPublisher broadcasts events. Delivery is best effort and never fails the caller.
type EventPublisher interface {
	Publish(ctx context.Context, events ...Event)
}

// ViewInvalidator drops cached read views of a driver after a mutation.
type ViewInvalidator interface {
	InvalidateDriver(driverID string)
}

// Metrics records business counters.
type Metrics interface {
	ScanRecorded(result string)
	StatusChanged(from, to string)
	PayoutCascade(direction string, orders int)
	LookupFailed(source string)
}
