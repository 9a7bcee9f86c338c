package ports

import (
	"context"

	"driverdesk/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are addressed by their natural key (driver, order name).
type OrderRepository interface {
	// Add inserts a new order and assigns its storage id.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists every mutable field of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads the order of driverID named name.
	// Returns ObjectNotFoundError when there is none.
	Get(ctx context.Context, driverID, name string) (*order.Order, error)

	// Exists reports whether driverID already scanned name.
	Exists(ctx context.Context, driverID, name string) (bool, error)

	// ListVisible returns every order of driverID that is not held back by a
	// draft delivery note, regardless of status.
	ListVisible(ctx context.Context, driverID string) ([]*order.Order, error)

	// ListByIDs loads orders by storage id. Missing ids are skipped.
	ListByIDs(ctx context.Context, ids []int64) ([]*order.Order, error)

	// ListByPayout returns the orders of driverID carrying payoutID.
	ListByPayout(ctx context.Context, driverID, payoutID string) ([]*order.Order, error)

	// FindLatestByName returns the most recently scanned order named name across drivers.
	// Returns ObjectNotFoundError when nobody scanned it.
	FindLatestByName(ctx context.Context, name string) (*order.Order, error)
}
