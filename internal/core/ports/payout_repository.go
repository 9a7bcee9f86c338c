package ports

import (
	"context"

	"driverdesk/internal/core/domain/model/payout"
)

// PayoutRepository persists payout batches.
type PayoutRepository interface {
	Add(ctx context.Context, aggregate *payout.Payout) error
	Update(ctx context.Context, aggregate *payout.Payout) error

	// Get loads payoutID of driverID. Returns ObjectNotFoundError when absent.
	Get(ctx context.Context, driverID, payoutID string) (*payout.Payout, error)

	// GetOpen loads the newest non-paid payout of driverID.
	// Returns ObjectNotFoundError when every payout is paid.
	GetOpen(ctx context.Context, driverID string) (*payout.Payout, error)

	// Exists reports whether driverID already owns payoutID.
	Exists(ctx context.Context, driverID, payoutID string) (bool, error)

	// List returns the payouts of driverID, newest first.
	List(ctx context.Context, driverID string) ([]*payout.Payout, error)
}
