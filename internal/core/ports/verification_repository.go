package ports

import (
	"context"

	"driverdesk/internal/core/domain/model/verification"
)

// VerificationRepository persists expected-order rows.
type VerificationRepository interface {
	Add(ctx context.Context, row *verification.Row) error
	Update(ctx context.Context, row *verification.Row) error

	// Get returns ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id int64) (*verification.Row, error)

	// FindByName returns every row for orderName, oldest first.
	FindByName(ctx context.Context, orderName string) ([]*verification.Row, error)

	// ListByDates returns rows whose order date lies in [start, end], newest id
	// first. A non-empty q keeps rows whose order name or customer name contains
	// it, case-insensitively.
	ListByDates(ctx context.Context, start, end, q string) ([]*verification.Row, error)
}
