package ports

import (
	"context"

	"driverdesk/internal/core/domain/model/employee"
)

// EmployeeLogRepository stores the staff action journal.
type EmployeeLogRepository interface {
	Add(ctx context.Context, entry *employee.LogEntry) error

	// List returns entries newest first.
	List(ctx context.Context) ([]employee.LogEntry, error)
}
