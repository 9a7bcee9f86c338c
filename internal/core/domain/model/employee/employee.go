// Package employee models the action journal kept by office staff.
package employee

import (
	"strings"
	"time"

	"driverdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// LogEntry records one staff action on an order, optionally with an amount.
type LogEntry struct {
	ID        int64
	Timestamp time.Time
	Employee  string
	Order     string
	Amount    *decimal.Decimal
}

// NewLogEntry validates a journal line.
func NewLogEntry(employee, order string, amount *decimal.Decimal, at time.Time) (LogEntry, error) {
	employee = strings.TrimSpace(employee)
	if employee == "" {
		return LogEntry{}, errs.NewValueIsRequiredError("employee")
	}
	return LogEntry{
		Timestamp: at,
		Employee:  employee,
		Order:     strings.TrimSpace(order),
		Amount:    amount,
	}, nil
}
