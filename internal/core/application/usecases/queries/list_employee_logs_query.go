package queries

import (
	"errors"

	"driverdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrListEmployeeLogsQueryIsNotConstructed = errors.New(
		"ListEmployeeLogsQuery must be created via NewListEmployeeLogsQuery constructor",
	)
	ErrListDriversQueryIsNotConstructed = errors.New(
		"ListDriversQuery must be created via NewListDriversQuery constructor",
	)
)

type ListEmployeeLogsQuery struct {
	guard guard.ConstructorGuard
}

func NewListEmployeeLogsQuery() ListEmployeeLogsQuery {
	return ListEmployeeLogsQuery{guard: guard.NewConstructorGuard()}
}

func (q ListEmployeeLogsQuery) Validate() error {
	return q.guard.Validate(ErrListEmployeeLogsQueryIsNotConstructed)
}

// EmployeeLogView is one journal line. Amount is null when none was recorded.
type EmployeeLogView struct {
	Timestamp string           `json:"timestamp"`
	Employee  string           `json:"employee"`
	Order     string           `json:"order"`
	Amount    *decimal.Decimal `json:"amount"`
}

type ListDriversQuery struct {
	guard guard.ConstructorGuard
}

func NewListDriversQuery() ListDriversQuery {
	return ListDriversQuery{guard: guard.NewConstructorGuard()}
}

func (q ListDriversQuery) Validate() error {
	return q.guard.Validate(ErrListDriversQueryIsNotConstructed)
}
