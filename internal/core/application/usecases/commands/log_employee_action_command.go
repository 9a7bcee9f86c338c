package commands

import (
	"errors"
	"strings"

	"driverdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrLogEmployeeActionCommandIsNotConstructed = errors.New(
	"LogEmployeeActionCommand must be created via NewLogEmployeeActionCommand constructor",
)

// LogEmployeeActionCommand appends one line to the staff journal.
type LogEmployeeActionCommand struct {
	employee string
	order    string
	amount   *decimal.Decimal

	guard guard.ConstructorGuard
}

func NewLogEmployeeActionCommand(employee, order string, amount *decimal.Decimal) (LogEmployeeActionCommand, error) {
	c := LogEmployeeActionCommand{
		employee: strings.TrimSpace(employee),
		order:    strings.TrimSpace(order),
		amount:   amount,
		guard:    guard.NewConstructorGuard(),
	}
	if err := validateRequired("employee", c.employee); err != nil {
		return LogEmployeeActionCommand{}, err
	}
	return c, nil
}

func (c *LogEmployeeActionCommand) Employee() string {
	return c.employee
}

func (c *LogEmployeeActionCommand) Order() string {
	return c.order
}

func (c *LogEmployeeActionCommand) Amount() *decimal.Decimal {
	return c.amount
}

func (c *LogEmployeeActionCommand) Validate() error {
	return c.guard.Validate(ErrLogEmployeeActionCommandIsNotConstructed)
}
