package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// OrderChanges lists the optional fields of a status update. Nil means "leave unchanged".
type OrderChanges struct {
	Status        *string
	Notes         *string
	DriverNote    *string
	ScheduledTime *string
	CashAmount    *decimal.Decimal
	CommLog       *string
	FollowLog     *string
}

// UpdateOrderStatusCommand changes the lifecycle status and the working fields
// of one order.
type UpdateOrderStatusCommand struct {
	driverID  string
	orderName string
	status    *order.Status
	changes   OrderChanges

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand validates the requested status against the
// requestable vocabulary. Paid cannot be requested: only a payout marks orders paid.
func NewUpdateOrderStatusCommand(driverID, orderName string, changes OrderChanges) (UpdateOrderStatusCommand, error) {
	c := UpdateOrderStatusCommand{
		driverID:  strings.TrimSpace(driverID),
		orderName: strings.TrimSpace(orderName),
		changes:   changes,
		guard:     guard.NewConstructorGuard(),
	}

	var driverErr, nameErr, statusErr, cashErr error
	if c.driverID == "" {
		driverErr = errs.NewValueIsRequiredError("driver")
	}
	if c.orderName == "" {
		nameErr = errs.NewValueIsRequiredError("order name")
	}
	if changes.Status != nil && *changes.Status != "" {
		c.status, statusErr = parseRequestedStatus(*changes.Status)
	}
	if changes.CashAmount != nil && changes.CashAmount.IsNegative() {
		cashErr = errs.NewValueIsInvalidErrorWithCause("cash amount", fmt.Errorf("%s is negative", changes.CashAmount))
	}

	if err := errors.Join(driverErr, nameErr, statusErr, cashErr); err != nil {
		return UpdateOrderStatusCommand{}, err
	}
	return c, nil
}

func parseRequestedStatus(label string) (*order.Status, error) {
	s, err := order.ParseStatus(label)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(order.RequestableStatuses(), s) {
		return nil, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q cannot be requested", label))
	}
	return &s, nil
}

func (c *UpdateOrderStatusCommand) DriverID() string {
	return c.driverID
}

func (c *UpdateOrderStatusCommand) OrderName() string {
	return c.orderName
}

// Status returns the requested status, if any.
func (c *UpdateOrderStatusCommand) Status() (order.Status, bool) {
	if c.status == nil {
		return order.Unknown, false
	}
	return *c.status, true
}

func (c *UpdateOrderStatusCommand) Changes() OrderChanges {
	return c.changes
}

func (c *UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}
