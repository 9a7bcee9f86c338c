package commands

import (
	"errors"
	"strings"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/payout"
	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrSettlePayoutCommandIsNotConstructed = errors.New(
		"SettlePayoutCommand must be created via NewMarkPayoutPaidCommand or NewMarkPayoutUnpaidCommand",
	)
	ErrUpdatePayoutCommandIsNotConstructed = errors.New(
		"UpdatePayoutCommand must be created via NewUpdatePayoutCommand constructor",
	)
)

// SettlePayoutCommand marks a payout paid, or reopens it.
type SettlePayoutCommand struct {
	driverID string
	payoutID string
	paid     bool

	guard guard.ConstructorGuard
}

// NewMarkPayoutPaidCommand closes payoutID and marks its delivered orders Paid.
func NewMarkPayoutPaidCommand(driverID, payoutID string) (SettlePayoutCommand, error) {
	return newSettlePayoutCommand(driverID, payoutID, true)
}

// NewMarkPayoutUnpaidCommand reopens payoutID and moves its Paid orders back to Livré.
func NewMarkPayoutUnpaidCommand(driverID, payoutID string) (SettlePayoutCommand, error) {
	return newSettlePayoutCommand(driverID, payoutID, false)
}

func newSettlePayoutCommand(driverID, payoutID string, paid bool) (SettlePayoutCommand, error) {
	c := SettlePayoutCommand{
		driverID: strings.TrimSpace(driverID),
		payoutID: strings.TrimSpace(payoutID),
		paid:     paid,
		guard:    guard.NewConstructorGuard(),
	}
	if err := errors.Join(validateDriver(c.driverID), validateRequired("payout id", c.payoutID)); err != nil {
		return SettlePayoutCommand{}, err
	}
	return c, nil
}

func (c *SettlePayoutCommand) DriverID() string {
	return c.driverID
}

func (c *SettlePayoutCommand) PayoutID() string {
	return c.payoutID
}

// Paid is true for mark-paid and false for mark-unpaid.
func (c *SettlePayoutCommand) Paid() bool {
	return c.paid
}

func (c *SettlePayoutCommand) Validate() error {
	return c.guard.Validate(ErrSettlePayoutCommandIsNotConstructed)
}

// PayoutChanges lists the fields an admin may correct. Nil means "leave unchanged".
type PayoutChanges struct {
	Orders      []string
	TotalCash   *decimal.Decimal
	TotalFees   *decimal.Decimal
	TotalPayout *decimal.Decimal
	DateCreated *string
}

// UpdatePayoutCommand is an admin correction of a payout.
type UpdatePayoutCommand struct {
	driverID  string
	payoutID  string
	amendment payout.Amendment

	guard guard.ConstructorGuard
}

// NewUpdatePayoutCommand parses DateCreated leniently in loc.
func NewUpdatePayoutCommand(driverID, payoutID string, changes PayoutChanges, loc *time.Location) (UpdatePayoutCommand, error) {
	c := UpdatePayoutCommand{
		driverID: strings.TrimSpace(driverID),
		payoutID: strings.TrimSpace(payoutID),
		amendment: payout.Amendment{
			Orders:      changes.Orders,
			TotalCash:   changes.TotalCash,
			TotalFees:   changes.TotalFees,
			TotalPayout: changes.TotalPayout,
		},
		guard: guard.NewConstructorGuard(),
	}

	var dateErr error
	if changes.DateCreated != nil && strings.TrimSpace(*changes.DateCreated) != "" {
		created, err := kernel.ParseTimestamp(*changes.DateCreated, loc)
		if err != nil {
			dateErr = errs.NewValueIsInvalidErrorWithCause("date created", err)
		} else {
			c.amendment.CreatedAt = &created
		}
	}

	if err := errors.Join(
		validateDriver(c.driverID),
		validateRequired("payout id", c.payoutID),
		nonNegative("total cash", changes.TotalCash),
		nonNegative("total fees", changes.TotalFees),
		dateErr,
	); err != nil {
		return UpdatePayoutCommand{}, err
	}
	return c, nil
}

func (c *UpdatePayoutCommand) DriverID() string {
	return c.driverID
}

func (c *UpdatePayoutCommand) PayoutID() string {
	return c.payoutID
}

func (c *UpdatePayoutCommand) Amendment() payout.Amendment {
	return c.amendment
}

func (c *UpdatePayoutCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePayoutCommandIsNotConstructed)
}

func nonNegative(name string, v *decimal.Decimal) error {
	if v != nil && v.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(name, errors.New(v.String()+" is negative"))
	}
	return nil
}
