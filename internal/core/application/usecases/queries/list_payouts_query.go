package queries

import (
	"errors"

	"driverdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrListPayoutsQueryIsNotConstructed = errors.New(
	"ListPayoutsQuery must be created via NewListPayoutsQuery constructor",
)

// ListPayoutsQuery lists the payouts of a driver, newest first.
type ListPayoutsQuery struct {
	driverID string

	guard guard.ConstructorGuard
}

func NewListPayoutsQuery(driverID string) (ListPayoutsQuery, error) {
	driverID, err := validateDriverID(driverID)
	if err != nil {
		return ListPayoutsQuery{}, err
	}
	return ListPayoutsQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListPayoutsQuery) DriverID() string {
	return q.driverID
}

func (q ListPayoutsQuery) Validate() error {
	return q.guard.Validate(ErrListPayoutsQueryIsNotConstructed)
}

// PayoutOrder is a member order with its current amounts. Both amounts are
// zero when the order no longer exists.
type PayoutOrder struct {
	Name       string          `json:"name"`
	CashAmount decimal.Decimal `json:"cashAmount"`
	DriverFee  decimal.Decimal `json:"driverFee"`
}

type PayoutView struct {
	PayoutID     string          `json:"payoutId"`
	DateCreated  string          `json:"dateCreated"`
	Orders       []string        `json:"orders"`
	TotalCash    decimal.Decimal `json:"totalCash"`
	TotalFees    decimal.Decimal `json:"totalFees"`
	TotalPayout  decimal.Decimal `json:"totalPayout"`
	Status       string          `json:"status"`
	DatePaid     string          `json:"datePaid"`
	OrderDetails []PayoutOrder   `json:"orderDetails"`
}
