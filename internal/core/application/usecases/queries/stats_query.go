package queries

import (
	"errors"

	"driverdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetStatsQueryIsNotConstructed = errors.New(
		"GetStatsQuery must be created via NewGetStatsQuery constructor",
	)
	ErrAdminStatsQueryIsNotConstructed = errors.New(
		"AdminStatsQuery must be created via NewAdminStatsQuery constructor",
	)
)

// GetStatsQuery aggregates one driver's orders scanned within a period.
type GetStatsQuery struct {
	driverID string
	period   Period

	guard guard.ConstructorGuard
}

func NewGetStatsQuery(driverID string, period Period) (GetStatsQuery, error) {
	driverID, err := validateDriverID(driverID)
	if err != nil {
		return GetStatsQuery{}, err
	}
	return GetStatsQuery{driverID: driverID, period: period, guard: guard.NewConstructorGuard()}, nil
}

func (q GetStatsQuery) DriverID() string {
	return q.driverID
}

func (q GetStatsQuery) Period() Period {
	return q.period
}

func (q GetStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatsQueryIsNotConstructed)
}

// AdminStatsQuery computes GetStatsQuery for every driver.
type AdminStatsQuery struct {
	period Period

	guard guard.ConstructorGuard
}

func NewAdminStatsQuery(period Period) AdminStatsQuery {
	return AdminStatsQuery{period: period, guard: guard.NewConstructorGuard()}
}

func (q AdminStatsQuery) Period() Period {
	return q.period
}

func (q AdminStatsQuery) Validate() error {
	return q.guard.Validate(ErrAdminStatsQueryIsNotConstructed)
}

// Stats counts delivered orders (Livré or Paid) against every order of the
// period. Returned covers Returned, Annulé and Refusé; their cash is the
// cancelled amount. DeliveryRate is a percentage.
type Stats struct {
	TotalOrders    int             `json:"totalOrders"`
	Delivered      int             `json:"delivered"`
	Returned       int             `json:"returned"`
	TotalCollect   decimal.Decimal `json:"totalCollect"`
	TotalFees      decimal.Decimal `json:"totalFees"`
	DeliveryRate   float64         `json:"deliveryRate"`
	CanceledAmount decimal.Decimal `json:"canceledAmount"`
}
