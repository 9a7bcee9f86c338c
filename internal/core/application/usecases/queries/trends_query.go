package queries

import (
	"errors"

	"driverdesk/internal/pkg/guard"
)

var ErrTrendsQueryIsNotConstructed = errors.New(
	"TrendsQuery must be created via NewTrendsQuery constructor",
)

// TrendsQuery counts deliveries per scan date across drivers. The period end
// defaults to today.
type TrendsQuery struct {
	period Period

	guard guard.ConstructorGuard
}

func NewTrendsQuery(period Period) TrendsQuery {
	return TrendsQuery{period: period, guard: guard.NewConstructorGuard()}
}

func (q TrendsQuery) Period() Period {
	return q.period
}

func (q TrendsQuery) Validate() error {
	return q.guard.Validate(ErrTrendsQueryIsNotConstructed)
}

type TrendPoint struct {
	Date      string `json:"date"`
	Delivered int    `json:"delivered"`
}
