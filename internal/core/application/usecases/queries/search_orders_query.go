package queries

import (
	"errors"
	"strings"

	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrSearchOrdersQueryIsNotConstructed = errors.New(
	"SearchOrdersQuery must be created via NewSearchOrdersQuery constructor",
)

// SearchOrdersQuery matches a substring of the order name or customer phone,
// ignoring case, across drivers.
type SearchOrdersQuery struct {
	term string

	guard guard.ConstructorGuard
}

func NewSearchOrdersQuery(term string) (SearchOrdersQuery, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return SearchOrdersQuery{}, errs.NewValueIsRequiredError("q")
	}
	return SearchOrdersQuery{term: term, guard: guard.NewConstructorGuard()}, nil
}

func (q SearchOrdersQuery) Term() string {
	return q.term
}

func (q SearchOrdersQuery) Validate() error {
	return q.guard.Validate(ErrSearchOrdersQueryIsNotConstructed)
}

type SearchHit struct {
	Driver         string          `json:"driver"`
	OrderName      string          `json:"orderName"`
	CustomerName   string          `json:"customerName"`
	CustomerPhone  string          `json:"customerPhone"`
	DeliveryStatus string          `json:"deliveryStatus"`
	CashAmount     decimal.Decimal `json:"cashAmount"`
	Address        string          `json:"address"`
	ScheduledTime  string          `json:"scheduledTime"`
	Notes          string          `json:"notes"`
	FollowLog      string          `json:"followLog"`
	Timestamp      string          `json:"timestamp"`
}
