package queries

import (
	"errors"

	"driverdesk/internal/pkg/guard"
)

var ErrTagSummaryQueryIsNotConstructed = errors.New(
	"TagSummaryQuery must be created via NewTagSummaryQuery constructor",
)

// TagSummaryQuery counts non-deleted orders per primary display tag and store.
type TagSummaryQuery struct {
	guard guard.ConstructorGuard
}

func NewTagSummaryQuery() TagSummaryQuery {
	return TagSummaryQuery{guard: guard.NewConstructorGuard()}
}

func (q TagSummaryQuery) Validate() error {
	return q.guard.Validate(ErrTagSummaryQueryIsNotConstructed)
}

// TagSummary maps tag to store to order count.
type TagSummary map[string]map[string]int
