package queries

import (
	"errors"

	"driverdesk/internal/core/domain/services"
	"driverdesk/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery reads one view of a driver's orders.
type ListOrdersQuery struct {
	driverID string
	view     services.View

	guard guard.ConstructorGuard
}

// NewListOrdersQuery accepts the view names active, archive, all and followups.
func NewListOrdersQuery(driverID, view string) (ListOrdersQuery, error) {
	driverID, driverErr := validateDriverID(driverID)
	v, viewErr := services.ParseView(view)
	if err := errors.Join(driverErr, viewErr); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{driverID: driverID, view: v, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) DriverID() string {
	return q.driverID
}

func (q ListOrdersQuery) View() services.View {
	return q.view
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}
