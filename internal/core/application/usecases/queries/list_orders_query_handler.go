package queries

import (
	"context"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/services"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/errs"
)

// ListOrdersQueryHandler serves the driver views from the visible orders of
// the driver. Results are cached per (driver, view).
type ListOrdersQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	views      services.OrderViews
	cache      ViewCache
	clock      kernel.Clock
}

func NewListOrdersQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	views services.OrderViews,
	cache ViewCache,
	clock kernel.Clock,
) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{
		uowFactory: uowFactory,
		views:      views,
		cache:      cache,
		clock:      clock,
	}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderItem, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	exists, err := uow.DriverRepository().Exists(ctx, query.DriverID())
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("driver", query.DriverID())
	}

	return cached(ctx, h.cache, query.DriverID(), "orders:"+string(query.View()),
		func(ctx context.Context) ([]OrderItem, error) {
			orders, listErr := uow.OrderRepository().ListVisible(ctx, query.DriverID())
			if listErr != nil {
				return nil, listErr
			}

			selected := h.views.Select(query.View(), orders, h.clock.Now())
			items := make([]OrderItem, 0, len(selected))
			for _, it := range selected {
				items = append(items, newOrderItem(it.Order, it.Urgent))
			}
			return items, nil
		})
}
