package queries

import (
	"context"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"

	"gorm.io/gorm"
)

type TrendsQueryHandler struct {
	db    *gorm.DB
	clock kernel.Clock
}

func NewTrendsQueryHandler(db *gorm.DB, clock kernel.Clock) TrendsQueryHandler {
	return TrendsQueryHandler{db: db, clock: clock}
}

// Handle counts Livré orders only; dates without deliveries are absent.
func (h TrendsQueryHandler) Handle(ctx context.Context, query TrendsQuery) ([]TrendPoint, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	from, to := query.Period().BoundsUntilToday(h.clock.Now())

	points := make([]TrendPoint, 0)
	err := h.db.WithContext(ctx).Raw(`
		SELECT scan_date AS date, COUNT(*) AS delivered
		FROM orders
		WHERE delivery_status = @status
			AND scan_date <> ''
			AND (@from = '' OR scan_date >= @from)
			AND scan_date <= @to
		GROUP BY scan_date
		ORDER BY scan_date
	`, map[string]any{
		"status": order.Delivered.String(),
		"from":   from,
		"to":     to,
	}).Scan(&points).Error
	if err != nil {
		return nil, err
	}

	return points, nil
}
