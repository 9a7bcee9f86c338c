package queries

import (
	"context"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"

	"gorm.io/gorm"
)

const statsSQL = `
	SELECT
		driver_id,
		COUNT(*) AS total_orders,
		COUNT(*) FILTER (WHERE delivery_status IN (@delivered)) AS delivered,
		COUNT(*) FILTER (WHERE delivery_status IN (@returned)) AS returned,
		COALESCE(SUM(cash_amount) FILTER (WHERE delivery_status IN (@delivered)), 0) AS total_collect,
		COALESCE(SUM(driver_fee) FILTER (WHERE delivery_status IN (@delivered)), 0) AS total_fees,
		COALESCE(SUM(cash_amount) FILTER (WHERE delivery_status IN (@returned)), 0) AS canceled_amount
	FROM orders
	WHERE (@from = '' OR scan_date >= @from)
		AND (@to = '' OR scan_date <= @to)
		AND (@driver = '' OR driver_id = @driver)
	GROUP BY driver_id
`

type statsRow struct {
	DriverID string
	Stats
}

// StatsQueryHandler serves both the driver and the admin statistics.
type StatsQueryHandler struct {
	db    *gorm.DB
	clock kernel.Clock
}

func NewStatsQueryHandler(db *gorm.DB, clock kernel.Clock) StatsQueryHandler {
	return StatsQueryHandler{db: db, clock: clock}
}

func (h StatsQueryHandler) Handle(ctx context.Context, query GetStatsQuery) (Stats, error) {
	if err := query.Validate(); err != nil {
		return Stats{}, err
	}
	if err := requireDriver(ctx, h.db, query.DriverID()); err != nil {
		return Stats{}, err
	}

	all, err := h.compute(ctx, query.DriverID(), query.Period())
	if err != nil {
		return Stats{}, err
	}
	return all[query.DriverID()], nil
}

// HandleAdmin returns one entry per provisioned driver, orders or not.
func (h StatsQueryHandler) HandleAdmin(ctx context.Context, query AdminStatsQuery) (map[string]Stats, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var drivers []string
	if err := h.db.WithContext(ctx).Raw(`SELECT id FROM drivers ORDER BY id`).Scan(&drivers).Error; err != nil {
		return nil, err
	}

	all, err := h.compute(ctx, "", query.Period())
	if err != nil {
		return nil, err
	}

	result := make(map[string]Stats, len(drivers))
	for _, d := range drivers {
		result[d] = all[d]
	}
	return result, nil
}

func (h StatsQueryHandler) compute(ctx context.Context, driverID string, period Period) (map[string]Stats, error) {
	from, to := period.Bounds(h.clock.Now())

	var rows []statsRow
	err := h.db.WithContext(ctx).Raw(statsSQL, map[string]any{
		"delivered": []string{order.Delivered.String(), order.Paid.String()},
		"returned":  []string{order.Returned.String(), order.Cancelled.String(), order.Refused.String()},
		"from":      from,
		"to":        to,
		"driver":    driverID,
	}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[string]Stats, len(rows))
	for _, r := range rows {
		s := r.Stats
		if s.TotalOrders > 0 {
			s.DeliveryRate = float64(s.Delivered) / float64(s.TotalOrders) * 100
		}
		result[r.DriverID] = s
	}
	return result, nil
}
