package queries

import (
	"context"
	"time"

	"driverdesk/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

type SearchOrdersQueryHandler struct {
	db *gorm.DB
}

func NewSearchOrdersQueryHandler(db *gorm.DB) SearchOrdersQueryHandler {
	return SearchOrdersQueryHandler{db: db}
}

func (h SearchOrdersQueryHandler) Handle(ctx context.Context, query SearchOrdersQuery) ([]SearchHit, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	pattern := "%" + escapeLike(query.Term()) + "%"
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			driver_id, order_name, customer_name, customer_phone, delivery_status,
			cash_amount, address, scheduled_time, notes, follow_log, timestamp
		FROM orders
		WHERE order_name ILIKE ? OR customer_phone ILIKE ?
		ORDER BY driver_id, timestamp DESC
	`, pattern, pattern).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hits := make([]SearchHit, 0)
	for rows.Next() {
		var (
			hit       SearchHit
			scannedAt time.Time
		)
		err = rows.Scan(
			&hit.Driver, &hit.OrderName, &hit.CustomerName, &hit.CustomerPhone, &hit.DeliveryStatus,
			&hit.CashAmount, &hit.Address, &hit.ScheduledTime, &hit.Notes, &hit.FollowLog, &scannedAt,
		)
		if err != nil {
			return nil, err
		}
		hit.Timestamp = kernel.FormatTimestamp(scannedAt)
		hits = append(hits, hit)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return hits, nil
}
