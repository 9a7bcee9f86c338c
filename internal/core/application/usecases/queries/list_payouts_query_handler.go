package queries

import (
	"context"
	"time"

	"driverdesk/internal/core/domain/model/kernel"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListPayoutsQueryHandler reads payouts with the current amounts of their
// member orders. Results are cached per driver.
type ListPayoutsQueryHandler struct {
	db    *gorm.DB
	cache ViewCache
}

func NewListPayoutsQueryHandler(db *gorm.DB, cache ViewCache) ListPayoutsQueryHandler {
	return ListPayoutsQueryHandler{db: db, cache: cache}
}

func (h ListPayoutsQueryHandler) Handle(ctx context.Context, query ListPayoutsQuery) ([]PayoutView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := requireDriver(ctx, h.db, query.DriverID()); err != nil {
		return nil, err
	}

	return cached(ctx, h.cache, query.DriverID(), "payouts", func(ctx context.Context) ([]PayoutView, error) {
		return h.load(ctx, query.DriverID())
	})
}

func (h ListPayoutsQueryHandler) load(ctx context.Context, driverID string) ([]PayoutView, error) {
	db := h.db.WithContext(ctx)

	rows, err := db.Raw(`
		SELECT payout_id, date_created, orders, total_cash, total_fees, total_payout, status, date_paid
		FROM payouts
		WHERE driver_id = ?
		ORDER BY date_created DESC, id DESC
	`, driverID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payouts := make([]PayoutView, 0)
	names := make([]string, 0)
	for rows.Next() {
		var (
			v           PayoutView
			dateCreated time.Time
			orders      pq.StringArray
			datePaid    *time.Time
		)
		err = rows.Scan(&v.PayoutID, &dateCreated, &orders, &v.TotalCash, &v.TotalFees, &v.TotalPayout, &v.Status, &datePaid)
		if err != nil {
			return nil, err
		}
		v.DateCreated = kernel.FormatTimestamp(dateCreated)
		if datePaid != nil {
			v.DatePaid = kernel.FormatTimestamp(*datePaid)
		}
		v.Orders = []string(orders)
		if v.Orders == nil {
			v.Orders = []string{}
		}
		names = append(names, v.Orders...)
		payouts = append(payouts, v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	amounts, err := h.memberAmounts(ctx, driverID, names)
	if err != nil {
		return nil, err
	}

	for i := range payouts {
		details := make([]PayoutOrder, 0, len(payouts[i].Orders))
		for _, name := range payouts[i].Orders {
			d, ok := amounts[name]
			if !ok {
				d = PayoutOrder{Name: name, CashAmount: decimal.Zero, DriverFee: decimal.Zero}
			}
			details = append(details, d)
		}
		payouts[i].OrderDetails = details
	}

	return payouts, nil
}

func (h ListPayoutsQueryHandler) memberAmounts(ctx context.Context, driverID string, names []string) (map[string]PayoutOrder, error) {
	amounts := make(map[string]PayoutOrder, len(names))
	if len(names) == 0 {
		return amounts, nil
	}

	var found []PayoutOrder
	err := h.db.WithContext(ctx).Raw(`
		SELECT order_name AS name, cash_amount, driver_fee
		FROM orders
		WHERE driver_id = ? AND order_name = ANY(?)
	`, driverID, pq.StringArray(names)).Scan(&found).Error
	if err != nil {
		return nil, err
	}

	for _, o := range found {
		amounts[o.Name] = o
	}
	return amounts, nil
}
