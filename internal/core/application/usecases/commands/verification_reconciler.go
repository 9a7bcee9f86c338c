package commands

import (
	"context"
	"strings"

	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/model/verification"
	"driverdesk/internal/core/ports"
)

// SyncResult counts what one day's import did.
type SyncResult struct {
	Created    int
	Backfilled int
	// Skipped counts expected orders that could not be stored (bad name or date).
	Skipped int
}

func (r *SyncResult) add(other SyncResult) {
	r.Created += other.Created
	r.Backfilled += other.Backfilled
	r.Skipped += other.Skipped
}

// reconciler matches expected orders against driver scans inside one unit of work.
type reconciler struct {
	orders ports.OrderRepository
	rows   ports.VerificationRepository

	latest map[string]*order.Order
}

func newReconciler(orders ports.OrderRepository, rows ports.VerificationRepository) *reconciler {
	return &reconciler{orders: orders, rows: rows, latest: make(map[string]*order.Order)}
}

// syncDay stores the expected orders dated date. An expected order without a
// date belongs to the requested day. Names repeated within expected are taken once.
func (r *reconciler) syncDay(ctx context.Context, date string, expected []verification.Expected) (SyncResult, error) {
	var res SyncResult
	seen := make(map[string]bool)

	for _, e := range expected {
		e.OrderName = strings.TrimSpace(e.OrderName)
		if strings.TrimSpace(e.OrderDate) == "" {
			e.OrderDate = date
		}
		if e.OrderDate != date || e.OrderName == "" || seen[e.OrderName] {
			continue
		}
		seen[e.OrderName] = true

		existing, err := r.rows.FindByName(ctx, e.OrderName)
		if err != nil {
			return res, err
		}

		if len(existing) > 0 {
			for _, row := range existing {
				if row.DriverID() != "" {
					continue
				}
				changed, bfErr := r.backfill(ctx, row)
				if bfErr != nil {
					return res, bfErr
				}
				if changed {
					res.Backfilled++
				}
			}
			continue
		}

		row, err := verification.NewRow(e)
		if err != nil {
			res.Skipped++
			continue
		}
		o, err := r.latestOrder(ctx, e.OrderName)
		if err != nil {
			return res, err
		}
		if o != nil {
			row.Backfill(o.DriverID(), o.ScannedAt())
		}
		if err = r.rows.Add(ctx, row); err != nil {
			return res, err
		}
		res.Created++
	}

	return res, nil
}

// backfill fills the missing driver / scan time of row from the newest scan of
// its order and persists the row when it changed.
func (r *reconciler) backfill(ctx context.Context, row *verification.Row) (bool, error) {
	o, err := r.latestOrder(ctx, row.OrderName())
	if err != nil || o == nil {
		return false, err
	}
	if !row.Backfill(o.DriverID(), o.ScannedAt()) {
		return false, nil
	}
	return true, r.rows.Update(ctx, row)
}

// latestOrder returns nil when nobody scanned name.
func (r *reconciler) latestOrder(ctx context.Context, name string) (*order.Order, error) {
	if o, ok := r.latest[name]; ok {
		return o, nil
	}
	o, err := r.orders.FindLatestByName(ctx, name)
	if isNotFound(err) {
		o, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.latest[name] = o
	return o, nil
}
