package services

import (
	"fmt"
	"sort"
	"time"

	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/pkg/errs"
)

// View names a driver-facing partition of orders.
type View string

const (
	ViewActive    View = "active"
	ViewArchive   View = "archive"
	ViewAll       View = "all"
	ViewFollowups View = "followups"
)

// Views lists every view, used to invalidate cached listings.
func Views() []View {
	return []View{ViewActive, ViewArchive, ViewAll, ViewFollowups}
}

// ParseView accepts the view names above.
func ParseView(raw string) (View, error) {
	switch v := View(raw); v {
	case ViewActive, ViewArchive, ViewAll, ViewFollowups:
		return v, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("view", fmt.Errorf("%q is not a view", raw))
	}
}

// ViewItem is an order placed in a view.
type ViewItem struct {
	Order  *order.Order
	Urgent bool
}

// OrderViews partitions the orders a driver may see. The input must already
// exclude orders of draft notes.
type OrderViews struct {
	followups FollowupPolicy
}

func NewOrderViews(followups FollowupPolicy) OrderViews {
	return OrderViews{followups: followups}
}

// Select returns the orders of view at now, sorted for display.
//
// Views:
//   - active: not closed, or closed with a pending return; appointment order; urgent near the appointment
//   - archive: closed, not Deleted, no pending return; newest scan first
//   - all: everything but Deleted; newest scan first
//   - followups: active, no pending return, and overdue, stale or stuck; urgent when overdue
func (v OrderViews) Select(view View, orders []*order.Order, now time.Time) []ViewItem {
	items := make([]ViewItem, 0, len(orders))

	for _, o := range orders {
		switch view {
		case ViewActive:
			if isActive(o) {
				items = append(items, ViewItem{Order: o, Urgent: v.followups.IsUrgent(o, now)})
			}
		case ViewArchive:
			if o.Status().IsClosed() && o.Status() != order.Deleted && !o.ReturnPending() {
				items = append(items, ViewItem{Order: o})
			}
		case ViewAll:
			if o.Status() != order.Deleted {
				items = append(items, ViewItem{Order: o})
			}
		case ViewFollowups:
			if !isActive(o) || o.ReturnPending() {
				continue
			}
			if f := v.followups.Evaluate(o, now); f.Qualifies() {
				items = append(items, ViewItem{Order: o, Urgent: f.Overdue})
			}
		}
	}

	switch view {
	case ViewActive, ViewFollowups:
		sort.SliceStable(items, func(i, j int) bool {
			return v.followups.SortKey(items[i].Order).Before(v.followups.SortKey(items[j].Order))
		})
	case ViewArchive, ViewAll:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Order.ScannedAt().After(items[j].Order.ScannedAt())
		})
	}

	return items
}

func isActive(o *order.Order) bool {
	return !o.Status().IsClosed() || o.ReturnPending()
}
