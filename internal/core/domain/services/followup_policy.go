package services

import (
	"time"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"
)

// FollowupPolicy decides which active orders need a driver's attention.
type FollowupPolicy struct {
	// StaleAfter is the quiet period after the last status change that makes an order stale.
	StaleAfter time.Duration
	// UrgentWithin marks active orders whose appointment is closer than this.
	UrgentWithin time.Duration
	// Stuck statuses always qualify.
	Stuck []order.Status
	// Location interprets stored wall-clock timestamps.
	Location *time.Location
}

// DefaultFollowupPolicy returns an 8 hour staleness threshold, a 1 hour urgency
// window and {Pas de réponse 3, Rescheduled} as stuck statuses.
func DefaultFollowupPolicy(loc *time.Location) FollowupPolicy {
	return FollowupPolicy{
		StaleAfter:   8 * time.Hour,
		UrgentWithin: time.Hour,
		Stuck:        []order.Status{order.NoAnswer3, order.Rescheduled},
		Location:     loc,
	}
}

// Followup is the verdict for one order.
type Followup struct {
	Overdue bool
	Stale   bool
	Stuck   bool
}

// Qualifies reports whether any rule fired.
func (f Followup) Qualifies() bool {
	return f.Overdue || f.Stale || f.Stuck
}

// Evaluate applies the three rules at now.
//
// Rules:
//   - overdue: the scheduled time parses and is not after now
//   - stale: more than StaleAfter elapsed since the last status change
//     (the scan time when the status log has no usable timestamp)
//   - stuck: the status is one of Stuck
func (p FollowupPolicy) Evaluate(o *order.Order, now time.Time) Followup {
	var f Followup

	if scheduled, ok := p.Scheduled(o); ok {
		f.Overdue = !scheduled.After(now)
	}

	f.Stale = now.Sub(o.LastChangedAt(p.Location)) > p.StaleAfter

	for _, s := range p.Stuck {
		if o.Status() == s {
			f.Stuck = true
			break
		}
	}

	return f
}

// Scheduled parses the appointment of o.
func (p FollowupPolicy) Scheduled(o *order.Order) (time.Time, bool) {
	if o.ScheduledTime() == "" {
		return time.Time{}, false
	}
	at, err := kernel.ParseTimestamp(o.ScheduledTime(), p.Location)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}

// IsUrgent reports an appointment within UrgentWithin of now, past appointments included.
func (p FollowupPolicy) IsUrgent(o *order.Order, now time.Time) bool {
	scheduled, ok := p.Scheduled(o)
	return ok && scheduled.Sub(now) <= p.UrgentWithin
}

// SortKey orders the active list: the appointment when it parses, else the scan time.
func (p FollowupPolicy) SortKey(o *order.Order) time.Time {
	if scheduled, ok := p.Scheduled(o); ok {
		return scheduled
	}
	return o.ScannedAt()
}
