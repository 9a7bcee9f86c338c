// Package services provides the stateless domain policies of driverdesk.
//
// The package includes:
//   - Tariff and FeeClassifier: the driver fee and display tag derived from free-text order tags
//   - FollowupPolicy: the overdue / stale / stuck rules that flag orders for driver attention
//   - OrderViews: the active, archive, all and followups partitions of a driver's visible orders
//
// All policies are immutable values built once at start-up and passed to the
// handlers that need them.
package services
