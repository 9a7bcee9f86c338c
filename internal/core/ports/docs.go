// Package ports defines the contracts between the driverdesk core and its adapters.
//
// Repository interfaces cover the persisted aggregates (orders, delivery notes,
// payouts, verification rows, drivers, employee logs) and are obtained from a
// UnitOfWork so that every mutation of one request commits atomically.
// Collaborator interfaces cover the order-lookup provider, the spreadsheet
// fallback, the notification channel, view-cache invalidation and metrics.
package ports
