// Package queries contains the read side: driver-facing lists, admin reports
// and exports. Most handlers read with raw SQL through GORM; the order views
// and the admin note listing go through the repositories because they need
// the domain rules of the order aggregate.
package queries
