// Package ledger implements the two running ledgers of a driver: the delivery
// note that batches scans, and the payout that accumulates delivered orders.
//
// Ledgers are built per unit of work from its repositories. They do not lock;
// callers hold the per-driver lock around every operation that may create an
// open note or an open payout.
package ledger
