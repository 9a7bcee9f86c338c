// Package order provides the Order aggregate: one parcel scanned by one driver,
// and the delivery-status state machine that governs it.
//
// The package includes:
//   - Order: the aggregate root holding enrichment data, collection amounts,
//     the payout link and the return-confirmation sub-state
//   - Status: the delivery-status vocabulary and its transition rules
//   - StatusLog: the append-only audit trail of status changes
//   - Transition: the (before, after) pair produced by a status change, which
//     tells the caller whether the change was a delivery or a delivery reversal
//
// Key business rules:
//   - Dispatched is the initial status
//   - Paid is reachable only from Livré through a payout cascade, and leaves
//     only back to Livré through the reverse cascade
//   - Entering Returned, Annulé or Refusé raises the return-pending flag;
//     only AcceptReturn lowers it
//   - The order carries a payout id exactly while it is Livré or Paid and
//     its delivery has been counted in a payout
package order
