// Package errs provides standardized error types for the driverdesk application.
// Every error class follows the same shape so that adapters can classify failures
// with errors.Is / errors.As without knowing which layer produced them:
//   - a sentinel error variable (e.g., ErrObjectNotFound)
//   - a struct type carrying the details
//   - constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The classes map onto the request outcomes of the service:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: rejected input
//   - ObjectNotFoundError: unknown driver, order, note, payout or verification row
//   - ConflictError: the request is valid but the current state forbids it
package errs
