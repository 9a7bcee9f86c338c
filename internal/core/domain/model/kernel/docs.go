// Package kernel provides the shared domain primitives of driverdesk.
//
// The package includes:
//   - ParseTimestamp / FormatTimestamp: lenient parsing and canonical formatting of the
//     naive wall-clock timestamps stored in status logs, scan times and schedules
//   - OrderNameFromBarcode: the barcode to order-name normalization used by scans
//   - Clock: the time source injected into handlers so that tests control "now"
//
// Everything here is pure and safe for concurrent use.
package kernel
