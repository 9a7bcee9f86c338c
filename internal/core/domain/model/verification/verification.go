// Package verification models the externally sourced list of orders expected
// for a calendar day. Each row is matched against driver scans to audit which
// expected parcels were actually picked up.
package verification

import (
	"errors"
	"strings"
	"time"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/pkg/errs"
)

var ErrRowIsNotConstructed = errors.New("Row must be created via NewRow constructor")

// Expected is one line of the expected-order source.
type Expected struct {
	OrderDate     string
	OrderName     string
	CustomerName  string
	CustomerPhone string
	Address       string
	CODTotal      string
	City          string
}

// Row is a stored expected order together with the scan that matched it.
type Row struct {
	id       int64
	expected Expected
	driverID string
	scanTime *time.Time

	isConstructed bool
}

// NewRow validates an expected order before it is stored.
func NewRow(e Expected) (*Row, error) {
	e.OrderName = strings.TrimSpace(e.OrderName)
	if e.OrderName == "" {
		return nil, errs.NewValueIsRequiredError("order name")
	}
	if _, err := kernel.ParseDate(e.OrderDate, time.UTC); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("order date", err)
	}
	return &Row{expected: e, isConstructed: true}, nil
}

// RestoreRow rebuilds a stored row.
func RestoreRow(id int64, e Expected, driverID string, scanTime *time.Time) *Row {
	return &Row{
		id:            id,
		expected:      e,
		driverID:      driverID,
		scanTime:      scanTime,
		isConstructed: true,
	}
}

func (r *Row) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRowIsNotConstructed
	}
	return nil
}

func (r *Row) AssignID(id int64) {
	r.id = id
}

func (r *Row) ID() int64 {
	return r.id
}

func (r *Row) Expected() Expected {
	return r.expected
}

func (r *Row) OrderName() string {
	return r.expected.OrderName
}

func (r *Row) DriverID() string {
	return r.driverID
}

func (r *Row) ScanTime() (time.Time, bool) {
	if r.scanTime == nil {
		return time.Time{}, false
	}
	return *r.scanTime, true
}

// Verified is true once both the driver and the scan time are known.
func (r *Row) Verified() bool {
	return r.driverID != "" && r.scanTime != nil
}

// Backfill fills whichever of driver and scan time is still missing.
// It reports whether anything changed.
func (r *Row) Backfill(driverID string, scannedAt time.Time) bool {
	changed := false
	if r.driverID == "" && driverID != "" {
		r.driverID = driverID
		changed = true
	}
	if r.scanTime == nil && !scannedAt.IsZero() {
		r.scanTime = &scannedAt
		changed = true
	}
	return changed
}

// Correct is the admin override: nil leaves a field alone, an empty value clears it.
func (r *Row) Correct(driverID *string, scanTime *time.Time, clearScanTime bool) {
	if driverID != nil {
		r.driverID = strings.TrimSpace(*driverID)
	}
	switch {
	case clearScanTime:
		r.scanTime = nil
	case scanTime != nil:
		at := *scanTime
		r.scanTime = &at
	}
}
