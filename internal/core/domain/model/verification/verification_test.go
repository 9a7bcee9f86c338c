package verification_test

import (
	"testing"
	"time"

	"driverdesk/internal/core/domain/model/verification"
	"driverdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRow(t *testing.T) {
	r, err := verification.NewRow(verification.Expected{OrderDate: "2024-03-10", OrderName: " #12 "})
	require.NoError(t, err)
	assert.Equal(t, "#12", r.OrderName())
	assert.False(t, r.Verified())

	_, err = verification.NewRow(verification.Expected{OrderDate: "2024-03-10"})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = verification.NewRow(verification.Expected{OrderDate: "10/03/2024", OrderName: "#1"})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRow_Backfill(t *testing.T) {
	scanned := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	r, _ := verification.NewRow(verification.Expected{OrderDate: "2024-03-10", OrderName: "#12"})
	assert.True(t, r.Backfill("d1", scanned))
	assert.True(t, r.Verified())

	assert.False(t, r.Backfill("d2", scanned.Add(time.Hour)), "existing values are kept")
	assert.Equal(t, "d1", r.DriverID())
	at, _ := r.ScanTime()
	assert.Equal(t, scanned, at)
}

func TestRow_BackfillFillsOnlyMissingField(t *testing.T) {
	scanned := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	r := verification.RestoreRow(1, verification.Expected{OrderName: "#12"}, "manual", nil)

	assert.True(t, r.Backfill("d1", scanned))
	assert.Equal(t, "manual", r.DriverID())
	assert.True(t, r.Verified())
}

func TestRow_Correct(t *testing.T) {
	scanned := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	r := verification.RestoreRow(1, verification.Expected{OrderName: "#12"}, "d1", &scanned)

	empty := ""
	r.Correct(&empty, nil, false)
	assert.Empty(t, r.DriverID())
	_, ok := r.ScanTime()
	assert.True(t, ok)

	r.Correct(nil, nil, true)
	_, ok = r.ScanTime()
	assert.False(t, ok)

	driver := "d2"
	r.Correct(&driver, &scanned, false)
	assert.True(t, r.Verified())
}
