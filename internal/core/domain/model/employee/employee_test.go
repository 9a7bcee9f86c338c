package employee_test

import (
	"testing"
	"time"

	"driverdesk/internal/core/domain/model/employee"
	"driverdesk/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogEntry(t *testing.T) {
	at := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	amount := decimal.NewFromInt(35)

	entry, err := employee.NewLogEntry(" sara ", " #12 ", &amount, at)
	require.NoError(t, err)
	assert.Equal(t, "sara", entry.Employee)
	assert.Equal(t, "#12", entry.Order)
	assert.Equal(t, at, entry.Timestamp)

	_, err = employee.NewLogEntry("", "#12", nil, at)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
