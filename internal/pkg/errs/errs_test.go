package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"driverdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("order", "#1234")

		assert.Equal(t, "order", err.ParamName)
		assert.Equal(t, "#1234", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: order #1234", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("payout", "PO-20240101-0900", cause)

		assert.Equal(t,
			"object not found: param is: payout, ID is: PO-20240101-0900 (cause: connection reset)",
			err.Error())
	})

	t.Run("numeric id", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("note", 42)
		assert.Equal(t, "object not found: note 42", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	err := errs.NewValueIsInvalidError("barcode")
	assert.Equal(t, "value is invalid: barcode", err.Error())

	withCause := errs.NewValueIsInvalidErrorWithCause("status", errors.New(`"Lost" is not a known status`))
	assert.Equal(t, `value is invalid: status (cause: "Lost" is not a known status)`, withCause.Error())
	assert.Equal(t, errs.ErrValueIsInvalid, withCause.Unwrap())
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("days", 400, 1, 365)

		assert.Equal(t, 400, err.Value)
		assert.Equal(t, "value is invalid: 400 is days, min value is 1, max value is 365", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeErrorWithCause("days", 0, 1, 365, errors.New("empty window"))
		assert.Equal(t,
			"value is invalid: 0 is days, min value is 1, max value is 365 (cause: empty window)",
			err.Error())
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	err := errs.NewValueIsRequiredError("driver")
	assert.Equal(t, "value is required: driver", err.Error())

	withCause := errs.NewValueIsRequiredErrorWithCause("driver", errors.New("query parameter missing"))
	assert.Equal(t, "value is required: driver (cause: query parameter missing)", withCause.Error())
	assert.Equal(t, errs.ErrValueIsRequired, withCause.Unwrap())
}

func TestConflictError(t *testing.T) {
	err := errs.NewConflictError("note 7", "already approved")

	assert.Equal(t, "conflict: note 7: already approved", err.Error())
	assert.Equal(t, errs.ErrConflict, err.Unwrap())
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"not found", errs.NewObjectNotFoundError("order", "#1"), errs.ErrObjectNotFound},
		{"invalid", errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid},
		{"out of range", errs.NewValueIsOutOfRangeError("days", 0, 1, 2), errs.ErrValueIsOutOfRange},
		{"required", errs.NewValueIsRequiredError("driver"), errs.ErrValueIsRequired},
		{"conflict", errs.NewConflictError("payout", "open"), errs.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("handler: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.sentinel)
		})
	}

	var conflict *errs.ConflictError
	require.ErrorAs(t, fmt.Errorf("approve: %w", errs.NewConflictError("note 1", "empty")), &conflict)
	assert.Equal(t, "empty", conflict.Reason)
}
