package order_test

import (
	"testing"

	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	t.Run("round trips every label", func(t *testing.T) {
		for _, s := range append(order.RequestableStatuses(), order.Paid) {
			parsed, err := order.ParseStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("accented labels", func(t *testing.T) {
		s, err := order.ParseStatus("Livré")
		require.NoError(t, err)
		assert.Equal(t, order.Delivered, s)

		s, err = order.ParseStatus("Pas de réponse 3")
		require.NoError(t, err)
		assert.Equal(t, order.NoAnswer3, s)
	})

	t.Run("rejects unknown labels", func(t *testing.T) {
		for _, label := range []string{"", "Unknown", "livre", "Lost"} {
			_, err := order.ParseStatus(label)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, label)
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.Dispatched.Validate())
	require.NoError(t, order.Paid.Validate())
	require.ErrorIs(t, order.Unknown.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, order.Status(99).Validate(), errs.ErrValueIsInvalid)
	assert.Equal(t, "Unknown", order.Status(99).String())
}

func TestStatus_Sets(t *testing.T) {
	closed := map[order.Status]bool{
		order.Delivered: true, order.Paid: true, order.Deleted: true,
		order.Returned: true, order.Cancelled: true, order.Refused: true,
	}
	returns := map[order.Status]bool{order.Returned: true, order.Cancelled: true, order.Refused: true}

	for _, s := range append(order.RequestableStatuses(), order.Paid) {
		assert.Equal(t, closed[s], s.IsClosed(), "closed %s", s)
		assert.Equal(t, returns[s], s.IsReturn(), "return %s", s)
	}
}

func TestStatus_ChangeTo(t *testing.T) {
	t.Run("any requestable status is reachable", func(t *testing.T) {
		for _, from := range order.RequestableStatuses() {
			for _, to := range order.RequestableStatuses() {
				got, err := from.ChangeTo(to)
				require.NoError(t, err)
				assert.Equal(t, to, got)
			}
		}
	})

	t.Run("Paid cannot be requested", func(t *testing.T) {
		_, err := order.Delivered.ChangeTo(order.Paid)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("Paid order is a conflict", func(t *testing.T) {
		_, err := order.Paid.ChangeTo(order.Returned)
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("Unknown target is invalid", func(t *testing.T) {
		_, err := order.Dispatched.ChangeTo(order.Unknown)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_PaidCascade(t *testing.T) {
	paid, err := order.Delivered.MarkPaid()
	require.NoError(t, err)
	assert.Equal(t, order.Paid, paid)

	back, err := paid.MarkUnpaid()
	require.NoError(t, err)
	assert.Equal(t, order.Delivered, back)

	_, err = order.Returned.MarkPaid()
	require.Error(t, err)

	_, err = order.Delivered.MarkUnpaid()
	require.Error(t, err)
}
