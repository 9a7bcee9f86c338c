package note_test

import (
	"testing"
	"time"

	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var opened = time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)

func TestNewNote(t *testing.T) {
	n, err := note.NewNote("d1", opened)
	require.NoError(t, err)
	require.NoError(t, n.Validate())
	assert.True(t, n.IsDraft())
	assert.Empty(t, n.Items())

	_, err = note.NewNote(" ", opened)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	var zero note.Note
	require.ErrorIs(t, zero.Validate(), note.ErrNoteIsNotConstructed)
}

func TestNote_Items(t *testing.T) {
	n, _ := note.NewNote("d1", opened)

	require.NoError(t, n.AddItem(note.Item{OrderID: 1, OrderName: "#1", ScannedAt: opened}))
	require.NoError(t, n.AddItem(note.Item{OrderID: 2, OrderName: "#2", ScannedAt: opened}))
	require.ErrorIs(t, n.AddItem(note.Item{OrderID: 2, OrderName: "#2"}), errs.ErrConflict)
	assert.True(t, n.Contains(1))

	removed, err := n.RemoveItem("#1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed.OrderID)
	assert.False(t, n.Contains(1))
	assert.Len(t, n.Items(), 1)

	_, err = n.RemoveItem("#404")
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestNote_Approve(t *testing.T) {
	t.Run("empty note conflicts", func(t *testing.T) {
		n, _ := note.NewNote("d1", opened)
		require.ErrorIs(t, n.Approve(opened), errs.ErrConflict)
		assert.True(t, n.IsDraft())
	})

	t.Run("approve once", func(t *testing.T) {
		n, _ := note.NewNote("d1", opened)
		require.NoError(t, n.AddItem(note.Item{OrderID: 1, OrderName: "#1"}))

		require.NoError(t, n.Approve(opened.Add(time.Hour)))
		at, ok := n.ApprovedAt()
		assert.True(t, ok)
		assert.Equal(t, opened.Add(time.Hour), at)
		assert.Equal(t, note.Approved, n.Status())

		require.ErrorIs(t, n.Approve(opened), errs.ErrConflict)
	})

	t.Run("approved note is frozen", func(t *testing.T) {
		n, _ := note.NewNote("d1", opened)
		_ = n.AddItem(note.Item{OrderID: 1, OrderName: "#1"})
		_ = n.Approve(opened)

		require.ErrorIs(t, n.AddItem(note.Item{OrderID: 2, OrderName: "#2"}), errs.ErrConflict)
		_, err := n.RemoveItem("#1")
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestRestoreNote(t *testing.T) {
	at := opened.Add(time.Hour)
	n, err := note.RestoreNote(5, "d1", opened, note.Approved, &at, []note.Item{{OrderID: 1, OrderName: "#1"}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), n.ID())
	assert.False(t, n.IsDraft())

	_, err = note.RestoreNote(5, "d1", opened, note.Status("closed"), nil, nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
