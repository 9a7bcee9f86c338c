package commands_test

import (
	"testing"

	"driverdesk/internal/core/application/usecases/commands"
	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openNote(t *testing.T, f *fixture, driverID string) *note.Note {
	t.Helper()
	n, err := f.store.Create().NoteRepository().GetOpen(t.Context(), driverID)
	require.NoError(t, err)
	return n
}

func approve(t *testing.T, f *fixture, sweep bool, driverID string, noteID int64) error {
	t.Helper()
	h := commands.NewApproveNoteCommandHandler(f.factory, fees, clock, f.locker, f.effects, discardLogger(), sweep)
	cmd, err := commands.NewApproveNoteCommand(driverID, noteID)
	require.NoError(t, err)
	return h.Handle(t.Context(), cmd)
}

func TestApproveNoteCommandHandler_Handle_SweepsDeliveredOrders(t *testing.T) {
	f := newFixture()
	f.seedOrder(t, "d1", "#1", "", 100, order.Dispatched, note.Draft)
	f.seedOrder(t, "d1", "#2", "", 40, order.Dispatched, note.Draft)
	n := openNote(t, f, "d1")

	require.NoError(t, updateStatus(t, newStatusHandler(f), "d1", "#1", commands.OrderChanges{Status: ptr("Livré")}))
	require.NoError(t, approve(t, f, true, "d1", n.ID()))

	p := openPayout(t, f, "d1")
	assert.Equal(t, []string{"#1"}, p.Orders())

	_, linked := f.order(t, "d1", "#1").PayoutID()
	assert.True(t, linked)
	_, linked = f.order(t, "d1", "#2").PayoutID()
	assert.False(t, linked)

	assert.Contains(t, f.rec.eventTypes(), ports.EventNoteApproved)
}

func TestApproveNoteCommandHandler_Handle_WithoutSweep(t *testing.T) {
	f := newFixture()
	f.seedOrder(t, "d1", "#1", "", 100, order.Dispatched, note.Draft)
	n := openNote(t, f, "d1")

	require.NoError(t, updateStatus(t, newStatusHandler(f), "d1", "#1", commands.OrderChanges{Status: ptr("Livré")}))
	require.NoError(t, approve(t, f, false, "d1", n.ID()))

	_, err := f.store.Create().PayoutRepository().GetOpen(t.Context(), "d1")
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestApproveNoteCommandHandler_Handle_Conflicts(t *testing.T) {
	f := newFixture()
	f.seedOrder(t, "d1", "#1", "", 100, order.Dispatched, note.Draft)
	n := openNote(t, f, "d1")

	require.NoError(t, approve(t, f, true, "d1", n.ID()))
	assert.ErrorIs(t, approve(t, f, true, "d1", n.ID()), errs.ErrConflict)

	assert.ErrorIs(t, approve(t, f, true, "d1", 999), errs.ErrObjectNotFound)
	assert.ErrorIs(t, approve(t, f, true, "d2", n.ID()), errs.ErrObjectNotFound, "foreign note")
}

func TestApproveNoteCommandHandler_Handle_EmptyNoteConflicts(t *testing.T) {
	f := newFixture()
	f.seedOrder(t, "d1", "#1", "", 100, order.Dispatched, note.Draft)
	n := openNote(t, f, "d1")

	remove := commands.NewRemoveNoteItemCommandHandler(f.factory, clock, f.locker, f.effects)
	cmd, err := commands.NewRemoveNoteItemCommand("d1", n.ID(), "#1")
	require.NoError(t, err)
	require.NoError(t, remove.Handle(t.Context(), cmd))

	assert.ErrorIs(t, approve(t, f, true, "d1", n.ID()), errs.ErrConflict)
}

func TestRemoveNoteItemCommandHandler_Handle(t *testing.T) {
	f := newFixture()
	f.seedOrder(t, "d1", "#1", "", 100, order.Dispatched, note.Draft)
	f.seedOrder(t, "d1", "#2", "", 100, order.Dispatched, note.Draft)
	n := openNote(t, f, "d1")
	h := commands.NewRemoveNoteItemCommandHandler(f.factory, clock, f.locker, f.effects)

	cmd, err := commands.NewRemoveNoteItemCommand("d1", n.ID(), "#1")
	require.NoError(t, err)
	require.NoError(t, h.Handle(t.Context(), cmd))

	n = openNote(t, f, "d1")
	require.Len(t, n.Items(), 1)
	assert.Equal(t, "#2", n.Items()[0].OrderName)
	assert.Equal(t, []ports.EventType{ports.EventNoteUpdate}, f.rec.eventTypes())

	err = h.Handle(t.Context(), cmd)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound, "item already removed")
}

func TestRemoveNoteItemCommandHandler_Handle_ApprovedNoteConflicts(t *testing.T) {
	f := newFixture()
	f.seedOrder(t, "d1", "#1", "", 100, order.Dispatched, note.Draft)
	n := openNote(t, f, "d1")
	require.NoError(t, approve(t, f, true, "d1", n.ID()))

	h := commands.NewRemoveNoteItemCommandHandler(f.factory, clock, f.locker, f.effects)
	cmd, err := commands.NewRemoveNoteItemCommand("d1", n.ID(), "#1")
	require.NoError(t, err)

	assert.ErrorIs(t, h.Handle(t.Context(), cmd), errs.ErrConflict)
}

func TestNewRemoveNoteItemCommand_Validation(t *testing.T) {
	_, err := commands.NewRemoveNoteItemCommand("", 0, "")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
