package ports

import (
	"context"

	"driverdesk/internal/core/domain/model/note"
)

// NoteRepository persists delivery notes together with their items.
type NoteRepository interface {
	// Add inserts a note and its items and assigns the note id.
	Add(ctx context.Context, aggregate *note.Note) error

	// Update persists the status and reconciles the stored items with the aggregate.
	Update(ctx context.Context, aggregate *note.Note) error

	// Get loads note id of driverID. Returns ObjectNotFoundError for unknown or foreign notes.
	Get(ctx context.Context, driverID string, id int64) (*note.Note, error)

	// GetOpen loads the draft note of driverID. Returns ObjectNotFoundError when there is none.
	GetOpen(ctx context.Context, driverID string) (*note.Note, error)

	// FindByOrder loads the note holding orderID. Returns ObjectNotFoundError when the order has no note.
	FindByOrder(ctx context.Context, orderID int64) (*note.Note, error)

	// List returns notes newest first. An empty driverID lists every driver,
	// an empty status lists both states.
	List(ctx context.Context, driverID string, status note.Status) ([]*note.Note, error)
}
