package queries

import (
	"errors"
	"strings"

	"driverdesk/internal/pkg/guard"
)

var ErrListAdminNotesQueryIsNotConstructed = errors.New(
	"ListAdminNotesQuery must be created via NewListAdminNotesQuery constructor",
)

// ListAdminNotesQuery lists the notes of every driver, or of one driver when
// driverID is set, newest first.
type ListAdminNotesQuery struct {
	driverID string

	guard guard.ConstructorGuard
}

func NewListAdminNotesQuery(driverID string) ListAdminNotesQuery {
	return ListAdminNotesQuery{driverID: strings.TrimSpace(driverID), guard: guard.NewConstructorGuard()}
}

func (q ListAdminNotesQuery) DriverID() string {
	return q.driverID
}

func (q ListAdminNotesQuery) Validate() error {
	return q.guard.Validate(ErrListAdminNotesQueryIsNotConstructed)
}

type NoteOutcome struct {
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
	Returned  int `json:"returned"`
}

type AdminNoteItem struct {
	OrderName string `json:"orderName"`
	Status    string `json:"status"`
}

type AdminNote struct {
	ID        int64           `json:"id"`
	Driver    string          `json:"driver"`
	CreatedAt string          `json:"createdAt"`
	Status    string          `json:"status"`
	Summary   NoteOutcome     `json:"summary"`
	Items     []AdminNoteItem `json:"items"`
}
