package queries

import (
	"errors"

	"driverdesk/internal/core/domain/model/note"
	"driverdesk/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrListNotesQueryIsNotConstructed = errors.New(
	"ListNotesQuery must be created via NewListNotesQuery constructor",
)

// ListNotesQuery lists the draft notes of a driver, or the approved ones when
// history is set.
type ListNotesQuery struct {
	driverID string
	history  bool

	guard guard.ConstructorGuard
}

func NewListNotesQuery(driverID string, history bool) (ListNotesQuery, error) {
	driverID, err := validateDriverID(driverID)
	if err != nil {
		return ListNotesQuery{}, err
	}
	return ListNotesQuery{driverID: driverID, history: history, guard: guard.NewConstructorGuard()}, nil
}

func (q ListNotesQuery) DriverID() string {
	return q.driverID
}

func (q ListNotesQuery) Status() note.Status {
	if q.history {
		return note.Approved
	}
	return note.Draft
}

func (q ListNotesQuery) Validate() error {
	return q.guard.Validate(ErrListNotesQueryIsNotConstructed)
}

// NoteSummary is one row of the notes list.
type NoteSummary struct {
	ID        int64           `json:"id"`
	CreatedAt string          `json:"createdAt"`
	Parcels   int             `json:"parcels"`
	TotalCOD  decimal.Decimal `json:"totalCod"`
	Status    string          `json:"status"`
}
