package commands

import (
	"errors"
	"fmt"
	"strings"

	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/guard"
)

var (
	ErrRemoveNoteItemCommandIsNotConstructed = errors.New(
		"RemoveNoteItemCommand must be created via NewRemoveNoteItemCommand constructor",
	)
	ErrApproveNoteCommandIsNotConstructed = errors.New(
		"ApproveNoteCommand must be created via NewApproveNoteCommand constructor",
	)
)

// RemoveNoteItemCommand takes a mistakenly scanned order out of a draft note.
type RemoveNoteItemCommand struct {
	driverID  string
	noteID    int64
	orderName string

	guard guard.ConstructorGuard
}

func NewRemoveNoteItemCommand(driverID string, noteID int64, orderName string) (RemoveNoteItemCommand, error) {
	c := RemoveNoteItemCommand{
		driverID:  strings.TrimSpace(driverID),
		noteID:    noteID,
		orderName: strings.TrimSpace(orderName),
		guard:     guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		validateDriver(c.driverID),
		validateNoteID(noteID),
		validateRequired("order name", c.orderName),
	); err != nil {
		return RemoveNoteItemCommand{}, err
	}
	return c, nil
}

func (c *RemoveNoteItemCommand) DriverID() string {
	return c.driverID
}

func (c *RemoveNoteItemCommand) NoteID() int64 {
	return c.noteID
}

func (c *RemoveNoteItemCommand) OrderName() string {
	return c.orderName
}

func (c *RemoveNoteItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveNoteItemCommandIsNotConstructed)
}

// ApproveNoteCommand freezes a draft note and releases its orders to the driver.
type ApproveNoteCommand struct {
	driverID string
	noteID   int64

	guard guard.ConstructorGuard
}

func NewApproveNoteCommand(driverID string, noteID int64) (ApproveNoteCommand, error) {
	c := ApproveNoteCommand{
		driverID: strings.TrimSpace(driverID),
		noteID:   noteID,
		guard:    guard.NewConstructorGuard(),
	}
	if err := errors.Join(validateDriver(c.driverID), validateNoteID(noteID)); err != nil {
		return ApproveNoteCommand{}, err
	}
	return c, nil
}

func (c *ApproveNoteCommand) DriverID() string {
	return c.driverID
}

func (c *ApproveNoteCommand) NoteID() int64 {
	return c.noteID
}

func (c *ApproveNoteCommand) Validate() error {
	return c.guard.Validate(ErrApproveNoteCommandIsNotConstructed)
}

func validateDriver(driverID string) error {
	return validateRequired("driver", driverID)
}

func validateRequired(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}

func validateNoteID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("note id", fmt.Errorf("%d is not positive", id))
	}
	return nil
}
