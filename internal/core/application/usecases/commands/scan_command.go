package commands

import (
	"errors"
	"strings"

	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/guard"
)

var ErrScanCommandIsNotConstructed = errors.New(
	"ScanCommand must be created via NewScanCommand constructor",
)

// ScanCommand registers the parcel behind a barcode for a driver.
//
// Example:
//
//	cmd, err := NewScanCommand("driver1", "ABC-10234")
//	if err != nil {
//	    return err // barcode without digits
//	}
//	result, err := handler.Handle(ctx, cmd)
type ScanCommand struct {
	driverID  string
	orderName string

	guard guard.ConstructorGuard
}

// NewScanCommand normalizes barcode into an order name ("#" + its digits).
// A barcode without digits is a ValueIsInvalidError.
func NewScanCommand(driverID, barcode string) (ScanCommand, error) {
	driverID = strings.TrimSpace(driverID)

	var driverErr error
	if driverID == "" {
		driverErr = errs.NewValueIsRequiredError("driver")
	}
	name, nameErr := kernel.OrderNameFromBarcode(barcode)

	if err := errors.Join(driverErr, nameErr); err != nil {
		return ScanCommand{}, err
	}

	return ScanCommand{
		driverID:  driverID,
		orderName: name,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c *ScanCommand) DriverID() string {
	return c.driverID
}

func (c *ScanCommand) OrderName() string {
	return c.orderName
}

func (c *ScanCommand) Validate() error {
	return c.guard.Validate(ErrScanCommandIsNotConstructed)
}
