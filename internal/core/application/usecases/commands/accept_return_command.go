package commands

import (
	"errors"
	"strings"

	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/guard"
)

var ErrAcceptReturnCommandIsNotConstructed = errors.New(
	"AcceptReturnCommand must be created via NewAcceptReturnCommand constructor",
)

// AcceptReturnCommand confirms that a returned, cancelled or refused parcel
// came back to the office.
type AcceptReturnCommand struct {
	driverID  string
	orderName string
	agent     string

	guard guard.ConstructorGuard
}

func NewAcceptReturnCommand(driverID, orderName, agent string) (AcceptReturnCommand, error) {
	c := AcceptReturnCommand{
		driverID:  strings.TrimSpace(driverID),
		orderName: strings.TrimSpace(orderName),
		agent:     strings.TrimSpace(agent),
		guard:     guard.NewConstructorGuard(),
	}

	var errList []error
	if c.driverID == "" {
		errList = append(errList, errs.NewValueIsRequiredError("driver"))
	}
	if c.orderName == "" {
		errList = append(errList, errs.NewValueIsRequiredError("order name"))
	}
	if c.agent == "" {
		errList = append(errList, errs.NewValueIsRequiredError("agent"))
	}
	if err := errors.Join(errList...); err != nil {
		return AcceptReturnCommand{}, err
	}
	return c, nil
}

func (c *AcceptReturnCommand) DriverID() string {
	return c.driverID
}

func (c *AcceptReturnCommand) OrderName() string {
	return c.orderName
}

func (c *AcceptReturnCommand) Agent() string {
	return c.agent
}

func (c *AcceptReturnCommand) Validate() error {
	return c.guard.Validate(ErrAcceptReturnCommandIsNotConstructed)
}
