package commands

import (
	"errors"
	"strings"

	"driverdesk/internal/pkg/errs"
	"driverdesk/internal/pkg/guard"
)

var ErrProvisionDriversCommandIsNotConstructed = errors.New(
	"ProvisionDriversCommand must be created via NewProvisionDriversCommand constructor",
)

// ProvisionDriversCommand makes sure the configured drivers exist.
type ProvisionDriversCommand struct {
	ids []string

	guard guard.ConstructorGuard
}

// NewProvisionDriversCommand trims ids and drops blanks and duplicates.
func NewProvisionDriversCommand(ids []string) (ProvisionDriversCommand, error) {
	seen := make(map[string]bool, len(ids))
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		kept = append(kept, id)
	}
	if len(kept) == 0 {
		return ProvisionDriversCommand{}, errs.NewValueIsRequiredError("drivers")
	}
	return ProvisionDriversCommand{ids: kept, guard: guard.NewConstructorGuard()}, nil
}

func (c *ProvisionDriversCommand) IDs() []string {
	return append([]string(nil), c.ids...)
}

func (c *ProvisionDriversCommand) Validate() error {
	return c.guard.Validate(ErrProvisionDriversCommandIsNotConstructed)
}
