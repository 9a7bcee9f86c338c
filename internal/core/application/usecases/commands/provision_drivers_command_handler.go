package commands

import "context"

// ProvisionDriversCommandHandler creates the missing drivers. Existing drivers are untouched.
type ProvisionDriversCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewProvisionDriversCommandHandler(uowFactory DriverUoWFactory) ProvisionDriversCommandHandler {
	return ProvisionDriversCommandHandler{uowFactory: uowFactory}
}

func (h ProvisionDriversCommandHandler) Handle(ctx context.Context, command ProvisionDriversCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.DriverRepository().Provision(ctx, command.IDs()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
