package commands

import "context"

// UpdateVerificationCommandHandler applies the admin correction of a verification row.
type UpdateVerificationCommandHandler struct {
	uowFactory UoWFactory
}

func NewUpdateVerificationCommandHandler(uowFactory UoWFactory) UpdateVerificationCommandHandler {
	return UpdateVerificationCommandHandler{uowFactory: uowFactory}
}

func (h UpdateVerificationCommandHandler) Handle(ctx context.Context, command UpdateVerificationCommand) error {
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

	repo := uow.VerificationRepository()
	row, err := repo.Get(ctx, command.ID())
	if err != nil {
		return err
	}

	scanTime, clearScanTime := command.ScanTime()
	row.Correct(command.DriverID(), scanTime, clearScanTime)

	if err = repo.Update(ctx, row); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
