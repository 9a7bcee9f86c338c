package commands

import (
	"context"
	"fmt"
	"log/slog"

	"driverdesk/internal/core/ports"
)

// SyncVerificationCommandHandler imports one day of expected orders and links
// them to the scans that already happened.
type SyncVerificationCommandHandler struct {
	uowFactory UoWFactory
	source     ports.ExpectedOrderSource
	logger     *slog.Logger
}

func NewSyncVerificationCommandHandler(
	uowFactory UoWFactory,
	source ports.ExpectedOrderSource,
	logger *slog.Logger,
) SyncVerificationCommandHandler {
	return SyncVerificationCommandHandler{
		uowFactory: uowFactory,
		source:     source,
		logger:     logger.With("component", "verification-sync"),
	}
}

func (h SyncVerificationCommandHandler) Handle(ctx context.Context, command SyncVerificationCommand) (SyncResult, error) {
	if err := command.Validate(); err != nil {
		return SyncResult{}, err
	}

	expected, err := h.source.ExpectedOrders(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load expected orders: %w", err)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return SyncResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	res, err := newReconciler(uow.OrderRepository(), uow.VerificationRepository()).
		syncDay(ctx, command.Date(), expected)
	if err != nil {
		return SyncResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return SyncResult{}, err
	}

	h.logger.InfoContext(ctx, "verification synced",
		"date", command.Date(), "created", res.Created, "backfilled", res.Backfilled, "skipped", res.Skipped)
	return res, nil
}
