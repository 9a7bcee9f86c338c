package commands

import (
	"context"
	"log/slog"
	"time"

	"driverdesk/internal/core/domain/model/verification"
	"driverdesk/internal/core/ports"
)

// VerificationReviewRow is one expected order with its matching scan.
type VerificationReviewRow struct {
	ID       int64
	Expected verification.Expected
	DriverID string
	ScanTime *time.Time
	// Status is the lifecycle status of the newest scanned order of that name.
	Status   string
	Verified bool
}

// VerificationReview is the audit of a date range.
type VerificationReview struct {
	Rows     []VerificationReviewRow
	Total    int
	Verified int
	Missing  int
}

// ReviewVerificationCommandHandler syncs every day of the range, re-runs the
// scan backfill on each stored row and reports one row per order name.
// It is a command because the backfills are persisted.
type ReviewVerificationCommandHandler struct {
	uowFactory UoWFactory
	source     ports.ExpectedOrderSource
	logger     *slog.Logger
}

func NewReviewVerificationCommandHandler(
	uowFactory UoWFactory,
	source ports.ExpectedOrderSource,
	logger *slog.Logger,
) ReviewVerificationCommandHandler {
	return ReviewVerificationCommandHandler{
		uowFactory: uowFactory,
		source:     source,
		logger:     logger.With("component", "verification-review"),
	}
}

// Handle does not fail when the expected-order source is unreachable: the
// review then covers the rows already stored.
func (h ReviewVerificationCommandHandler) Handle(
	ctx context.Context,
	command ReviewVerificationCommand,
) (VerificationReview, error) {
	if err := command.Validate(); err != nil {
		return VerificationReview{}, err
	}

	expected, err := h.source.ExpectedOrders(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "expected orders unavailable, reviewing stored rows", "error", err)
		expected = nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return VerificationReview{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	rec := newReconciler(uow.OrderRepository(), uow.VerificationRepository())
	var synced SyncResult
	for _, day := range command.Days() {
		res, syncErr := rec.syncDay(ctx, day, expected)
		if syncErr != nil {
			return VerificationReview{}, syncErr
		}
		synced.add(res)
	}

	rows, err := uow.VerificationRepository().ListByDates(ctx, command.Start(), command.End(), command.Query())
	if err != nil {
		return VerificationReview{}, err
	}

	review := VerificationReview{Rows: make([]VerificationReviewRow, 0, len(rows))}
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if _, err = rec.backfill(ctx, row); err != nil {
			return VerificationReview{}, err
		}
		if seen[row.OrderName()] {
			continue
		}
		seen[row.OrderName()] = true

		item := VerificationReviewRow{
			ID:       row.ID(),
			Expected: row.Expected(),
			DriverID: row.DriverID(),
			Verified: row.Verified(),
		}
		if at, ok := row.ScanTime(); ok {
			item.ScanTime = &at
		}
		o, latestErr := rec.latestOrder(ctx, row.OrderName())
		if latestErr != nil {
			return VerificationReview{}, latestErr
		}
		if o != nil {
			item.Status = o.Status().String()
		}

		review.Rows = append(review.Rows, item)
		if item.Verified {
			review.Verified++
		}
	}
	review.Total = len(review.Rows)
	review.Missing = review.Total - review.Verified

	if err = uow.Commit(ctx); err != nil {
		return VerificationReview{}, err
	}

	h.logger.InfoContext(ctx, "verification reviewed",
		"start", command.Start(), "end", command.End(),
		"created", synced.Created, "total", review.Total, "verified", review.Verified, "missing", review.Missing)
	return review, nil
}
