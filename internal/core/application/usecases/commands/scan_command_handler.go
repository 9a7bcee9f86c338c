package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"driverdesk/internal/core/application/ledger"
	"driverdesk/internal/core/domain/model/kernel"
	"driverdesk/internal/core/domain/model/order"
	"driverdesk/internal/core/domain/services"
	"driverdesk/internal/core/ports"
	"driverdesk/internal/pkg/keylock"

	"github.com/shopspring/decimal"
)

// Scan outcomes reported to the driver.
const (
	ScanAlreadyScanned = "Already scanned"
	ScanCancelled      = "Cancelled"
	ScanUnfulfilled    = "Unfulfilled"
	ScanOK             = "OK"
	ScanNotFound       = "Not found"
)

// ScanResult is what the driver sees after a scan.
type ScanResult struct {
	Result         string
	OrderName      string
	Tag            string
	DeliveryStatus string
	// NoteID is zero for an order that was already scanned.
	NoteID int64
}

// ScanOptions bounds the calls to the order-lookup providers.
type ScanOptions struct {
	LookupTimeout time.Duration
	// RecencyWindow ignores store orders created longer ago.
	RecencyWindow time.Duration
}

func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		LookupTimeout: 10 * time.Second,
		RecencyWindow: 50 * 24 * time.Hour,
	}
}

// ScanCommandHandler registers scanned parcels. A new order is enriched from
// the stores, then the spreadsheet, then the newest verification row of the
// same name, and filed into the driver's open delivery note.
type ScanCommandHandler struct {
	uowFactory UoWFactory
	stores     ports.OrderLookup
	sheet      ports.SheetLookup
	fees       services.FeeClassifier
	clock      kernel.Clock
	locker     *keylock.Locker
	effects    Effects
	logger     *slog.Logger
	opts       ScanOptions
}

func NewScanCommandHandler(
	uowFactory UoWFactory,
	stores ports.OrderLookup,
	sheet ports.SheetLookup,
	fees services.FeeClassifier,
	clock kernel.Clock,
	locker *keylock.Locker,
	effects Effects,
	logger *slog.Logger,
	opts ScanOptions,
) ScanCommandHandler {
	return ScanCommandHandler{
		uowFactory: uowFactory,
		stores:     stores,
		sheet:      sheet,
		fees:       fees,
		clock:      clock,
		locker:     locker,
		effects:    effects,
		logger:     logger.With("component", "scan"),
		opts:       opts,
	}
}

// Handle returns the scan outcome. Rescanning an order is not an error: the
// result says "Already scanned" and nothing changes. Lookup failures degrade to
// "Not found"; only an unknown driver or a storage failure is an error.
//
// The store and sheet lookups run before the driver's lock is taken and before
// the transaction opens, so a slow provider never blocks the driver's other
// operations. The lookup is repeated under the lock since a concurrent scan of
// the same barcode may have filed the order meanwhile.
func (h ScanCommandHandler) Handle(ctx context.Context, command ScanCommand) (ScanResult, error) {
	if err := command.Validate(); err != nil {
		return ScanResult{}, err
	}

	driverID, name := command.DriverID(), command.OrderName()

	reader := h.uowFactory.Create()
	if err := requireDriver(ctx, reader.DriverRepository(), driverID); err != nil {
		return ScanResult{}, err
	}
	if existing, found, err := h.findScanned(ctx, reader.OrderRepository(), driverID, name); err != nil || found {
		return existing, err
	}

	now := h.clock.Now()
	details, cash, message := h.enrich(ctx, name, now)

	o, err := order.NewOrder(driverID, name, details, cash, h.fees.DriverFee(details.Tags), now)
	if err != nil {
		return ScanResult{}, err
	}
	if !o.Customer().IsComplete() {
		h.fillFromSheet(ctx, o)
	}

	unlock := h.locker.Lock(driverID)
	defer unlock()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return ScanResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if existing, found, findErr := h.findScanned(ctx, orderRepo, driverID, name); findErr != nil || found {
		return existing, findErr
	}

	if !o.Customer().IsComplete() {
		if err = fillFromVerification(ctx, uow.VerificationRepository(), o); err != nil {
			return ScanResult{}, err
		}
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return ScanResult{}, fmt.Errorf("store scanned order %s: %w", name, err)
	}

	n, err := ledger.NewNoteLedger(uow.NoteRepository(), h.clock).Attach(ctx, o)
	if err != nil {
		return ScanResult{}, err
	}

	if _, err = backfillVerification(ctx, uow.VerificationRepository(), o); err != nil {
		return ScanResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ScanResult{}, err
	}

	h.effects.metrics.ScanRecorded(message)
	h.effects.driverChanged(ctx, driverID, ports.Event{
		Type:      ports.EventNewOrder,
		DriverID:  driverID,
		OrderName: name,
		Status:    o.Status().String(),
		NoteID:    n.ID(),
		At:        now,
	})
	h.logger.InfoContext(ctx, "order scanned", "driver", driverID, "order", name, "result", message)

	return ScanResult{
		Result:         message,
		OrderName:      name,
		Tag:            h.fees.PrimaryDisplayTag(o.Tags()),
		DeliveryStatus: o.DisplayStatus(),
		NoteID:         n.ID(),
	}, nil
}

// findScanned reports an order the driver already scanned as "Already scanned".
func (h ScanCommandHandler) findScanned(
	ctx context.Context,
	orders ports.OrderRepository,
	driverID, name string,
) (ScanResult, bool, error) {
	existing, err := orders.Get(ctx, driverID, name)
	if isNotFound(err) {
		return ScanResult{}, false, nil
	}
	if err != nil {
		return ScanResult{}, false, err
	}

	h.effects.metrics.ScanRecorded(ScanAlreadyScanned)
	return ScanResult{
		Result:         ScanAlreadyScanned,
		OrderName:      name,
		Tag:            h.fees.PrimaryDisplayTag(existing.Tags()),
		DeliveryStatus: existing.DisplayStatus(),
	}, true, nil
}

// enrich picks the newest store order inside the recency window.
func (h ScanCommandHandler) enrich(ctx context.Context, name string, now time.Time) (order.Details, decimal.Decimal, string) {
	lookupCtx, cancel := context.WithTimeout(ctx, h.opts.LookupTimeout)
	defer cancel()

	matches, err := h.stores.Lookup(lookupCtx, name)
	if err != nil {
		h.effects.metrics.LookupFailed("storefront")
		h.logger.WarnContext(ctx, "store lookup failed", "order", name, "error", err)
		matches = nil
	}

	windowStart := now.Add(-h.opts.RecencyWindow)
	var chosen *ports.StoreOrder
	for i := range matches {
		m := &matches[i]
		if m.CreatedAt.Before(windowStart) {
			continue
		}
		if chosen == nil || m.CreatedAt.After(chosen.CreatedAt) {
			chosen = m
		}
	}

	if chosen == nil {
		return order.Details{OrderStatus: "open"}, decimal.Zero, ScanNotFound
	}

	details := order.Details{
		Customer: order.Customer{
			Name:    chosen.Shipping.Name,
			Phone:   chosen.Shipping.Phone,
			Address: joinNonEmpty(", ", chosen.Shipping.Address1, chosen.Shipping.Address2, chosen.Shipping.City, chosen.Shipping.Province),
		},
		Tags:        chosen.Tags,
		Fulfillment: chosen.FulfillmentStatus,
		OrderStatus: "open",
		Store:       chosen.Store,
	}
	if details.Fulfillment == "" {
		details.Fulfillment = "unfulfilled"
	}

	message := ScanOK
	switch {
	case chosen.CancelledAt != nil:
		details.OrderStatus = "closed"
		message = ScanCancelled
	case details.Fulfillment != "fulfilled":
		message = ScanUnfulfilled
	}

	cash := decimal.Zero
	switch {
	case chosen.TotalOutstanding != nil && !chosen.TotalOutstanding.IsZero():
		cash = *chosen.TotalOutstanding
	case chosen.TotalPrice != nil:
		cash = *chosen.TotalPrice
	}
	if cash.IsNegative() {
		cash = decimal.Zero
	}

	return details, cash, message
}

func (h ScanCommandHandler) fillFromSheet(ctx context.Context, o *order.Order) {
	lookupCtx, cancel := context.WithTimeout(ctx, h.opts.LookupTimeout)
	defer cancel()

	c, ok, err := h.sheet.LookupCustomer(lookupCtx, o.Name())
	if err != nil {
		h.effects.metrics.LookupFailed("spreadsheet")
		h.logger.WarnContext(ctx, "sheet lookup failed", "order", o.Name(), "error", err)
		return
	}
	if ok {
		o.FillBlankCustomer(c)
	}
}

func fillFromVerification(ctx context.Context, rows ports.VerificationRepository, o *order.Order) error {
	found, err := rows.FindByName(ctx, o.Name())
	if err != nil || len(found) == 0 {
		return err
	}
	e := found[len(found)-1].Expected()
	o.FillBlankCustomer(order.Customer{Name: e.CustomerName, Phone: e.CustomerPhone, Address: e.Address})
	return nil
}

// backfillVerification stamps the scan on every verification row of the order's name.
func backfillVerification(ctx context.Context, rows ports.VerificationRepository, o *order.Order) (int, error) {
	found, err := rows.FindByName(ctx, o.Name())
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, row := range found {
		if !row.Backfill(o.DriverID(), o.ScannedAt()) {
			continue
		}
		if err = rows.Update(ctx, row); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
