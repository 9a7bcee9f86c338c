package postgres

import (
	"context"
	"fmt"

	"driverdesk/internal/adapters/out/postgres/driverrepo"
	"driverdesk/internal/adapters/out/postgres/employeerepo"
	"driverdesk/internal/adapters/out/postgres/noterepo"
	"driverdesk/internal/adapters/out/postgres/orderrepo"
	"driverdesk/internal/adapters/out/postgres/payoutrepo"
	"driverdesk/internal/adapters/out/postgres/verificationrepo"

	"gorm.io/gorm"
)

// Models lists every persisted DTO in dependency order.
func Models() []any {
	return []any{
		&driverrepo.DriverDTO{},
		&orderrepo.OrderDTO{},
		&noterepo.NoteDTO{},
		&noterepo.ItemDTO{},
		&payoutrepo.PayoutDTO{},
		&verificationrepo.VerificationDTO{},
		&employeerepo.LogEntryDTO{},
	}
}

// singletonIndexes back the one-open-note and one-open-payout rules per driver.
var singletonIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_open_note_per_driver
		ON delivery_notes (driver_id) WHERE status = 'draft'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_open_payout_per_driver
		ON payouts (driver_id) WHERE status <> 'paid'`,
}

// Migrate creates or updates the schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range singletonIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// Tables lists the table names in truncation order, used by integration tests.
func Tables() []string {
	return []string{
		"delivery_note_items",
		"delivery_notes",
		"payouts",
		"orders",
		"verification_orders",
		"employee_logs",
		"drivers",
	}
}
