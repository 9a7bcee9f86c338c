// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"driverdesk/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	NoteRepoFactory interface {
		NoteRepository() ports.NoteRepository
	}

	PayoutRepoFactory interface {
		PayoutRepository() ports.PayoutRepository
	}

	VerificationRepoFactory interface {
		VerificationRepository() ports.VerificationRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	EmployeeLogRepoFactory interface {
		EmployeeLogRepository() ports.EmployeeLogRepository
	}

	// UoW manages transactions across orders, notes, payouts and verification rows.
	// Used by every command of the delivery lifecycle.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   payoutRepo := uow.PayoutRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		NoteRepoFactory
		PayoutRepoFactory
		VerificationRepoFactory
		DriverRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}

	// DriverUoW manages transactions for driver provisioning.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	DriverUoWFactory interface {
		Create() DriverUoW
	}

	// EmployeeLogUoW manages transactions for the staff journal.
	EmployeeLogUoW interface {
		TxManager
		EmployeeLogRepoFactory
	}

	EmployeeLogUoWFactory interface {
		Create() EmployeeLogUoW
	}
)
