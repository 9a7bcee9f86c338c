package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one command. Repositories obtained
// from it after Begin share the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	NoteRepository() NoteRepository
	PayoutRepository() PayoutRepository
	VerificationRepository() VerificationRepository
	DriverRepository() DriverRepository
	EmployeeLogRepository() EmployeeLogRepository
}
