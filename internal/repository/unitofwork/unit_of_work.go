package unitofwork

import (
	"context"

	"mdc-notebook-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	AuthTokenRepository() contract.AuthTokenRepository
	NotebookRepository() contract.NotebookRepository
	OrganizationRepository() contract.OrganizationRepository
}

// RepositoryFactory hands out a fresh UnitOfWork per request.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
