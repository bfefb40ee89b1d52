package repository

import (
	"context"

	"publisher-backoffice/internal/domains/author/model"
	"publisher-backoffice/internal/shared/pagination"
)

// RepositoryInterface is the data access contract for authors.
type RepositoryInterface interface {
	Create(ctx context.Context, a *model.Author) error
	GetByID(ctx context.Context, id int64) (*model.Author, error)
	List(ctx context.Context, p pagination.Params) ([]model.Author, int64, error)
	ListAll(ctx context.Context) ([]model.Author, error)
	Update(ctx context.Context, a *model.Author) error

	// Delete removes the author and its book associations in one transaction.
	Delete(ctx context.Context, id int64) error
}
