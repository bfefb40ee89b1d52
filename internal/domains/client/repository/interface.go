package repository

import (
	"context"

	"publisher-backoffice/internal/domains/client/model"
	"publisher-backoffice/internal/shared/pagination"
)

type RepositoryInterface interface {
	// Create inserts the client and fills ID and RegisteredAt.
	Create(ctx context.Context, c *model.Client) error
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	List(ctx context.Context, p pagination.Params) ([]model.Client, int64, error)
	ListAll(ctx context.Context) ([]model.Client, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Update(ctx context.Context, c *model.Client) error

	// Delete fails with a conflict while the client has sales.
	Delete(ctx context.Context, id int64) error
}
