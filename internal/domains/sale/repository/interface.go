package repository

import (
	"context"
	"time"

	"publisher-backoffice/internal/domains/sale/model"
	"publisher-backoffice/internal/shared/pagination"
)

type RepositoryInterface interface {
	// Create persists the sale and its items atomically. The client and
	// every book are checked inside the transaction; a missing one is a
	// NotFoundError and nothing is written.
	Create(ctx context.Context, s *model.Sale) error
	GetByID(ctx context.Context, id int64) (*model.Sale, error)

	// List returns sales newest first with client name and item count.
	List(ctx context.Context, p pagination.Params) ([]model.Sale, int64, error)
	ListItems(ctx context.Context, saleID int64) ([]model.SaleItem, error)

	// Delete removes the items and then the sale in one transaction.
	Delete(ctx context.Context, id int64) error

	// ListForExport returns every sale dated within [from, to]; nil bounds
	// are open.
	ListForExport(ctx context.Context, from, to *time.Time) ([]model.Sale, error)
}
