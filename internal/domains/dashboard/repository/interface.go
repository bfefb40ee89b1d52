package repository

import (
	"context"

	"publisher-backoffice/internal/domains/dashboard/model"
)

type RepositoryInterface interface {
	Summary(ctx context.Context) (*model.Summary, error)
}
