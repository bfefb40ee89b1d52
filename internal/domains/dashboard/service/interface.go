package service

import (
	"context"

	"publisher-backoffice/internal/domains/dashboard/model"
)

type ServiceInterface interface {
	Summary(ctx context.Context) (*model.Summary, error)
}
