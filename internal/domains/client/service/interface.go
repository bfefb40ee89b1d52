package service

import (
	"context"

	"publisher-backoffice/internal/domains/client/model"
	"publisher-backoffice/internal/shared/pagination"
)

type ServiceInterface interface {
	CreateClient(ctx context.Context, req model.ClientRequest) (*model.Client, error)
	UpdateClient(ctx context.Context, id int64, req model.ClientRequest) (*model.Client, error)
	GetClient(ctx context.Context, id int64) (*model.Client, error)
	ListClients(ctx context.Context, page, pageSize int) (pagination.Page[model.Client], error)
	ListAllClients(ctx context.Context) ([]model.Client, error)
	DeleteClient(ctx context.Context, id int64) error
}
