package service

import (
	"context"

	"publisher-backoffice/internal/domains/author/model"
	"publisher-backoffice/internal/shared/pagination"
)

type ServiceInterface interface {
	CreateAuthor(ctx context.Context, req model.AuthorRequest) (*model.Author, error)
	UpdateAuthor(ctx context.Context, id int64, req model.AuthorRequest) (*model.Author, error)
	GetAuthor(ctx context.Context, id int64) (*model.Author, error)
	ListAuthors(ctx context.Context, page, pageSize int) (pagination.Page[model.Author], error)
	ListAllAuthors(ctx context.Context) ([]model.Author, error)
	DeleteAuthor(ctx context.Context, id int64) error
}
