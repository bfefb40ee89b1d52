package service

import (
	"context"

	"publisher-backoffice/internal/domains/book/model"
	"publisher-backoffice/internal/shared/pagination"
)

type ServiceInterface interface {
	CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error)
	GetBook(ctx context.Context, id int64) (*model.Book, error)
	ListBooks(ctx context.Context, page, pageSize int) (pagination.Page[model.Book], error)
	DeleteBook(ctx context.Context, id int64) error

	// SetBookAuthors replaces the author set; AddBookAuthors extends it.
	SetBookAuthors(ctx context.Context, id int64, authorIDs []int64) (*model.Book, error)
	AddBookAuthors(ctx context.Context, id int64, authorIDs []int64) (*model.Book, error)
}
