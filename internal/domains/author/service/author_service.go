package service

import (
	"context"

	"publisher-backoffice/internal/domains/author/model"
	"publisher-backoffice/internal/domains/author/repository"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/pkg/logger"
)

type authorService struct {
	repo repository.RepositoryInterface
}

func NewAuthorService(repo repository.RepositoryInterface) ServiceInterface {
	return &authorService{repo: repo}
}

func (s *authorService) CreateAuthor(ctx context.Context, req model.AuthorRequest) (*model.Author, error) {
	a, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	logger.Info("author created", map[string]interface{}{"author_id": a.ID})
	return a, nil
}

func (s *authorService) UpdateAuthor(ctx context.Context, id int64, req model.AuthorRequest) (*model.Author, error) {
	a, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	a.ID = id

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *authorService) GetAuthor(ctx context.Context, id int64) (*model.Author, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *authorService) ListAuthors(ctx context.Context, page, pageSize int) (pagination.Page[model.Author], error) {
	p := pagination.Normalize(page, pageSize)

	authors, total, err := s.repo.List(ctx, p)
	if err != nil {
		return pagination.Page[model.Author]{}, err
	}
	return pagination.New(authors, p, total), nil
}

func (s *authorService) ListAllAuthors(ctx context.Context) ([]model.Author, error) {
	return s.repo.ListAll(ctx)
}

func (s *authorService) DeleteAuthor(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("author deleted", map[string]interface{}{"author_id": id})
	return nil
}

func (s *authorService) fromRequest(req model.AuthorRequest) (*model.Author, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req.ToAuthor()
}
