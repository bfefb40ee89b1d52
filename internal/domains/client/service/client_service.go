package service

import (
	"context"

	"publisher-backoffice/internal/domains/client/model"
	"publisher-backoffice/internal/domains/client/repository"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/pkg/logger"
)

type clientService struct {
	repo repository.RepositoryInterface
}

func NewClientService(repo repository.RepositoryInterface) ServiceInterface {
	return &clientService{repo: repo}
}

func (s *clientService) CreateClient(ctx context.Context, req model.ClientRequest) (*model.Client, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, req.Email, 0); err != nil {
		return nil, err
	}

	c := &model.Client{Name: req.Name, Email: req.Email}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info("client created", map[string]interface{}{"client_id": c.ID})
	return c, nil
}

func (s *clientService) UpdateClient(ctx context.Context, id int64, req model.ClientRequest) (*model.Client, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, req.Email, id); err != nil {
		return nil, err
	}

	c := &model.Client{ID: id, Name: req.Name, Email: req.Email}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *clientService) GetClient(ctx context.Context, id int64) (*model.Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *clientService) ListClients(ctx context.Context, page, pageSize int) (pagination.Page[model.Client], error) {
	p := pagination.Normalize(page, pageSize)

	clients, total, err := s.repo.List(ctx, p)
	if err != nil {
		return pagination.Page[model.Client]{}, err
	}
	return pagination.New(clients, p, total), nil
}

func (s *clientService) ListAllClients(ctx context.Context) ([]model.Client, error) {
	return s.repo.ListAll(ctx)
}

func (s *clientService) DeleteClient(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("client deleted", map[string]interface{}{"client_id": id})
	return nil
}

// ensureEmailFree is the up-front duplicate check; the unique constraint
// still decides races between concurrent writers.
func (s *clientService) ensureEmailFree(ctx context.Context, email string, excludeID int64) error {
	exists, err := s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrDuplicateEmail()
	}
	return nil
}
