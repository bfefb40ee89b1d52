package service

import (
	"context"

	"publisher-backoffice/internal/domains/dashboard/model"
	"publisher-backoffice/internal/domains/dashboard/repository"
)

type dashboardService struct {
	repo repository.RepositoryInterface
}

func NewDashboardService(repo repository.RepositoryInterface) ServiceInterface {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) Summary(ctx context.Context) (*model.Summary, error) {
	summary, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, err
	}
	summary.TotalRevenue = summary.TotalRevenue.Round(2)
	return summary, nil
}
