package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"publisher-backoffice/internal/domains/dashboard/model"
	"publisher-backoffice/internal/shared/apperror"
)

type stubSummaryRepo struct {
	summary *model.Summary
	err     error
}

func (r stubSummaryRepo) Summary(context.Context) (*model.Summary, error) {
	return r.summary, r.err
}

func TestSummary(t *testing.T) {
	svc := NewDashboardService(stubSummaryRepo{summary: &model.Summary{
		TotalAuthors: 3,
		TotalBooks:   5,
		TotalClients: 2,
		TotalSales:   4,
		TotalRevenue: decimal.RequireFromString("125.5"),
	}})

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)

	resp := s.ToResponse()
	assert.Equal(t, int64(5), resp.TotalBooks)
	assert.Equal(t, "125.50", resp.TotalRevenue)
}

func TestSummary_NoSales(t *testing.T) {
	svc := NewDashboardService(stubSummaryRepo{summary: &model.Summary{}})

	s, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.00", s.ToResponse().TotalRevenue)
}

func TestSummary_StorageError(t *testing.T) {
	svc := NewDashboardService(stubSummaryRepo{err: apperror.Storage("dashboard summary", errors.New("down"))})

	_, err := svc.Summary(context.Background())
	require.Error(t, err)
	assert.False(t, apperror.IsNotFound(err))
}
