package repository

import (
	"context"

	"publisher-backoffice/internal/domains/dashboard/model"
	"publisher-backoffice/internal/infrastructure/database"
)

type postgresRepository struct {
	db *database.PostgresDB
}

func NewPostgresRepository(db *database.PostgresDB) RepositoryInterface {
	return &postgresRepository{db: db}
}

// Summary reads every counter in one statement so they come from the same
// snapshot.
func (r *postgresRepository) Summary(ctx context.Context) (*model.Summary, error) {
	var s model.Summary
	err := r.db.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM authors),
			(SELECT COUNT(*) FROM books),
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM sales),
			(SELECT COALESCE(SUM(total_amount), 0) FROM sales)`,
	).Scan(&s.TotalAuthors, &s.TotalBooks, &s.TotalClients, &s.TotalSales, &s.TotalRevenue)
	if err != nil {
		return nil, database.Wrap("dashboard summary", err)
	}
	return &s, nil
}
