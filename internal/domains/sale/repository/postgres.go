package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"publisher-backoffice/internal/domains/sale/model"
	"publisher-backoffice/internal/infrastructure/database"
	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/pagination"
)

type postgresRepository struct {
	db *database.PostgresDB
}

func NewPostgresRepository(db *database.PostgresDB) RepositoryInterface {
	return &postgresRepository{db: db}
}

const saleSelect = `
	SELECT s.id, s.client_id, c.name, s.sale_date, s.total_amount, s.created_at,
	       (SELECT COUNT(*) FROM sale_items si WHERE si.sale_id = s.id)
	FROM sales s
	JOIN clients c ON c.id = s.client_id`

// ========================================
// CREATE
// ========================================

func (r *postgresRepository) Create(ctx context.Context, s *model.Sale) error {
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT name FROM clients WHERE id = $1`, s.ClientID).Scan(&s.ClientName)
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrClientNotFound(s.ClientID)
		}
		if err != nil {
			return err
		}

		titles, err := bookTitles(ctx, tx, s.Items)
		if err != nil {
			return err
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO sales (client_id, sale_date, total_amount) VALUES ($1, $2, $3) RETURNING id, created_at`,
			s.ClientID, s.SaleDate, s.TotalAmount,
		).Scan(&s.ID, &s.CreatedAt)
		if err != nil {
			return err
		}

		return insertItems(ctx, tx, s, titles)
	})

	if name, ok := database.ForeignKeyViolation(err); ok {
		switch name {
		case model.ConstraintClientFK:
			return model.ErrClientNotFound(s.ClientID)
		case model.ConstraintBookFK:
			return apperror.NotFound("book", nil)
		}
	}
	return database.Wrap("create sale", err)
}

// bookTitles locks the referenced books against concurrent deletion and
// returns their titles.
func bookTitles(ctx context.Context, tx pgx.Tx, items []model.SaleItem) (map[int64]string, error) {
	titles := make(map[int64]string, len(items))
	if len(items) == 0 {
		return titles, nil
	}

	ids := make([]int64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.BookID)
	}

	rows, err := tx.Query(ctx, `SELECT id, title FROM books WHERE id = ANY($1) FOR SHARE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id    int64
			title string
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		titles[id] = title
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, it := range items {
		if _, ok := titles[it.BookID]; !ok {
			return nil, model.ErrBookNotFound(it.BookID)
		}
	}
	return titles, nil
}

func insertItems(ctx context.Context, tx pgx.Tx, s *model.Sale, titles map[int64]string) error {
	if len(s.Items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, it := range s.Items {
		batch.Queue(
			`INSERT INTO sale_items (sale_id, book_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`,
			s.ID, it.BookID, it.Quantity, it.UnitPrice,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range s.Items {
		if err := results.QueryRow().Scan(&s.Items[i].ID); err != nil {
			return err
		}
		s.Items[i].SaleID = s.ID
		s.Items[i].BookTitle = titles[s.Items[i].BookID]
	}
	s.ItemCount = len(s.Items)
	return nil
}

// ========================================
// READ
// ========================================

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Sale, error) {
	row := r.db.Pool.QueryRow(ctx, saleSelect+` WHERE s.id = $1`, id)

	s, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrSaleNotFound(id)
	}
	if err != nil {
		return nil, database.Wrap("get sale", err)
	}

	s.Items, err = r.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *postgresRepository) List(ctx context.Context, p pagination.Params) ([]model.Sale, int64, error) {
	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, database.Wrap("count sales", err)
	}

	sales, err := r.query(ctx,
		saleSelect+` ORDER BY s.sale_date DESC, s.id DESC LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *postgresRepository) ListItems(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT si.id, si.sale_id, si.book_id, b.title, si.quantity, si.unit_price
		FROM sale_items si
		JOIN books b ON b.id = si.book_id
		WHERE si.sale_id = $1
		ORDER BY si.id`, saleID)
	if err != nil {
		return nil, database.Wrap("list sale items", err)
	}
	defer rows.Close()

	items := []model.SaleItem{}
	for rows.Next() {
		var it model.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.BookID, &it.BookTitle, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, database.Wrap("scan sale item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list sale items", err)
	}
	return items, nil
}

func (r *postgresRepository) ListForExport(ctx context.Context, from, to *time.Time) ([]model.Sale, error) {
	return r.query(ctx, saleSelect+`
		WHERE ($1::date IS NULL OR s.sale_date >= $1::date)
		  AND ($2::date IS NULL OR s.sale_date <= $2::date)
		ORDER BY s.sale_date, s.id`, from, to)
}

// ========================================
// DELETE
// ========================================

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrSaleNotFound(id)
		}
		return nil
	})
	return database.Wrap("delete sale", err)
}

// ========================================
// HELPERS
// ========================================

func (r *postgresRepository) query(ctx context.Context, sql string, args ...any) ([]model.Sale, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, database.Wrap("list sales", err)
	}
	defer rows.Close()

	sales := []model.Sale{}
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, database.Wrap("scan sale", err)
		}
		sales = append(sales, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list sales", err)
	}
	return sales, nil
}

func scanSale(row pgx.Row) (*model.Sale, error) {
	var s model.Sale
	err := row.Scan(&s.ID, &s.ClientID, &s.ClientName, &s.SaleDate, &s.TotalAmount, &s.CreatedAt, &s.ItemCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
