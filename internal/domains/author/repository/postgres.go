package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"publisher-backoffice/internal/domains/author/model"
	"publisher-backoffice/internal/infrastructure/database"
	"publisher-backoffice/internal/shared/pagination"
)

type postgresRepository struct {
	db *database.PostgresDB
}

func NewPostgresRepository(db *database.PostgresDB) RepositoryInterface {
	return &postgresRepository{db: db}
}

const authorColumns = `id, name, birth_date, nationality`

func (r *postgresRepository) Create(ctx context.Context, a *model.Author) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO authors (name, birth_date, nationality) VALUES ($1, $2, $3) RETURNING id`,
		a.Name, a.BirthDate, a.Nationality,
	).Scan(&a.ID)
	if err != nil {
		return database.Wrap("create author", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Author, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+authorColumns+` FROM authors WHERE id = $1`, id)

	a, err := scanAuthor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAuthorNotFound(id)
	}
	if err != nil {
		return nil, database.Wrap("get author", err)
	}
	return a, nil
}

func (r *postgresRepository) List(ctx context.Context, p pagination.Params) ([]model.Author, int64, error) {
	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, database.Wrap("count authors", err)
	}

	authors, err := r.query(ctx,
		`SELECT `+authorColumns+` FROM authors ORDER BY name, id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]model.Author, error) {
	return r.query(ctx, `SELECT `+authorColumns+` FROM authors ORDER BY name, id`)
}

func (r *postgresRepository) Update(ctx context.Context, a *model.Author) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE authors SET name = $2, birth_date = $3, nationality = $4 WHERE id = $1`,
		a.ID, a.Name, a.BirthDate, a.Nationality,
	)
	if err != nil {
		return database.Wrap("update author", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound(a.ID)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM book_authors WHERE author_id = $1`, id); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrAuthorNotFound(id)
		}
		return nil
	})
	return database.Wrap("delete author", err)
}

func (r *postgresRepository) query(ctx context.Context, sql string, args ...any) ([]model.Author, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, database.Wrap("list authors", err)
	}
	defer rows.Close()

	authors := []model.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, database.Wrap("scan author", err)
		}
		authors = append(authors, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list authors", err)
	}
	return authors, nil
}

func scanAuthor(row pgx.Row) (*model.Author, error) {
	var a model.Author
	if err := row.Scan(&a.ID, &a.Name, &a.BirthDate, &a.Nationality); err != nil {
		return nil, err
	}
	return &a, nil
}
