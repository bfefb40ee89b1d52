package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"publisher-backoffice/internal/domains/client/model"
	"publisher-backoffice/internal/infrastructure/database"
	"publisher-backoffice/internal/shared/pagination"
)

type postgresRepository struct {
	db *database.PostgresDB
}

func NewPostgresRepository(db *database.PostgresDB) RepositoryInterface {
	return &postgresRepository{db: db}
}

const clientColumns = `id, name, email, registered_at`

func (r *postgresRepository) Create(ctx context.Context, c *model.Client) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO clients (name, email) VALUES ($1, $2) RETURNING id, registered_at`,
		c.Name, c.Email,
	).Scan(&c.ID, &c.RegisteredAt)
	return mapWriteError("create client", err)
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)

	c, err := scanClient(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrClientNotFound(id)
	}
	if err != nil {
		return nil, database.Wrap("get client", err)
	}
	return c, nil
}

func (r *postgresRepository) List(ctx context.Context, p pagination.Params) ([]model.Client, int64, error) {
	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&total); err != nil {
		return nil, 0, database.Wrap("count clients", err)
	}

	clients, err := r.query(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY name, id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]model.Client, error) {
	return r.query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name, id`)
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE email = $1 AND id <> $2)`,
		email, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, database.Wrap("check client email", err)
	}
	return exists, nil
}

func (r *postgresRepository) Update(ctx context.Context, c *model.Client) error {
	err := r.db.Pool.QueryRow(ctx,
		`UPDATE clients SET name = $2, email = $3 WHERE id = $1 RETURNING registered_at`,
		c.ID, c.Name, c.Email,
	).Scan(&c.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrClientNotFound(c.ID)
	}
	return mapWriteError("update client", err)
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var hasSales bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM sales WHERE client_id = $1)`, id,
		).Scan(&hasSales)
		if err != nil {
			return err
		}
		if hasSales {
			return model.ErrClientHasSales("delete client")
		}

		tag, err := tx.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return model.ErrClientNotFound(id)
		}
		return nil
	})

	if name, ok := database.ForeignKeyViolation(err); ok && name == model.ConstraintSaleClient {
		return model.ErrClientHasSales("delete client")
	}
	return database.Wrap("delete client", err)
}

func (r *postgresRepository) query(ctx context.Context, sql string, args ...any) ([]model.Client, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, database.Wrap("list clients", err)
	}
	defer rows.Close()

	clients := []model.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, database.Wrap("scan client", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Wrap("list clients", err)
	}
	return clients, nil
}

func mapWriteError(op string, err error) error {
	if name, ok := database.UniqueViolation(err); ok && name == model.ConstraintEmailKey {
		return model.ErrDuplicateEmail()
	}
	return database.Wrap(op, err)
}

func scanClient(row pgx.Row) (*model.Client, error) {
	var c model.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.RegisteredAt); err != nil {
		return nil, err
	}
	return &c, nil
}
