package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	user "publisher-backoffice/internal/domains/user"
	"publisher-backoffice/internal/infrastructure/database"
	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/pagination"
)

type postgresRepository struct {
	db *database.PostgresDB
}

func NewPostgresRepository(db *database.PostgresDB) user.Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, username, email, password_hash, is_admin, is_active, created_at, last_login_at`

const insertUser = `
	INSERT INTO users (username, email, password_hash, is_admin, is_active)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, created_at
`

// ========================================
// CREATE
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	err := r.db.Pool.QueryRow(ctx, insertUser,
		u.Username, u.Email, u.PasswordHash, u.IsAdmin, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return mapWriteError("create user", err)
	}
	return nil
}

func (r *postgresRepository) CreateBatch(ctx context.Context, users []*user.User) error {
	err := r.db.InTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, u := range users {
			if err := tx.QueryRow(ctx, insertUser,
				u.Username, u.Email, u.PasswordHash, u.IsAdmin, u.IsActive,
			).Scan(&u.ID, &u.CreatedAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mapWriteError("create users", err)
	}
	return nil
}

// ========================================
// READ
// ========================================

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound(id)
	}
	if err != nil {
		return nil, database.Wrap("find user", err)
	}
	return u, nil
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	row := r.db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, user.ErrUserNotFound(username)
	}
	if err != nil {
		return nil, database.Wrap("find user by username", err)
	}
	return u, nil
}

func (r *postgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *postgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *postgresRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, database.Wrap("check user exists", err)
	}
	return exists, nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, database.Wrap("count users", err)
	}
	return n, nil
}

func (r *postgresRepository) List(ctx context.Context, p pagination.Params) ([]user.User, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset(),
	)
	if err != nil {
		return nil, 0, database.Wrap("list users", err)
	}
	defer rows.Close()

	users := make([]user.User, 0, p.Limit())
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, database.Wrap("scan user", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, database.Wrap("list users", err)
	}

	return users, total, nil
}

// ========================================
// UPDATE
// ========================================

func (r *postgresRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return database.Wrap("update last login", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound(id)
	}
	return nil
}

// ========================================
// HELPERS
// ========================================

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.IsAdmin, &u.IsActive, &u.CreatedAt, &u.LastLoginAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func mapWriteError(op string, err error) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		switch constraint {
		case user.ConstraintUsernameKey:
			return apperror.Duplicate(apperror.DuplicateUsername, "username")
		case user.ConstraintEmailKey:
			return apperror.Duplicate(apperror.DuplicateEmail, "email")
		}
	}
	return database.Wrap(op, err)
}
