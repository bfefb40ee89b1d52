package user

import (
	"context"
	"time"

	"publisher-backoffice/internal/shared/pagination"
)

// Repository is the data access contract for users.
type Repository interface {
	// Create inserts u and fills its ID and CreatedAt.
	// Unique violations surface as DuplicateUsername or DuplicateEmail.
	Create(ctx context.Context, u *User) error

	// CreateBatch inserts all users in one transaction.
	CreateBatch(ctx context.Context, users []*User) error

	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, p pagination.Params) ([]User, int64, error)
}

// SessionStore remembers revoked session token ids until they expire.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
