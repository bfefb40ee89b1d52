package user

import (
	"context"

	"publisher-backoffice/internal/shared/pagination"
)

// Service is the authentication service contract.
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*Principal, error)
	Authenticate(ctx context.Context, username, password string) (*Principal, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, *Session, error)
	Logout(ctx context.Context, token string) error

	// Sessions
	IssueSession(principal *Principal, remember bool) (*Session, error)
	ResolveSession(ctx context.Context, token string) (*Principal, error)
	ResolvePrincipal(ctx context.Context, userID int64) (*Principal, error)

	// Profile
	GetProfile(ctx context.Context, userID int64) (*UserDTO, error)

	// Admin
	ListUsers(ctx context.Context, page, pageSize int) (pagination.Page[UserDTO], error)

	// Startup
	EnsureInitialUsers(ctx context.Context, seeds []SeedUser) (int, error)
}
