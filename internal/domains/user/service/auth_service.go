package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	user "publisher-backoffice/internal/domains/user"
	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/pkg/jwt"
	"publisher-backoffice/pkg/logger"
)

// TokenManager signs and validates session tokens.
type TokenManager interface {
	Generate(userID int64, remember bool) (string, *jwt.Claims, error)
	Validate(token string) (*jwt.Claims, error)
}

type authService struct {
	repo     user.Repository
	sessions user.SessionStore
	tokens   TokenManager
	hasher   *PasswordHasher
	now      func() time.Time
}

func NewAuthService(repo user.Repository, sessions user.SessionStore, tokens TokenManager, hasher *PasswordHasher) user.Service {
	return &authService{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		now:      time.Now,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *authService) Register(ctx context.Context, req user.RegisterRequest) (*user.Principal, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Duplicate(apperror.DuplicateUsername, "username")
	}

	exists, err = s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Duplicate(apperror.DuplicateEmail, "email")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}
	// the unique constraints catch a concurrent registration that passed the checks above
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	logger.Info("user registered", map[string]interface{}{
		"user_id":  u.ID,
		"username": u.Username,
	})
	return u.Principal(), nil
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*user.Principal, error) {
	if username == "" || password == "" {
		s.hasher.Burn(password)
		return nil, apperror.ErrAuthFailure
	}

	u, err := s.repo.FindByUsername(ctx, username)
	if apperror.IsNotFound(err) {
		s.hasher.Burn(password)
		return nil, apperror.ErrAuthFailure
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Check(u.PasswordHash, password) || !u.IsActive {
		return nil, apperror.ErrAuthFailure
	}

	if err := s.repo.UpdateLastLogin(ctx, u.ID, s.now()); err != nil {
		logger.Warn("failed to record last login", map[string]interface{}{
			"user_id": u.ID,
			"error":   err.Error(),
		})
	}

	return u.Principal(), nil
}

func (s *authService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, *user.Session, error) {
	principal, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, nil, err
	}

	session, err := s.IssueSession(principal, req.Remember)
	if err != nil {
		return nil, nil, err
	}

	return &user.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      *principal,
	}, session, nil
}

// Logout revokes the token until it would have expired anyway. Tokens that
// no longer validate need no revocation.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperror.Storage("revoke session", err)
	}
	return nil
}

// ========================================
// SESSIONS
// ========================================

func (s *authService) IssueSession(principal *user.Principal, remember bool) (*user.Session, error) {
	token, claims, err := s.tokens.Generate(principal.UserID, remember)
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return &user.Session{
		Token:     token,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		Remember:  remember,
	}, nil
}

func (s *authService) ResolveSession(ctx context.Context, token string) (*user.Principal, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, user.ErrInvalidSession
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		// the session store is optional at runtime
		logger.Warn("revocation check failed", map[string]interface{}{
			"token_id": claims.ID,
			"error":    err.Error(),
		})
	}
	if revoked {
		return nil, user.ErrInvalidSession
	}

	return s.ResolvePrincipal(ctx, claims.UserID)
}

func (s *authService) ResolvePrincipal(ctx context.Context, userID int64) (*user.Principal, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if apperror.IsNotFound(err) {
		return nil, apperror.ErrAuthFailure
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, apperror.ErrAuthFailure
	}
	return u.Principal(), nil
}

// ========================================
// PROFILE & ADMIN
// ========================================

func (s *authService) GetProfile(ctx context.Context, userID int64) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *authService) ListUsers(ctx context.Context, page, pageSize int) (pagination.Page[user.UserDTO], error) {
	p := pagination.Normalize(page, pageSize)

	users, total, err := s.repo.List(ctx, p)
	if err != nil {
		return pagination.Page[user.UserDTO]{}, err
	}

	return pagination.Map(pagination.New(users, p, total), func(u user.User) user.UserDTO {
		return u.ToDTO()
	}), nil
}

// ========================================
// STARTUP
// ========================================

// EnsureInitialUsers creates seeds in one transaction when no user exists.
// It returns how many users were created.
func (s *authService) EnsureInitialUsers(ctx context.Context, seeds []user.SeedUser) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 || len(seeds) == 0 {
		return 0, nil
	}

	users := make([]*user.User, 0, len(seeds))
	for _, seed := range seeds {
		if seed.Username == "" || seed.Email == "" || seed.Password == "" {
			return 0, apperror.Invalid("seed_users", fmt.Sprintf("seed user %q is incomplete", seed.Username))
		}

		hash, err := s.hasher.Hash(seed.Password)
		if err != nil {
			return 0, err
		}
		users = append(users, &user.User{
			Username:     seed.Username,
			Email:        user.NormalizeEmail(seed.Email),
			PasswordHash: hash,
			IsAdmin:      seed.IsAdmin,
			IsActive:     true,
		})
	}

	if err := s.repo.CreateBatch(ctx, users); err != nil {
		// another instance seeded first
		var verr *apperror.ValidationError
		if errors.As(err, &verr) && verr.IsDuplicate() {
			return 0, nil
		}
		return 0, err
	}

	for _, u := range users {
		logger.Info("initial user created", map[string]interface{}{
			"user_id":  u.ID,
			"username": u.Username,
			"is_admin": u.IsAdmin,
		})
	}
	return len(users), nil
}
