package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	user "publisher-backoffice/internal/domains/user"
	"publisher-backoffice/internal/shared/apperror"
	"publisher-backoffice/internal/shared/pagination"
	"publisher-backoffice/pkg/jwt"
)

// ========================================
// FAKES
// ========================================

type memoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*user.User
	logins map[int64]time.Time
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[int64]*user.User{}, logins: map[int64]time.Time{}}
}

func (r *memoryUserRepo) insertLocked(u *user.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return apperror.Duplicate(apperror.DuplicateUsername, "username")
		}
		if existing.Email == u.Email {
			return apperror.Duplicate(apperror.DuplicateEmail, "email")
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	stored := *u
	r.users[u.ID] = &stored
	return nil
}

func (r *memoryUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(u)
}

func (r *memoryUserRepo) CreateBatch(_ context.Context, users []*user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make(map[int64]*user.User, len(r.users))
	for k, v := range r.users {
		snapshot[k] = v
	}
	next := r.nextID
	for _, u := range users {
		if err := r.insertLocked(u); err != nil {
			r.users, r.nextID = snapshot, next
			return err
		}
	}
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound(id)
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound(username)
}

func (r *memoryUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *memoryUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins[id] = at
	return nil
}

func (r *memoryUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memoryUserRepo) List(_ context.Context, p pagination.Params) ([]user.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for id := int64(1); id <= r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	total := int64(len(out))
	start := int(p.Offset())
	if start >= len(out) {
		return nil, total, nil
	}
	end := start + p.Limit()
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

type memorySessionStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
	failing bool
}

func (s *memorySessionStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("redis unavailable")
	}
	s.revoked[tokenID] = ttl
	return nil
}

func (s *memorySessionStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return false, errors.New("redis unavailable")
	}
	_, ok := s.revoked[tokenID]
	return ok, nil
}

type fixture struct {
	svc      user.Service
	repo     *memoryUserRepo
	sessions *memorySessionStore
}

func newFixture() fixture {
	repo := newMemoryUserRepo()
	sessions := &memorySessionStore{revoked: map[string]time.Duration{}}
	tokens := jwt.NewManager("test-secret", "backoffice", time.Hour, 7*24*time.Hour)
	svc := NewAuthService(repo, sessions, tokens, NewPasswordHasher(bcrypt.MinCost))
	return fixture{svc: svc, repo: repo, sessions: sessions}
}

func registerReq(username, email string) user.RegisterRequest {
	return user.RegisterRequest{
		Username:        username,
		Email:           email,
		Password:        "s3cret",
		ConfirmPassword: "s3cret",
	}
}

// ========================================
// PASSWORDS
// ========================================

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("x")
	require.NoError(t, err)

	assert.NotEqual(t, "x", hash)
	assert.True(t, h.Check(hash, "x"))
	assert.False(t, h.Check(hash, "y"))
}

func TestPasswordHasher_TooLong(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	long := make([]byte, 80)
	for i := range long {
		long[i] = 'a'
	}

	_, err := h.Hash(string(long))
	assert.True(t, apperror.IsKind(err, apperror.InvalidField))
}

// ========================================
// REGISTER
// ========================================

func TestRegister_Success(t *testing.T) {
	f := newFixture()

	p, err := f.svc.Register(context.Background(), registerReq("ana", "ana@editora.com"))
	require.NoError(t, err)
	assert.Equal(t, "ana", p.Username)
	assert.False(t, p.IsAdmin)

	stored, err := f.repo.FindByID(context.Background(), p.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.True(t, stored.IsActive)
}

func TestRegister_ValidationKinds(t *testing.T) {
	tests := []struct {
		name string
		req  user.RegisterRequest
		kind apperror.Kind
	}{
		{"missing username", user.RegisterRequest{Email: "a@b.com", Password: "x", ConfirmPassword: "x"}, apperror.MissingField},
		{"missing email", user.RegisterRequest{Username: "a", Password: "x", ConfirmPassword: "x"}, apperror.MissingField},
		{"missing password", user.RegisterRequest{Username: "a", Email: "a@b.com"}, apperror.MissingField},
		{"blank username", user.RegisterRequest{Username: "   ", Email: "a@b.com", Password: "x", ConfirmPassword: "x"}, apperror.MissingField},
		{"bad email", user.RegisterRequest{Username: "a", Email: "nope", Password: "x", ConfirmPassword: "x"}, apperror.InvalidField},
		{"mismatch", user.RegisterRequest{Username: "a", Email: "a@b.com", Password: "x", ConfirmPassword: "y"}, apperror.PasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.Register(context.Background(), tt.req)
			assert.True(t, apperror.IsKind(err, tt.kind), "got %v", err)

			n, _ := f.repo.Count(context.Background())
			assert.Zero(t, n)
		})
	}
}

func TestRegister_Duplicates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq("ana", "ana@editora.com"))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, registerReq("ana", "other@editora.com"))
	assert.True(t, apperror.IsKind(err, apperror.DuplicateUsername))

	_, err = f.svc.Register(ctx, registerReq("bia", "ana@editora.com"))
	assert.True(t, apperror.IsKind(err, apperror.DuplicateEmail))
}

func TestRegister_EmailCaseInsensitive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Register(ctx, registerReq("ana", "  Ana@Editora.COM "))
	require.NoError(t, err)

	stored, err := f.repo.FindByID(ctx, p.UserID)
	require.NoError(t, err)
	assert.Equal(t, "ana@editora.com", stored.Email)

	_, err = f.svc.Register(ctx, registerReq("bia", "ANA@editora.com"))
	assert.True(t, apperror.IsKind(err, apperror.DuplicateEmail))
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	f := newFixture()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Register(context.Background(),
				registerReq("same", []string{"one@editora.com", "two@editora.com"}[i]))
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperror.IsKind(err, apperror.DuplicateUsername):
			duplicates++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)
}

// ========================================
// AUTHENTICATE & SESSIONS
// ========================================

func TestAuthenticate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	registered, err := f.svc.Register(ctx, registerReq("ana", "ana@editora.com"))
	require.NoError(t, err)

	p, err := f.svc.Authenticate(ctx, "ana", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, p.UserID)
	assert.Contains(t, f.repo.logins, p.UserID)

	for _, creds := range [][2]string{{"ana", "wrong"}, {"ghost", "s3cret"}, {"", ""}} {
		_, err := f.svc.Authenticate(ctx, creds[0], creds[1])
		assert.ErrorIs(t, err, apperror.ErrAuthFailure)
	}
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Register(ctx, registerReq("ana", "ana@editora.com"))
	require.NoError(t, err)
	f.repo.users[p.UserID].IsActive = false

	_, err = f.svc.Authenticate(ctx, "ana", "s3cret")
	assert.ErrorIs(t, err, apperror.ErrAuthFailure)

	_, err = f.svc.ResolvePrincipal(ctx, p.UserID)
	assert.ErrorIs(t, err, apperror.ErrAuthFailure)
}

func TestLogin_ResolveAndLogout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq("ana", "ana@editora.com"))
	require.NoError(t, err)

	resp, session, err := f.svc.Login(ctx, user.LoginRequest{Username: "ana", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "ana", resp.User.Username)
	assert.Equal(t, session.Token, resp.Token)

	p, err := f.svc.ResolveSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana", p.Username)

	require.NoError(t, f.svc.Logout(ctx, session.Token))
	assert.Contains(t, f.sessions.revoked, session.TokenID)

	_, err = f.svc.ResolveSession(ctx, session.Token)
	assert.ErrorIs(t, err, user.ErrInvalidSession)
}

func TestLogin_RememberExtendsSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, registerReq("ana", "ana@editora.com"))
	require.NoError(t, err)

	_, short, err := f.svc.Login(ctx, user.LoginRequest{Username: "ana", Password: "s3cret"})
	require.NoError(t, err)
	_, long, err := f.svc.Login(ctx, user.LoginRequest{Username: "ana", Password: "s3cret", Remember: true})
	require.NoError(t, err)

	assert.True(t, long.Remember)
	assert.True(t, long.ExpiresAt.After(short.ExpiresAt.Add(24*time.Hour)))
}

func TestResolveSession_Invalid(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ResolveSession(context.Background(), "garbage")
	assert.ErrorIs(t, err, user.ErrInvalidSession)
}

func TestResolveSession_DeletedUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Register(ctx, registerReq("ana", "ana@editora.com"))
	require.NoError(t, err)
	session, err := f.svc.IssueSession(p, false)
	require.NoError(t, err)

	delete(f.repo.users, p.UserID)

	_, err = f.svc.ResolveSession(ctx, session.Token)
	assert.ErrorIs(t, err, apperror.ErrAuthFailure)
}

func TestResolveSession_StoreDownFailsOpen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.Register(ctx, registerReq("ana", "ana@editora.com"))
	require.NoError(t, err)
	session, err := f.svc.IssueSession(p, false)
	require.NoError(t, err)

	f.sessions.failing = true

	resolved, err := f.svc.ResolveSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, p.UserID, resolved.UserID)

	err = f.svc.Logout(ctx, session.Token)
	var serr *apperror.StorageError
	assert.True(t, errors.As(err, &serr))
}

// ========================================
// SEEDING & ADMIN
// ========================================

func TestEnsureInitialUsers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seeds := []user.SeedUser{
		{Username: "admin", Email: "admin@editora.com", Password: "admin123", IsAdmin: true},
		{Username: "usuario", Email: "usuario@editora.com", Password: "senha123"},
	}

	n, err := f.svc.EnsureInitialUsers(ctx, seeds)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	admin, err := f.svc.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)

	n, err = f.svc.EnsureInitialUsers(ctx, seeds)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListUsers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := f.svc.Register(ctx, registerReq(name, name+"@editora.com"))
		require.NoError(t, err)
	}

	page, err := f.svc.ListUsers(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c", page.Items[0].Username)
	assert.Equal(t, int64(3), page.TotalItems)
	assert.True(t, page.HasPrev)
}
