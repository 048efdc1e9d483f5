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

	"modelhub/internal/auth"
	"modelhub/internal/domain"
	"modelhub/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]domain.User
	nextID int64
	err    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (f *fakeUserRepo) Init(context.Context) error { return f.err }

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	if _, ok := f.users[user.Username]; ok {
		return 0, repository.ErrUserExists
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.Username] = *user
	return user.ID, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) SetDisabled(_ context.Context, username string, disabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Disabled = disabled
	f.users[username] = u
	return nil
}

func (f *fakeUserRepo) delete(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, username)
}

type fixture struct {
	repo   *fakeUserRepo
	tokens *auth.TokenService
	svc    UserService
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo: newFakeUserRepo(),
		now:  time.Now(),
	}
	f.tokens = auth.NewTokenService([]byte("test-secret"), 30*time.Minute, auth.WithClock(func() time.Time { return f.now }))
	svc, err := NewUserService(f.repo, auth.NewBcryptHasher(bcrypt.MinCost), f.tokens)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func TestSignup_CreatesActiveUser(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.Signup(context.Background(), "  alice ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.Disabled)
	assert.Empty(t, user.PasswordHash, "hash must not leave the service")

	stored, err := f.repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestSignup_DuplicateKeepsOriginalCredential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = f.svc.Signup(ctx, "alice", "pw2")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = f.svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = f.svc.Login(ctx, "alice", "pw2")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignup_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "pw"},
		{"blank username", "   ", "pw"},
		{"empty password", "alice", ""},
		{"slash in username", "alice/../bob", "pw"},
		{"username too long", string(make([]byte, 65)), "pw"},
		{"password too long", "alice", string(make([]byte, 73))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Signup(ctx, tc.username, tc.password)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSignup_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("connection refused")

	_, err := f.svc.Signup(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, ErrStoreUnavailable)
	require.ErrorContains(t, err, "connection refused")
}

func TestLogin_IssuesBearerToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "pw1")
	require.NoError(t, err)

	tok, err := f.svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, domain.TokenTypeBearer, tok.Type)
	assert.Equal(t, f.now.Add(30*time.Minute), tok.ExpiresAt)

	sub, err := f.tokens.Validate(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, wrongPassword := f.svc.Login(ctx, "alice", "wrong")
	_, unknownUser := f.svc.Login(ctx, "nonexistent", "x")
	_, empty := f.svc.Login(ctx, "", "")

	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	require.ErrorIs(t, empty, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLogin_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("timeout")

	_, err := f.svc.Login(context.Background(), "alice", "pw")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "pw1")
	require.NoError(t, err)
	tok, err := f.svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	user, err := f.svc.Authorize(ctx, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)
}

func TestAuthorize_DisabledUserIsInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "pw1")
	require.NoError(t, err)
	tok, err := f.svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	require.NoError(t, f.repo.SetDisabled(ctx, "alice", true))

	_, err = f.svc.Authorize(ctx, tok.Value)
	require.ErrorIs(t, err, ErrInactiveUser)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorize_InvalidTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "pw1")
	require.NoError(t, err)
	tok, err := f.svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = f.svc.Authorize(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)

	foreign, _, err := auth.NewTokenService([]byte("other"), time.Hour).Issue("alice", 0)
	require.NoError(t, err)
	_, err = f.svc.Authorize(ctx, foreign)
	require.ErrorIs(t, err, ErrInvalidToken)

	f.now = f.now.Add(31 * time.Minute)
	_, err = f.svc.Authorize(ctx, tok.Value)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorize_DeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, "alice", "pw1")
	require.NoError(t, err)
	tok, err := f.svc.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	f.repo.delete("alice")
	_, err = f.svc.Authorize(ctx, tok.Value)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorize_StoreFailure(t *testing.T) {
	f := newFixture(t)
	tok, _, err := f.tokens.Issue("alice", 0)
	require.NoError(t, err)

	f.repo.err = errors.New("down")
	_, err = f.svc.Authorize(context.Background(), tok)
	require.ErrorIs(t, err, ErrStoreUnavailable)
}
