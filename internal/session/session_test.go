package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/liftlog/pkg/client"
	"github.com/naveenspark/liftlog/pkg/domain"
)

var testUser = domain.User{ID: 1, Email: "test@example.com", IsActive: true}

func signToken(t *testing.T, email string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

type fakeAPI struct {
	password    string
	registerErr error
	calls       []string
}

func (f *fakeAPI) RequestToken(_ context.Context, email, password string) (*domain.Token, error) {
	f.calls = append(f.calls, "token")
	if password != f.password {
		return nil, &client.HTTPError{StatusCode: 401, Message: "Incorrect username or password"}
	}
	return &domain.Token{AccessToken: "tok-" + email, TokenType: "bearer"}, nil
}

func (f *fakeAPI) GetMeWithToken(_ context.Context, token string) (*domain.User, error) {
	f.calls = append(f.calls, "me")
	u := testUser
	return &u, nil
}

func (f *fakeAPI) Register(_ context.Context, creds domain.Credentials) (*domain.User, error) {
	f.calls = append(f.calls, "register")
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &domain.User{ID: 2, Email: creds.Email, IsActive: true}, nil
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Setenv(TokenEnv, "")
	dir := filepath.Join(t.TempDir(), ".liftlog")
	s := NewFileStore(dir)

	assert.Equal(t, "", s.ReadToken())
	assert.Nil(t, s.ReadUser())

	require.NoError(t, s.Save("abc", testUser))
	assert.Equal(t, "abc", s.ReadToken())
	assert.Equal(t, &testUser, s.ReadUser())

	info, err := os.Stat(filepath.Join(dir, "token"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Clear())
	assert.Equal(t, "", s.ReadToken())
	assert.Nil(t, s.ReadUser())
	require.NoError(t, s.Clear(), "clearing twice is not an error")
}

func TestFileStore_EnvTokenWins(t *testing.T) {
	s := NewFileStore(t.TempDir())
	require.NoError(t, s.Save("from-file", testUser))
	t.Setenv(TokenEnv, "from-env")
	assert.Equal(t, "from-env", s.ReadToken())
}

func TestFileStore_CorruptUser(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte("{not json"), 0o600))
	assert.Nil(t, NewFileStore(dir).ReadUser())
}

func TestCurrentUser_ExpiredTokenClearsStore(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	require.NoError(t, store.Save(signToken(t, testUser.Email, now.Add(-time.Second)), testUser))

	ev := NewEvaluator(store, nil).WithClock(func() time.Time { return now })
	assert.Nil(t, ev.CurrentUser())
	assert.Equal(t, "", store.ReadToken())
	assert.Nil(t, store.ReadUser())
}

func TestCurrentUser_ValidTokenIsIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	require.NoError(t, store.Save(signToken(t, testUser.Email, now.Add(time.Hour)), testUser))

	ev := NewEvaluator(store, nil).WithClock(func() time.Time { return now })
	first := ev.CurrentUser()
	second := ev.CurrentUser()
	require.NotNil(t, first)
	assert.Equal(t, testUser, *first)
	assert.Equal(t, first, second)
	assert.NotEqual(t, "", store.ReadToken())
}

func TestCurrentUser_ExpiryBoundary(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	require.NoError(t, store.Save(signToken(t, testUser.Email, now), testUser))

	ev := NewEvaluator(store, nil).WithClock(func() time.Time { return now })
	assert.NotNil(t, ev.CurrentUser(), "exp equal to now is still valid")
}

func TestCurrentUser_MissingPieces(t *testing.T) {
	future := time.Now().Add(time.Hour)

	t.Run("no token", func(t *testing.T) {
		store := &partialStore{user: &testUser}
		assert.Nil(t, NewEvaluator(store, nil).CurrentUser())
	})
	t.Run("no user", func(t *testing.T) {
		store := &partialStore{token: signToken(t, testUser.Email, future)}
		assert.Nil(t, NewEvaluator(store, nil).CurrentUser())
		assert.True(t, store.cleared, "a token without its user is discarded")
	})
}

func TestCurrentUser_CorruptUserClearsStore(t *testing.T) {
	t.Setenv(TokenEnv, "")
	dir := t.TempDir()
	store := NewFileStore(dir)
	require.NoError(t, store.Save(signToken(t, testUser.Email, time.Now().Add(time.Hour)), testUser))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte("{not json"), 0o600))

	assert.Nil(t, NewEvaluator(store, nil).CurrentUser())
	assert.Equal(t, "", store.ReadToken(), "token is removed with the unreadable user")
	_, err := os.Stat(filepath.Join(dir, "user.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestCurrentUser_GarbageTokenClears(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save("not-a-jwt", testUser))
	assert.Nil(t, NewEvaluator(store, nil).CurrentUser())
	assert.Equal(t, "", store.ReadToken())
}

func TestCurrentUser_NoExpClaimClears(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x"}).SignedString([]byte("k"))
	require.NoError(t, err)
	store := NewMemoryStore()
	require.NoError(t, store.Save(tok, testUser))
	assert.Nil(t, NewEvaluator(store, nil).CurrentUser())
}

type partialStore struct {
	token   string
	user    *domain.User
	cleared bool
}

func (p *partialStore) Save(string, domain.User) error { return nil }
func (p *partialStore) Clear() error                   { p.cleared = true; return nil }
func (p *partialStore) ReadToken() string              { return p.token }
func (p *partialStore) ReadUser() *domain.User         { return p.user }

func TestAuthClient_LoginSuccess(t *testing.T) {
	api := &fakeAPI{password: "password123"}
	store := NewMemoryStore()
	auth := NewAuthClient(api, store, nil)

	u, err := auth.Login(context.Background(), "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, testUser, *u)
	assert.Equal(t, "tok-test@example.com", store.ReadToken())
	assert.Equal(t, []string{"token", "me"}, api.calls)
}

func TestAuthClient_LoginFailureIsGeneric(t *testing.T) {
	api := &fakeAPI{password: "password123"}
	store := NewMemoryStore()
	auth := NewAuthClient(api, store, nil)

	_, err := auth.Login(context.Background(), "test@example.com", "nope")
	require.Error(t, err)
	assert.Equal(t, MsgInvalidCredentials, err.Error())
	assert.True(t, client.IsStatus(err, 401), "cause is kept")
	assert.Equal(t, "", store.ReadToken())
}

func TestAuthClient_LoginFailureLogsCause(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	auth := NewAuthClient(&fakeAPI{password: "password123"}, NewMemoryStore(), log)

	_, err := auth.Login(context.Background(), "test@example.com", "nope")
	require.Error(t, err)
	assert.Contains(t, buf.String(), `stage="request token"`)
	assert.Contains(t, buf.String(), `error="HTTP 401: Incorrect username or password"`)
}

func TestAuthClient_RegisterThenLogin(t *testing.T) {
	api := &fakeAPI{password: "password123"}
	auth := NewAuthClient(api, NewMemoryStore(), nil)

	u, err := auth.Register(context.Background(), "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, u.ID)
	assert.Equal(t, []string{"register", "token", "me"}, api.calls)
}

func TestAuthClient_RegisterServerMessage(t *testing.T) {
	api := &fakeAPI{registerErr: &client.HTTPError{StatusCode: 400, Message: "Email already registered"}}
	auth := NewAuthClient(api, NewMemoryStore(), nil)

	_, err := auth.Register(context.Background(), "test@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, "Email already registered", err.Error())
	assert.Equal(t, []string{"register"}, api.calls, "login is not attempted")
}

func TestAuthClient_RegisterNetworkError(t *testing.T) {
	api := &fakeAPI{registerErr: errors.New("dial tcp: connection refused")}
	auth := NewAuthClient(api, NewMemoryStore(), nil)

	_, err := auth.Register(context.Background(), "test@example.com", "password123")
	require.Error(t, err)
	assert.Equal(t, "Registration failed", err.Error())
}

func newTestContext(t *testing.T, api *fakeAPI, store Store) *Context {
	t.Helper()
	return NewContext(NewAuthClient(api, store, nil), NewEvaluator(store, nil))
}

func TestContext_InitResolvesLoading(t *testing.T) {
	c := newTestContext(t, &fakeAPI{}, NewMemoryStore())
	assert.True(t, c.Loading())
	c.Init()
	assert.False(t, c.Loading())
	assert.Nil(t, c.User())
}

func TestContext_InitWithStoredSession(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(signToken(t, testUser.Email, time.Now().Add(time.Hour)), testUser))
	c := newTestContext(t, &fakeAPI{}, store)
	c.Init()
	require.NotNil(t, c.User())
	assert.Equal(t, testUser, *c.User())
}

func TestContext_LoginLogout(t *testing.T) {
	c := newTestContext(t, &fakeAPI{password: "password123"}, NewMemoryStore())
	c.Init()

	require.NoError(t, c.Login(context.Background(), "test@example.com", "password123"))
	require.NotNil(t, c.User())
	assert.Equal(t, 1, c.User().ID)
	assert.Equal(t, "test@example.com", c.User().Email)

	c.Logout()
	assert.Nil(t, c.User())
}

func TestContext_LoginRejectedLeavesUserUnset(t *testing.T) {
	c := newTestContext(t, &fakeAPI{password: "password123"}, NewMemoryStore())
	c.Init()

	err := c.Login(context.Background(), "test@example.com", "wrong")
	require.Error(t, err)
	assert.Nil(t, c.User())
}

func TestContext_LogoutWhenSignedOut(t *testing.T) {
	c := newTestContext(t, &fakeAPI{}, NewMemoryStore())
	c.Init()
	c.Logout()
	assert.Nil(t, c.User())
}

func TestContext_RefreshDropsExpired(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	require.NoError(t, store.Save(signToken(t, testUser.Email, now.Add(time.Minute)), testUser))
	ev := NewEvaluator(store, nil)
	c := NewContext(NewAuthClient(&fakeAPI{}, store, nil), ev)
	c.Init()
	require.NotNil(t, c.User())

	ev.WithClock(func() time.Time { return now.Add(2 * time.Minute) })
	assert.Nil(t, c.Refresh())
	assert.Nil(t, c.User())
}
