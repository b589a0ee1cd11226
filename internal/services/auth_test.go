package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"resume-analyzer/internal/models"
	"resume-analyzer/internal/repositories"
)

type fakeUserRepo struct {
	byID   map[uuid.UUID]*models.User
	byName map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:   make(map[uuid.UUID]*models.User),
		byName: make(map[string]*models.User),
	}
}

func (f *fakeUserRepo) Create(user *models.User) error {
	f.byID[user.ID] = user
	f.byName[user.Username] = user
	return nil
}

func (f *fakeUserRepo) FindByUsername(username string) (*models.User, error) {
	user, ok := f.byName[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return user, nil
}

type fakeTokenRepo struct {
	users  *fakeUserRepo
	tokens map[string]*models.AuthToken
}

func newFakeTokenRepo(users *fakeUserRepo) *fakeTokenRepo {
	return &fakeTokenRepo{users: users, tokens: make(map[string]*models.AuthToken)}
}

func (f *fakeTokenRepo) Create(token *models.AuthToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeTokenRepo) FindUserByToken(token string, now time.Time) (*models.User, error) {
	stored, ok := f.tokens[token]
	if !ok || !stored.ExpiresAt.After(now) {
		return nil, repositories.ErrNotFound
	}
	return f.users.FindByID(stored.UserID)
}

func (f *fakeTokenRepo) DeleteExpired(now time.Time) error {
	for value, token := range f.tokens {
		if !token.ExpiresAt.After(now) {
			delete(f.tokens, value)
		}
	}
	return nil
}

func newAuthFixture() (AuthService, *fakeUserRepo, *fakeTokenRepo) {
	users := newFakeUserRepo()
	tokens := newFakeTokenRepo(users)
	return NewAuthService(users, tokens, 24*time.Hour), users, tokens
}

func TestRegister_HashesPassword(t *testing.T) {
	auth, users, _ := newAuthFixture()

	user, err := auth.Register("alice", "alice@example.com", "s3cret")

	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "s3cret", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret")))

	stored, err := users.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	auth, _, _ := newAuthFixture()

	_, err := auth.Register("alice", "", "s3cret")
	require.NoError(t, err)

	_, err = auth.Register("alice", "", "another")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegister_MissingFields(t *testing.T) {
	auth, _, _ := newAuthFixture()

	_, err := auth.Register("", "", "s3cret")
	assert.Error(t, err)

	_, err = auth.Register("alice", "", "")
	assert.Error(t, err)
}

func TestLogin_IssuesToken(t *testing.T) {
	auth, _, _ := newAuthFixture()

	_, err := auth.Register("alice", "", "s3cret")
	require.NoError(t, err)

	token, err := auth.Login("alice", "s3cret")

	require.NoError(t, err)
	assert.Len(t, token.Token, 64) // 32 random bytes, hex-encoded
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), token.ExpiresAt, time.Minute)
}

func TestLogin_WrongPassword(t *testing.T) {
	auth, _, _ := newAuthFixture()

	_, err := auth.Register("alice", "", "s3cret")
	require.NoError(t, err)

	_, err = auth.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	auth, _, _ := newAuthFixture()

	_, err := auth.Login("nobody", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	auth, _, _ := newAuthFixture()

	registered, err := auth.Register("alice", "", "s3cret")
	require.NoError(t, err)
	token, err := auth.Login("alice", "s3cret")
	require.NoError(t, err)

	user, err := auth.Authenticate(token.Token)

	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestAuthenticate_UnknownToken(t *testing.T) {
	auth, _, _ := newAuthFixture()

	_, err := auth.Authenticate("deadbeef")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	auth, users, tokens := newAuthFixture()

	user := &models.User{ID: uuid.New(), Username: "bob"}
	require.NoError(t, users.Create(user))
	require.NoError(t, tokens.Create(&models.AuthToken{
		ID:        uuid.New(),
		Token:     "expired-token",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(-time.Hour),
	}))

	_, err := auth.Authenticate("expired-token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_EmptyToken(t *testing.T) {
	auth, _, _ := newAuthFixture()

	_, err := auth.Authenticate("   ")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
