package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-analyzer/internal/models"
	"resume-analyzer/internal/services"
)

// stubAuthService satisfies services.AuthService for handler tests.
type stubAuthService struct {
	user        *models.User
	authErr     error
	registered  *models.User
	registerErr error
	token       *models.AuthToken
	loginErr    error
}

func (s *stubAuthService) Register(username, email, password string) (*models.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return s.registered, nil
}

func (s *stubAuthService) Login(username, password string) (*models.AuthToken, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.token, nil
}

func (s *stubAuthService) Authenticate(token string) (*models.User, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	return s.user, nil
}

func newProtectedApp(auth services.AuthService) *fiber.App {
	app := fiber.New()
	app.Get("/me", RequireAuth(auth), func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		return c.JSON(fiber.Map{"username": user.Username})
	})
	return app
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	app := newProtectedApp(&stubAuthService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/me", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth_WrongScheme(t *testing.T) {
	app := newProtectedApp(&stubAuthService{})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	app := newProtectedApp(&stubAuthService{authErr: services.ErrInvalidCredentials})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "alice"}
	app := newProtectedApp(&stubAuthService{user: user})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
