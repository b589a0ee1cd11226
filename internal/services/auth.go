package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-analyzer/internal/models"
	"resume-analyzer/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
)

// AuthService handles registration, login and bearer-token resolution.
// Tokens are opaque random values stored server-side with an expiry.
type AuthService interface {
	Register(username, email, password string) (*models.User, error)
	Login(username, password string) (*models.AuthToken, error)
	Authenticate(token string) (*models.User, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	tokenTTL  time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	tokenTTL time.Duration,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokenTTL:  tokenTTL,
	}
}

// Register implements AuthService.
func (a *authService) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	if _, err := a.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := a.userRepo.Create(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login implements AuthService.
func (a *authService) Login(username, password string) (*models.AuthToken, error) {
	user, err := a.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenValue, err := generateToken()
	if err != nil {
		return nil, err
	}

	token := &models.AuthToken{
		ID:        uuid.New(),
		Token:     tokenValue,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(a.tokenTTL),
		CreatedAt: time.Now(),
	}
	if err := a.tokenRepo.Create(token); err != nil {
		return nil, err
	}

	return token, nil
}

// Authenticate implements AuthService. Unknown and expired tokens both fail
// with ErrInvalidCredentials.
func (a *authService) Authenticate(token string) (*models.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := a.tokenRepo.FindUserByToken(token, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return user, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
