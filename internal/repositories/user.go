package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resume-analyzer/internal/models"
)

var ErrNotFound = errors.New("record not found")

type UserRepository interface {
	Create(user *models.User) error
	FindByUsername(username string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create implements UserRepository.
func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByUsername implements UserRepository.
func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// FindByID implements UserRepository.
func (r *userRepository) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

type TokenRepository interface {
	Create(token *models.AuthToken) error
	FindUserByToken(token string, now time.Time) (*models.User, error)
	DeleteExpired(now time.Time) error
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

// Create implements TokenRepository.
func (r *tokenRepository) Create(token *models.AuthToken) error {
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to create auth token: %w", err)
	}
	return nil
}

// FindUserByToken implements TokenRepository. Expired tokens resolve to
// ErrNotFound, the same as unknown ones.
func (r *tokenRepository) FindUserByToken(token string, now time.Time) (*models.User, error) {
	var authToken models.AuthToken
	err := r.db.Preload("User").
		Where("token = ? AND expires_at > ?", token, now).
		First(&authToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to resolve auth token: %w", err)
	}
	return &authToken.User, nil
}

// DeleteExpired implements TokenRepository.
func (r *tokenRepository) DeleteExpired(now time.Time) error {
	if err := r.db.Where("expires_at <= ?", now).Delete(&models.AuthToken{}).Error; err != nil {
		return fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return nil
}
