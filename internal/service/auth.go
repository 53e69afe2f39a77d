package service

import (
	"context"
	"errors"

	"github.com/dokanhq/dokan/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is interface for interacting with user accounts
type UserRepository interface {
	// CreateUser inserts a new user account
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns user by email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthService handles account registration and login.
type AuthService struct {
	repo  UserRepository
	token TokenService
}

// NewAuthService creates new AuthService instance
func NewAuthService(repo UserRepository, token TokenService) *AuthService {
	return &AuthService{
		repo:  repo,
		token: token,
	}
}

// Register creates a user account with a bcrypt password hash.
func (as *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}

	return as.repo.CreateUser(ctx, user)
}

// Login verifies credentials and returns a signed auth token.
func (as *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := as.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return as.token.CreateToken(user)
}
