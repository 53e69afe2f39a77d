package repository

import (
	"context"
	"errors"

	"github.com/dokanhq/dokan/internal/models"
	"github.com/dokanhq/dokan/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertUserQuery = `
						INSERT INTO users (name, email, password_hash)
						VALUES ($1, $2, $3)
						RETURNING id, created_at
`
	selectUserByEmailQuery = `
						SELECT id, name, email, password_hash, created_at FROM users
						WHERE email = $1
`
)

// UserRepository implements service.UserRepository interface
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user account
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	err := ur.db.QueryRow(ctx, insertUserQuery, user.Name, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if errCode := ur.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return user, nil
}

// GetUserByEmail returns user by email
func (ur *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, selectUserByEmailQuery, email).
		Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}
