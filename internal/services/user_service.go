package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/geodesk/spatial-api/internal/auth"
	"github.com/geodesk/spatial-api/internal/models"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(ctx context.Context, username, password string) (models.User, error)
	Authenticate(ctx context.Context, username, password string) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
}

// UserService provides registration and credential verification.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a new user, hashing their password.
func (s *UserService) Register(ctx context.Context, username, password string) (models.User, error) {
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{Username: username, HashedPassword: hashed}
	err = s.db.QueryRowContext(ctx,
		"INSERT INTO users (username, hashed_password) VALUES ($1, $2) RETURNING id",
		user.Username, user.HashedPassword,
	).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return models.User{}, models.ErrUsernameTaken
		}
		return models.User{}, err
	}
	return user, nil
}

// Authenticate verifies a user's credentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.User{}, models.ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if !auth.CheckPassword(password, user.HashedPassword) {
		return models.User{}, models.ErrInvalidCredentials
	}
	return user, nil
}

// GetByUsername retrieves a single user, including the password hash.
func (s *UserService) GetByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, hashed_password FROM users WHERE username = $1", username)
	err := row.Scan(&user.ID, &user.Username, &user.HashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, models.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}
