package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is a staff account that can log in to the ledger.
type User struct {
	ID             uuid.UUID
	Email          string
	FullName       string
	HashedPassword string
	Role           string
	CreatedAt      time.Time
}

// CreateUserParams holds the fields for a new user.
type CreateUserParams struct {
	Email          string
	FullName       string
	HashedPassword string
	Role           string
}

// CreateUser inserts a user account.
func (s *Store) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, hashed_password, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, email, full_name, hashed_password, role, created_at`,
		uuid.New(), arg.Email, arg.FullName, arg.HashedPassword, arg.Role,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Role, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUserByEmail fetches a user for login. Returns pgx.ErrNoRows when the
// email is unknown.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, full_name, hashed_password, role, created_at
		FROM users
		WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Role, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUserByID fetches a user by primary key, used by token refresh.
func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		SELECT id, email, full_name, hashed_password, role, created_at
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.HashedPassword, &u.Role, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}
