// Package storage provides persistence for DevDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/devday/devday/internal/core"
)

// UserStore handles user persistence
type UserStore struct {
	db *DB
}

// NewUserStore creates a new user store
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create creates a new user with the given password hash
func (s *UserStore) Create(user *core.User, passwordHash string) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.db.conn.Exec(`
		INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.DisplayName, passwordHash, user.CreatedAt, user.UpdatedAt)

	if IsUniqueViolation(err) {
		return core.ErrEmailTaken
	}
	return err
}

// GetByID returns a user by id
func (s *UserStore) GetByID(id core.UserID) (*core.User, error) {
	user := &core.User{}
	err := s.db.conn.QueryRow(`
		SELECT id, email, display_name, created_at, updated_at
		FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, core.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetByEmail returns a user and their password hash by email
func (s *UserStore) GetByEmail(email string) (*core.User, string, error) {
	user := &core.User{}
	var hash string
	err := s.db.conn.QueryRow(`
		SELECT id, email, display_name, password_hash, created_at, updated_at
		FROM users WHERE email = ?
	`, email).Scan(&user.ID, &user.Email, &user.DisplayName, &hash, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, "", core.ErrUserNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return user, hash, nil
}
