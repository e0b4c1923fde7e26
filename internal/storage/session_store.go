// Package storage provides persistence for DevDay.
package storage

import (
	"database/sql"

	"github.com/devday/devday/internal/core"
)

// SessionStore handles login session persistence
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a new session store
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create creates a new session
func (s *SessionStore) Create(session *core.Session) error {
	_, err := s.db.conn.Exec(`
		INSERT INTO sessions (id, user_id, token_hash, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.UserID, session.TokenHash, session.ExpiresAt, session.CreatedAt)
	return err
}

// GetByTokenHash returns the session matching a token hash
func (s *SessionStore) GetByTokenHash(hash string) (*core.Session, error) {
	session := &core.Session{}
	err := s.db.conn.QueryRow(`
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM sessions WHERE token_hash = ?
	`, hash).Scan(&session.ID, &session.UserID, &session.TokenHash, &session.ExpiresAt, &session.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, core.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session
func (s *SessionStore) Delete(id string) error {
	_, err := s.db.conn.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// DeleteExpired removes all sessions past their expiry
func (s *SessionStore) DeleteExpired() (int64, error) {
	res, err := s.db.conn.Exec("DELETE FROM sessions WHERE expires_at < CURRENT_TIMESTAMP")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
