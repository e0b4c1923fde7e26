// Package storage provides persistence for DevDay.
package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/devday/devday/internal/core"
)

// WaitlistStore handles waitlist persistence
type WaitlistStore struct {
	db *DB
}

// NewWaitlistStore creates a new waitlist store
func NewWaitlistStore(db *DB) *WaitlistStore {
	return &WaitlistStore{db: db}
}

// Add puts an email on the waitlist
func (s *WaitlistStore) Add(email string) (*core.WaitlistEntry, error) {
	now := time.Now().UTC()
	entry := &core.WaitlistEntry{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.conn.Exec(`
		INSERT INTO waitlist (id, email, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, entry.ID, entry.Email, entry.CreatedAt, entry.UpdatedAt)

	if IsUniqueViolation(err) {
		return nil, core.ErrDuplicateEmail
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Count returns the waitlist size
func (s *WaitlistStore) Count() (int, error) {
	var count int
	err := s.db.conn.QueryRow("SELECT COUNT(*) FROM waitlist").Scan(&count)
	return count, err
}
