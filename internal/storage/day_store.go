// Package storage provides persistence for DevDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/devday/devday/internal/core"
)

// DayStore handles day session persistence
type DayStore struct {
	db *DB
}

// NewDayStore creates a new day store
func NewDayStore(db *DB) *DayStore {
	return &DayStore{db: db}
}

// Create creates a new day. The partial unique index on
// (user_id, date) for non-completed rows rejects a second open day,
// which surfaces as core.ErrDayAlreadyStarted.
func (s *DayStore) Create(day *core.Day) error {
	now := time.Now().UTC()
	day.CreatedAt = now
	day.UpdatedAt = now

	_, err := s.db.conn.Exec(`
		INSERT INTO days (id, user_id, date, status, start_time, end_time, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		day.ID, day.UserID, day.Date, day.Status, day.StartTime,
		day.EndTime, day.Notes, day.CreatedAt, day.UpdatedAt,
	)

	if IsUniqueViolation(err) {
		return core.ErrDayAlreadyStarted
	}
	return err
}

// GetByID returns a day by id, scoped to its owner
func (s *DayStore) GetByID(id core.DayID, userID core.UserID) (*core.Day, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, user_id, date, status, start_time, end_time, notes, created_at, updated_at
		FROM days WHERE id = ? AND user_id = ?
	`, id, userID)
	return scanDay(row)
}

// GetStarted returns the started day for a user on a given date
func (s *DayStore) GetStarted(userID core.UserID, date string) (*core.Day, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, user_id, date, status, start_time, end_time, notes, created_at, updated_at
		FROM days WHERE user_id = ? AND date = ? AND status = ?
	`, userID, date, core.DayStarted)
	return scanDay(row)
}

// Complete marks a day completed with an end time and summary notes.
// The status guard means a second completion attempt matches no row,
// so ending a day twice fails with core.ErrDayNotFound.
func (s *DayStore) Complete(id core.DayID, userID core.UserID, endTime time.Time, notes string) (*core.Day, error) {
	res, err := s.db.conn.Exec(`
		UPDATE days SET status = ?, end_time = ?, notes = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND status != ?
	`, core.DayCompleted, endTime, notes, time.Now().UTC(), id, userID, core.DayCompleted)
	if err != nil {
		return nil, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, core.ErrDayNotFound
	}

	return s.GetByID(id, userID)
}

// Recent returns the most recent days for a user, newest first
func (s *DayStore) Recent(userID core.UserID, limit int) ([]*core.Day, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, user_id, date, status, start_time, end_time, notes, created_at, updated_at
		FROM days
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []*core.Day
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDay(row rowScanner) (*core.Day, error) {
	day := &core.Day{}
	var endTime sql.NullTime
	var notes sql.NullString

	err := row.Scan(
		&day.ID, &day.UserID, &day.Date, &day.Status, &day.StartTime,
		&endTime, &notes, &day.CreatedAt, &day.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, core.ErrDayNotFound
	}
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		day.EndTime = &endTime.Time
	}
	day.Notes = notes.String

	return day, nil
}
