// Package storage provides persistence for DevDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/devday/devday/internal/core"
)

// GoalStore handles goal persistence
type GoalStore struct {
	db *DB
}

// NewGoalStore creates a new goal store
func NewGoalStore(db *DB) *GoalStore {
	return &GoalStore{db: db}
}

// Create creates a new goal
func (s *GoalStore) Create(goal *core.Goal) error {
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	_, err := s.db.conn.Exec(`
		INSERT INTO goals (id, user_id, description, kind, status, start_date, end_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		goal.ID, goal.UserID, goal.Description, goal.Kind, goal.Status,
		goal.StartDate, goal.EndDate, goal.CreatedAt, goal.UpdatedAt,
	)
	return err
}

// GetByID returns a goal by id, scoped to its owner
func (s *GoalStore) GetByID(id core.GoalID, userID core.UserID) (*core.Goal, error) {
	row := s.db.conn.QueryRow(`
		SELECT id, user_id, description, kind, status, start_date, end_date, created_at, updated_at
		FROM goals WHERE id = ? AND user_id = ?
	`, id, userID)
	return scanGoal(row)
}

// GetDailyByDate returns a user's daily goals for a date, oldest first
// so they come back in the order they were stated.
func (s *GoalStore) GetDailyByDate(userID core.UserID, date string) ([]*core.Goal, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, user_id, description, kind, status, start_date, end_date, created_at, updated_at
		FROM goals
		WHERE user_id = ? AND start_date = ? AND kind = ?
		ORDER BY created_at ASC, id ASC
	`, userID, date, core.GoalDaily)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*core.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// UpdateStatus transitions a goal's status
func (s *GoalStore) UpdateStatus(id core.GoalID, userID core.UserID, status core.GoalStatus) error {
	res, err := s.db.conn.Exec(`
		UPDATE goals SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?
	`, status, time.Now().UTC(), id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrGoalNotFound
	}
	return nil
}

func scanGoal(row rowScanner) (*core.Goal, error) {
	goal := &core.Goal{}
	var endDate sql.NullString

	err := row.Scan(
		&goal.ID, &goal.UserID, &goal.Description, &goal.Kind, &goal.Status,
		&goal.StartDate, &endDate, &goal.CreatedAt, &goal.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, core.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	if endDate.Valid {
		goal.EndDate = &endDate.String
	}

	return goal, nil
}
