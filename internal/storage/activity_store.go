// Package storage provides persistence for DevDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/devday/devday/internal/core"
)

// ActivityStore handles activity persistence
type ActivityStore struct {
	db *DB
}

// NewActivityStore creates a new activity store
func NewActivityStore(db *DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Create creates a new activity
func (s *ActivityStore) Create(activity *core.Activity) error {
	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	_, err := s.db.conn.Exec(`
		INSERT INTO activities (id, day_id, user_id, type, description, related_goal_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		activity.ID, activity.DayID, activity.UserID, activity.Type, activity.Description,
		activity.RelatedGoalID, activity.Status, activity.CreatedAt, activity.UpdatedAt,
	)
	return err
}

// GetByDay returns a day's activities, newest first
func (s *ActivityStore) GetByDay(dayID core.DayID) ([]*core.Activity, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, day_id, user_id, type, description, related_goal_id, status, created_at, updated_at
		FROM activities
		WHERE day_id = ?
		ORDER BY created_at DESC, id DESC
	`, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []*core.Activity
	for rows.Next() {
		activity := &core.Activity{}
		var description sql.NullString
		var relatedGoalID sql.NullString

		err := rows.Scan(
			&activity.ID, &activity.DayID, &activity.UserID, &activity.Type, &description,
			&relatedGoalID, &activity.Status, &activity.CreatedAt, &activity.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		activity.Description = description.String
		if relatedGoalID.Valid {
			gid := core.GoalID(relatedGoalID.String)
			activity.RelatedGoalID = &gid
		}

		activities = append(activities, activity)
	}
	return activities, rows.Err()
}

// Count returns the number of activities logged for a day
func (s *ActivityStore) Count(dayID core.DayID) (int, error) {
	var count int
	err := s.db.conn.QueryRow("SELECT COUNT(*) FROM activities WHERE day_id = ?", dayID).Scan(&count)
	return count, err
}
