// Package storage provides persistence for DevDay.
package storage

import (
	"database/sql"
	"time"

	"github.com/devday/devday/internal/core"
)

// PlanStore handles AI plan and plan item persistence
type PlanStore struct {
	db *DB
}

// NewPlanStore creates a new plan store
func NewPlanStore(db *DB) *PlanStore {
	return &PlanStore{db: db}
}

// CreatePlan creates a new AI plan bound to a day
func (s *PlanStore) CreatePlan(plan *core.AIPlan) error {
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	_, err := s.db.conn.Exec(`
		INSERT INTO ai_plans (id, day_id, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, plan.ID, plan.DayID, plan.UserID, plan.CreatedAt, plan.UpdatedAt)
	return err
}

// GetByDay returns the most recent plan for a day. The open-day
// invariant should make duplicates impossible; taking the newest is a
// defensive tie-break.
func (s *PlanStore) GetByDay(dayID core.DayID) (*core.AIPlan, error) {
	plan := &core.AIPlan{}
	err := s.db.conn.QueryRow(`
		SELECT id, day_id, user_id, created_at, updated_at
		FROM ai_plans
		WHERE day_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`, dayID).Scan(&plan.ID, &plan.DayID, &plan.UserID, &plan.CreatedAt, &plan.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, core.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// CreateItems bulk-inserts plan items in a single transaction
func (s *PlanStore) CreateItems(items []*core.PlanItem) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now().UTC()
	return s.db.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO plan_items (id, plan_id, title, description, priority, start_time, end_time, status, related_goal_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, item := range items {
			item.CreatedAt = now
			item.UpdatedAt = now
			_, err := stmt.Exec(
				item.ID, item.PlanID, item.Title, item.Description, item.Priority,
				item.StartTime, item.EndTime, item.Status, item.RelatedGoalID,
				item.CreatedAt, item.UpdatedAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// GetItems returns a plan's items ordered by start time for display
func (s *PlanStore) GetItems(planID core.PlanID) ([]*core.PlanItem, error) {
	rows, err := s.db.conn.Query(`
		SELECT id, plan_id, title, description, priority, start_time, end_time, status, related_goal_id, created_at, updated_at
		FROM plan_items
		WHERE plan_id = ?
		ORDER BY start_time ASC
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*core.PlanItem
	for rows.Next() {
		item := &core.PlanItem{}
		var description sql.NullString
		var relatedGoalID sql.NullString

		err := rows.Scan(
			&item.ID, &item.PlanID, &item.Title, &description, &item.Priority,
			&item.StartTime, &item.EndTime, &item.Status, &relatedGoalID,
			&item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		item.Description = description.String
		if relatedGoalID.Valid {
			gid := core.GoalID(relatedGoalID.String)
			item.RelatedGoalID = &gid
		}

		items = append(items, item)
	}
	return items, rows.Err()
}
