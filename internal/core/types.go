// Package core defines the fundamental types for DevDay.
// Every other package speaks in these types.
package core

import (
	"time"
)

// DateLayout is the canonical calendar-date format used across the
// system. Days, goals and queries all key on it.
const DateLayout = "2006-01-02"

// Today returns the current calendar date in DateLayout.
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}

// -----------------------------------------------------------------------------
// USER - The authenticated owner every record is scoped to
// -----------------------------------------------------------------------------

// UserID is a type-safe identifier for users
type UserID string

// User represents an account. Every Goal, Day, AIPlan and Activity
// belongs to exactly one User, and the stores enforce that scoping on
// every read and write.
type User struct {
	ID          UserID    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Session is a server-side login session. Tokens are stored hashed;
// the plaintext token only ever exists in the client's hands.
type Session struct {
	ID        string    `json:"id"`
	UserID    UserID    `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// -----------------------------------------------------------------------------
// GOAL - A stated intention, scoped to a time horizon
// -----------------------------------------------------------------------------

// GoalID is a type-safe identifier for goals
type GoalID string

// GoalKind is the time horizon of a goal
type GoalKind string

const (
	GoalYearly    GoalKind = "yearly"
	GoalQuarterly GoalKind = "quarterly"
	GoalMonthly   GoalKind = "monthly"
	GoalWeekly    GoalKind = "weekly"
	GoalDaily     GoalKind = "daily"
)

// GoalStatus is the lifecycle state of a goal
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalAbandoned GoalStatus = "abandoned"
)

// Goal represents a stated intention. Daily goals are created when a
// day starts and are looked up by (user, start_date, kind=daily).
type Goal struct {
	ID          GoalID     `json:"id"`
	UserID      UserID     `json:"user_id"`
	Description string     `json:"description"`
	Kind        GoalKind   `json:"kind"`
	Status      GoalStatus `json:"status"`
	StartDate   string     `json:"start_date"`
	EndDate     *string    `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// DAY - One calendar-day work session
// -----------------------------------------------------------------------------

// DayID is a type-safe identifier for days
type DayID string

// DayStatus is the lifecycle state of a day session
type DayStatus string

const (
	DayStarted    DayStatus = "started"
	DayInProgress DayStatus = "in_progress"
	DayCompleted  DayStatus = "completed"
)

// Day is one work session. Invariant: at most one non-completed Day
// per (user, date), enforced by a partial unique index in storage.
type Day struct {
	ID        DayID      `json:"id"`
	UserID    UserID     `json:"user_id"`
	Date      string     `json:"date"`
	Status    DayStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// AI PLAN - A generated schedule for one Day
// -----------------------------------------------------------------------------

// PlanID is a type-safe identifier for AI plans
type PlanID string

// PlanItemID is a type-safe identifier for plan items
type PlanItemID string

// Priority of a plan item
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PlanItemStatus is the lifecycle state of a plan item
type PlanItemStatus string

const (
	PlanItemScheduled  PlanItemStatus = "scheduled"
	PlanItemInProgress PlanItemStatus = "in_progress"
	PlanItemCompleted  PlanItemStatus = "completed"
	PlanItemSkipped    PlanItemStatus = "skipped"
)

// AIPlan binds a generated schedule to a Day. It exists even when
// generation produced no items.
type AIPlan struct {
	ID        PlanID    `json:"id"`
	DayID     DayID     `json:"day_id"`
	UserID    UserID    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlanItem is one scheduled task in an AIPlan. Start and end times are
// clock times in "HH:MM". RelatedGoalID is reserved; nothing populates
// it from generated output.
type PlanItem struct {
	ID            PlanItemID     `json:"id"`
	PlanID        PlanID         `json:"plan_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Priority      Priority       `json:"priority"`
	StartTime     string         `json:"start_time"`
	EndTime       string         `json:"end_time"`
	Status        PlanItemStatus `json:"status"`
	RelatedGoalID *GoalID        `json:"related_goal_id,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// ACTIVITY - An ad hoc logged unit of work during a Day
// -----------------------------------------------------------------------------

// ActivityID is a type-safe identifier for activities
type ActivityID string

// ActivityType is the kind of logged work
type ActivityType string

const (
	ActivityTask       ActivityType = "task"
	ActivityMeeting    ActivityType = "meeting"
	ActivityLearning   ActivityType = "learning"
	ActivityFeedback   ActivityType = "feedback"
	ActivityReflection ActivityType = "reflection"
)

// ActivityStatus is the lifecycle state of an activity
type ActivityStatus string

const (
	ActivityPlanned    ActivityStatus = "planned"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityCompleted  ActivityStatus = "completed"
	ActivityBlocked    ActivityStatus = "blocked"
)

// Activity is one logged unit of work. The current flow always logs
// activities as completed. RelatedGoalID is reserved for future
// goal linkage.
type Activity struct {
	ID            ActivityID     `json:"id"`
	DayID         DayID          `json:"day_id"`
	UserID        UserID         `json:"user_id"`
	Type          ActivityType   `json:"type"`
	Description   string         `json:"description,omitempty"`
	RelatedGoalID *GoalID        `json:"related_goal_id,omitempty"`
	Status        ActivityStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// -----------------------------------------------------------------------------
// WAITLIST
// -----------------------------------------------------------------------------

// WaitlistEntry is a signup on the public waitlist. Not user-scoped.
type WaitlistEntry struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidActivityType reports whether t is one of the known activity types.
func ValidActivityType(t ActivityType) bool {
	switch t {
	case ActivityTask, ActivityMeeting, ActivityLearning, ActivityFeedback, ActivityReflection:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
