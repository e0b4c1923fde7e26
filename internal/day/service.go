// Package day implements the day lifecycle: starting a session,
// logging work against it and closing it out.
package day

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devday/devday/internal/core"
	"github.com/devday/devday/internal/planner"
	"github.com/devday/devday/internal/storage"
)

// PlanGenerator is the slice of the planner the service needs.
type PlanGenerator interface {
	Generate(ctx context.Context, goals []string) ([]planner.GeneratedItem, error)
}

// Broadcaster publishes lifecycle events to connected clients.
// Implementations must not block.
type Broadcaster interface {
	Publish(event string, data interface{})
}

// Service orchestrates the day lifecycle over the stores. Handlers are
// stateless; every request goes through here and straight to storage.
type Service struct {
	days       *storage.DayStore
	goals      *storage.GoalStore
	plans      *storage.PlanStore
	activities *storage.ActivityStore
	generator  PlanGenerator
	events     Broadcaster
	log        zerolog.Logger
}

// Config for the day service
type Config struct {
	Days       *storage.DayStore
	Goals      *storage.GoalStore
	Plans      *storage.PlanStore
	Activities *storage.ActivityStore
	Generator  PlanGenerator // optional; without it days start with no plan
	Events     Broadcaster   // optional
	Logger     zerolog.Logger
}

// NewService creates a day service
func NewService(cfg Config) *Service {
	return &Service{
		days:       cfg.Days,
		goals:      cfg.Goals,
		plans:      cfg.Plans,
		activities: cfg.Activities,
		generator:  cfg.Generator,
		events:     cfg.Events,
		log:        cfg.Logger.With().Str("component", "day").Logger(),
	}
}

// GoalFailure records one goal that could not be persisted during a
// batch create.
type GoalFailure struct {
	Input  string `json:"input"`
	Reason string `json:"reason"`
}

// GoalBatchResult is the explicit outcome of best-effort goal
// creation: callers see exactly which inputs failed instead of
// inferring it from counts.
type GoalBatchResult struct {
	Created []*core.Goal  `json:"created"`
	Failed  []GoalFailure `json:"failed,omitempty"`
}

// StartResult is the outcome of StartDay.
type StartResult struct {
	Day   *core.Day
	Goals GoalBatchResult
}

// StartDay opens a new day session for today and persists the stated
// goals. Effects run in order: day, goals, plan. Goal creation is
// best-effort per item. The AI plan is an enhancement: any failure
// there is logged and swallowed, and the day still starts.
//
// A second start on the same date fails with core.ErrDayAlreadyStarted;
// the days table's partial unique index backs the check, so two
// concurrent starts cannot both create an open day.
func (s *Service) StartDay(ctx context.Context, userID core.UserID, goalDescriptions []string) (*StartResult, error) {
	if len(goalDescriptions) == 0 {
		return nil, fmt.Errorf("%w: goals", core.ErrMissingRequired)
	}

	today := core.Today()
	day := &core.Day{
		ID:        core.DayID(uuid.NewString()),
		UserID:    userID,
		Date:      today,
		Status:    core.DayStarted,
		StartTime: time.Now().UTC(),
	}
	if err := s.days.Create(day); err != nil {
		return nil, err
	}

	result := &StartResult{Day: day}
	result.Goals = s.createGoals(userID, today, goalDescriptions)

	s.generatePlan(ctx, day, goalDescriptions)

	s.publish("day.started", day)
	s.log.Info().
		Str("user_id", string(userID)).
		Str("day_id", string(day.ID)).
		Int("goals", len(result.Goals.Created)).
		Int("failed_goals", len(result.Goals.Failed)).
		Msg("day started")

	return result, nil
}

// createGoals persists one daily goal per description. Failures are
// collected, not fatal.
func (s *Service) createGoals(userID core.UserID, date string, descriptions []string) GoalBatchResult {
	var result GoalBatchResult
	for _, description := range descriptions {
		goal := &core.Goal{
			ID:          core.GoalID(uuid.NewString()),
			UserID:      userID,
			Description: description,
			Kind:        core.GoalDaily,
			Status:      core.GoalActive,
			StartDate:   date,
		}
		if err := s.goals.Create(goal); err != nil {
			s.log.Error().Err(err).Str("description", description).Msg("failed to create goal")
			result.Failed = append(result.Failed, GoalFailure{Input: description, Reason: err.Error()})
			continue
		}
		result.Created = append(result.Created, goal)
	}
	return result
}

// generatePlan creates the AI plan row and fills it with generated
// items. The plan row is created first so a generation failure still
// leaves an (empty) plan attached to the day.
func (s *Service) generatePlan(ctx context.Context, day *core.Day, goals []string) {
	plan := &core.AIPlan{
		ID:     core.PlanID(uuid.NewString()),
		DayID:  day.ID,
		UserID: day.UserID,
	}
	if err := s.plans.CreatePlan(plan); err != nil {
		s.log.Error().Err(err).Str("day_id", string(day.ID)).Msg("failed to create AI plan")
		return
	}

	if s.generator == nil {
		return
	}

	items, err := s.generator.Generate(ctx, goals)
	if err != nil {
		s.log.Error().Err(err).Str("day_id", string(day.ID)).Msg("plan generation failed")
		return
	}
	if len(items) == 0 {
		return
	}

	if err := s.plans.CreateItems(planner.Records(plan.ID, items)); err != nil {
		s.log.Error().Err(err).Str("plan_id", string(plan.ID)).Msg("failed to insert plan items")
	}
}

// Status reports whether the user has a started day today.
func (s *Service) Status(ctx context.Context, userID core.UserID) (bool, core.DayID, error) {
	day, err := s.days.GetStarted(userID, core.Today())
	if err == core.ErrDayNotFound {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return true, day.ID, nil
}

// SummaryNote renders the end-of-day summary embedded in Day.Notes.
// Counts come from the client; they are not recomputed here.
func SummaryNote(completed, total int) string {
	note := fmt.Sprintf("Completed %d out of %d goals", completed, total)
	if completed == total {
		note += " - All goals completed successfully!"
	}
	return note
}

// EndDay closes a day session. Ownership is re-verified before the
// mutation even though the store already scopes by owner. Ending an
// already-completed day fails with core.ErrDayNotFound.
func (s *Service) EndDay(ctx context.Context, userID core.UserID, dayID core.DayID, completedGoals, totalGoals int) (*core.Day, error) {
	if _, err := s.days.GetByID(dayID, userID); err != nil {
		return nil, err
	}

	day, err := s.days.Complete(dayID, userID, time.Now().UTC(), SummaryNote(completedGoals, totalGoals))
	if err != nil {
		return nil, err
	}

	s.publish("day.completed", day)
	s.log.Info().
		Str("user_id", string(userID)).
		Str("day_id", string(dayID)).
		Int("completed", completedGoals).
		Int("total", totalGoals).
		Msg("day ended")

	return day, nil
}

// PlanDetail is a plan with its items, ordered by start time.
type PlanDetail struct {
	ID    core.PlanID      `json:"id"`
	Items []*core.PlanItem `json:"planItems"`
}

// Detail is the full view of one day.
type Detail struct {
	Day        *core.Day        `json:"day"`
	Goals      []*core.Goal     `json:"goals"`
	Plan       *PlanDetail      `json:"aiPlan,omitempty"`
	Activities []*core.Activity `json:"activities"`
}

// Detail assembles the full view of a day: the day row, its daily
// goals, the AI plan with items, and all logged activities. Any
// sub-fetch error aborts the whole call; there are no partial
// responses.
func (s *Service) Detail(ctx context.Context, userID core.UserID, dayID core.DayID) (*Detail, error) {
	dayRow, err := s.days.GetByID(dayID, userID)
	if err != nil {
		return nil, err
	}

	goals, err := s.goals.GetDailyByDate(userID, dayRow.Date)
	if err != nil {
		return nil, fmt.Errorf("fetch goals: %w", err)
	}

	detail := &Detail{
		Day:        dayRow,
		Goals:      goals,
		Activities: []*core.Activity{},
	}

	plan, err := s.plans.GetByDay(dayRow.ID)
	switch {
	case err == core.ErrPlanNotFound:
		// No plan is a valid state; generation may have failed
	case err != nil:
		return nil, fmt.Errorf("fetch plan: %w", err)
	default:
		items, err := s.plans.GetItems(plan.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch plan items: %w", err)
		}
		if items == nil {
			items = []*core.PlanItem{}
		}
		detail.Plan = &PlanDetail{ID: plan.ID, Items: items}
	}

	activities, err := s.activities.GetByDay(dayRow.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	if activities != nil {
		detail.Activities = activities
	}
	if detail.Goals == nil {
		detail.Goals = []*core.Goal{}
	}

	return detail, nil
}

// AddActivity logs one unit of work against a day. Activities are
// always recorded as completed in the current flow.
func (s *Service) AddActivity(ctx context.Context, userID core.UserID, dayID core.DayID, activityType core.ActivityType, description string) (*core.Activity, error) {
	if description == "" {
		return nil, fmt.Errorf("%w: description", core.ErrMissingRequired)
	}
	if !core.ValidActivityType(activityType) {
		return nil, fmt.Errorf("%w: activity type %q", core.ErrInvalidInput, activityType)
	}

	if _, err := s.days.GetByID(dayID, userID); err != nil {
		return nil, err
	}

	activity := &core.Activity{
		ID:          core.ActivityID(uuid.NewString()),
		DayID:       dayID,
		UserID:      userID,
		Type:        activityType,
		Description: description,
		Status:      core.ActivityCompleted,
	}
	if err := s.activities.Create(activity); err != nil {
		return nil, err
	}

	s.publish("activity.logged", activity)

	return activity, nil
}

// UpdateGoalStatus transitions one of the user's goals. The store scopes
// the update by owner, so a foreign goal id reads as not found.
func (s *Service) UpdateGoalStatus(ctx context.Context, userID core.UserID, goalID core.GoalID, status core.GoalStatus) (*core.Goal, error) {
	switch status {
	case core.GoalActive, core.GoalCompleted, core.GoalAbandoned:
	default:
		return nil, fmt.Errorf("%w: goal status %q", core.ErrInvalidInput, status)
	}

	if err := s.goals.UpdateStatus(goalID, userID, status); err != nil {
		return nil, err
	}

	goal, err := s.goals.GetByID(goalID, userID)
	if err != nil {
		return nil, err
	}

	s.publish("goal.updated", goal)

	return goal, nil
}

// RecentDays returns the user's most recent day sessions.
func (s *Service) RecentDays(ctx context.Context, userID core.UserID, limit int) ([]*core.Day, error) {
	if limit <= 0 {
		limit = 7
	}
	days, err := s.days.Recent(userID, limit)
	if err != nil {
		return nil, err
	}
	if days == nil {
		days = []*core.Day{}
	}
	return days, nil
}

func (s *Service) publish(event string, data interface{}) {
	if s.events != nil {
		s.events.Publish(event, data)
	}
}
