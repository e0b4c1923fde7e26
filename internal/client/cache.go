package client

import (
	"context"
	"sync"

	"github.com/devday/devday/internal/core"
	"github.com/devday/devday/internal/day"
)

// Cache holds one session's view of the current day. It is created per
// logged-in session, never shared across users, and refreshed from the
// server rather than trusted as authoritative.
type Cache struct {
	mu  sync.Mutex
	api *Client

	hasStartedDay bool
	dayEntryID    core.DayID
	detail        *day.Detail
	loading       bool
	lastErr       error
}

// Snapshot is a point-in-time copy of the cache state.
type Snapshot struct {
	HasStartedDay  bool
	DayEntryID     core.DayID
	Detail         *day.Detail
	CompletedGoals int
	TotalGoals     int
	Loading        bool
	Err            error
}

// NewCache creates a cache bound to one API client session.
func NewCache(api *Client) *Cache {
	return &Cache{api: api}
}

// Snapshot returns a copy of the current state. The goal counters are
// derived from the cached goals on every call, never stored.
func (c *Cache) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		HasStartedDay: c.hasStartedDay,
		DayEntryID:    c.dayEntryID,
		Detail:        copyDetail(c.detail),
		Loading:       c.loading,
		Err:           c.lastErr,
	}
	if c.detail != nil {
		snap.TotalGoals = len(c.detail.Goals)
		for _, g := range c.detail.Goals {
			if g.Status == core.GoalCompleted {
				snap.CompletedGoals++
			}
		}
	}
	return snap
}

// copyDetail clones the detail struct and its slices so a snapshot
// holder is not affected by later cache mutations.
func copyDetail(d *day.Detail) *day.Detail {
	if d == nil {
		return nil
	}
	out := *d
	out.Goals = append([]*core.Goal(nil), d.Goals...)
	out.Activities = append([]*core.Activity(nil), d.Activities...)
	if d.Plan != nil {
		plan := *d.Plan
		plan.Items = append([]*core.PlanItem(nil), d.Plan.Items...)
		out.Plan = &plan
	}
	return &out
}

// ClearError drops the last recorded error.
func (c *Cache) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = nil
}

func (c *Cache) begin() {
	c.mu.Lock()
	c.loading = true
	c.lastErr = nil
	c.mu.Unlock()
}

func (c *Cache) finish(err error) {
	c.mu.Lock()
	c.loading = false
	c.lastErr = err
	c.mu.Unlock()
}

// CheckDayStatus refreshes whether today's day is started.
func (c *Cache) CheckDayStatus(ctx context.Context) error {
	c.begin()
	started, dayID, err := c.api.DayStatus(ctx)
	if err != nil {
		c.finish(err)
		return err
	}

	c.mu.Lock()
	c.hasStartedDay = started
	c.dayEntryID = dayID
	if !started {
		c.detail = nil
	}
	c.loading = false
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

// StartDay starts today's session and loads the resulting day state.
func (c *Cache) StartDay(ctx context.Context, goals []string) (*StartDayResult, error) {
	c.begin()
	result, err := c.api.StartDay(ctx, goals)
	if err != nil {
		c.finish(err)
		return nil, err
	}

	c.mu.Lock()
	c.hasStartedDay = true
	c.dayEntryID = result.Day.ID
	c.loading = false
	c.lastErr = nil
	c.mu.Unlock()

	// Fetch the detail so the plan and goals are in the cache; the
	// start response alone has no plan items.
	if err := c.FetchDayData(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// FetchDayData loads the full view of the current day into the cache.
func (c *Cache) FetchDayData(ctx context.Context) error {
	c.mu.Lock()
	dayID := c.dayEntryID
	c.mu.Unlock()
	if dayID == "" {
		return core.ErrDayNotFound
	}

	c.begin()
	detail, err := c.api.Day(ctx, dayID)
	if err != nil {
		c.finish(err)
		return err
	}

	c.mu.Lock()
	c.detail = detail
	c.loading = false
	c.lastErr = nil
	c.mu.Unlock()
	return nil
}

// CloseDay ends the current day, sending the derived goal counters.
func (c *Cache) CloseDay(ctx context.Context) (*core.Day, error) {
	snap := c.Snapshot()
	if snap.DayEntryID == "" {
		return nil, core.ErrDayNotFound
	}

	c.begin()
	ended, err := c.api.EndDay(ctx, snap.DayEntryID, snap.CompletedGoals, snap.TotalGoals)
	if err != nil {
		c.finish(err)
		return nil, err
	}

	c.mu.Lock()
	c.hasStartedDay = false
	c.dayEntryID = ""
	c.detail = nil
	c.loading = false
	c.lastErr = nil
	c.mu.Unlock()
	return ended, nil
}

// AddActivity logs an activity and prepends it to the cached list.
func (c *Cache) AddActivity(ctx context.Context, activityType core.ActivityType, description string) (*core.Activity, error) {
	c.mu.Lock()
	dayID := c.dayEntryID
	c.mu.Unlock()
	if dayID == "" {
		return nil, core.ErrDayNotFound
	}

	c.begin()
	activity, err := c.api.AddActivity(ctx, dayID, activityType, description)
	if err != nil {
		c.finish(err)
		return nil, err
	}

	c.mu.Lock()
	if c.detail != nil {
		c.detail.Activities = append([]*core.Activity{activity}, c.detail.Activities...)
	}
	c.loading = false
	c.lastErr = nil
	c.mu.Unlock()
	return activity, nil
}

// UpdateGoalStatus transitions a goal on the server and patches the
// cached copy in place.
func (c *Cache) UpdateGoalStatus(ctx context.Context, goalID core.GoalID, status core.GoalStatus) (*core.Goal, error) {
	c.begin()
	goal, err := c.api.UpdateGoalStatus(ctx, goalID, status)
	if err != nil {
		c.finish(err)
		return nil, err
	}

	c.mu.Lock()
	if c.detail != nil {
		for i, g := range c.detail.Goals {
			if g.ID == goal.ID {
				c.detail.Goals[i] = goal
			}
		}
	}
	c.loading = false
	c.lastErr = nil
	c.mu.Unlock()
	return goal, nil
}
