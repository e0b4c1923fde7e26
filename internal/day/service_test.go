package day_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devday/devday/internal/core"
	"github.com/devday/devday/internal/day"
	"github.com/devday/devday/internal/planner"
	"github.com/devday/devday/internal/storage"
	"github.com/devday/devday/internal/testutil"
)

type fakeGenerator struct {
	mu    sync.Mutex
	items []planner.GeneratedItem
	err   error
	goals []string
}

func (f *fakeGenerator) Generate(ctx context.Context, goals []string) ([]planner.GeneratedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goals = goals
	return f.items, f.err
}

func (f *fakeGenerator) lastGoals() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.goals
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingBroadcaster) Publish(event string, data interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingBroadcaster) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

type fixture struct {
	svc       *day.Service
	db        *storage.DB
	user      *core.User
	generator *fakeGenerator
	events    *recordingBroadcaster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.TestDB(t)

	user := &core.User{ID: "user-1", Email: "dev@example.com"}
	if err := storage.NewUserStore(db).Create(user, "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	generator := &fakeGenerator{
		items: []planner.GeneratedItem{
			{Title: "Deep work", Priority: "high", StartTime: "09:00", EndTime: "11:00"},
			{Title: "Email", Priority: "low", StartTime: "11:00", EndTime: "11:30"},
		},
	}
	events := &recordingBroadcaster{}

	svc := day.NewService(day.Config{
		Days:       storage.NewDayStore(db),
		Goals:      storage.NewGoalStore(db),
		Plans:      storage.NewPlanStore(db),
		Activities: storage.NewActivityStore(db),
		Generator:  generator,
		Events:     events,
		Logger:     zerolog.Nop(),
	})

	return &fixture{svc: svc, db: db, user: user, generator: generator, events: events}
}

func TestStartDay(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	result, err := f.svc.StartDay(ctx, f.user.ID, []string{"ship feature", "write tests"})
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, result.Day.Status, core.DayStarted)
	testutil.AssertEqual(t, result.Day.Date, core.Today())
	testutil.AssertEqual(t, len(result.Goals.Created), 2)
	testutil.AssertEqual(t, len(result.Goals.Failed), 0)
	testutil.AssertEqual(t, len(f.generator.lastGoals()), 2)

	if !f.events.has("day.started") {
		t.Error("day.started event not published")
	}

	detail, err := f.svc.Detail(ctx, f.user.ID, result.Day.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(detail.Goals), 2)
	testutil.AssertEqual(t, detail.Goals[0].Description, "ship feature")
	if detail.Plan == nil {
		t.Fatal("no plan attached to day")
	}
	testutil.AssertEqual(t, len(detail.Plan.Items), 2)
	// Items come back ordered by start time
	testutil.AssertEqual(t, detail.Plan.Items[0].Title, "Deep work")
}

func TestStartDayRequiresGoals(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	if _, err := f.svc.StartDay(ctx, f.user.ID, nil); !errors.Is(err, core.ErrMissingRequired) {
		t.Errorf("got %v, want ErrMissingRequired", err)
	}
}

func TestStartDayTwice(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	_, err := f.svc.StartDay(ctx, f.user.ID, []string{"goal"})
	testutil.AssertNoError(t, err)

	if _, err := f.svc.StartDay(ctx, f.user.ID, []string{"goal"}); !errors.Is(err, core.ErrDayAlreadyStarted) {
		t.Errorf("got %v, want ErrDayAlreadyStarted", err)
	}
}

func TestStartDayConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.StartDay(ctx, f.user.ID, []string{"goal"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, core.ErrDayAlreadyStarted) {
			t.Errorf("unexpected error: %v", err)
		}
	}
	testutil.AssertEqual(t, succeeded, 1)
}

func TestStartDaySurvivesGenerationFailure(t *testing.T) {
	f := newFixture(t)
	f.generator.err = errors.New("model unavailable")
	ctx := testutil.TestContext(t)

	result, err := f.svc.StartDay(ctx, f.user.ID, []string{"goal"})
	testutil.AssertNoError(t, err)

	// The day started and an empty plan is attached
	detail, err := f.svc.Detail(ctx, f.user.ID, result.Day.ID)
	testutil.AssertNoError(t, err)
	if detail.Plan == nil {
		t.Fatal("no plan attached to day")
	}
	testutil.AssertEqual(t, len(detail.Plan.Items), 0)
}

func TestStartDayWithoutGenerator(t *testing.T) {
	f := newFixture(t)
	svc := day.NewService(day.Config{
		Days:       storage.NewDayStore(f.db),
		Goals:      storage.NewGoalStore(f.db),
		Plans:      storage.NewPlanStore(f.db),
		Activities: storage.NewActivityStore(f.db),
		Logger:     zerolog.Nop(),
	})
	ctx := testutil.TestContext(t)

	result, err := svc.StartDay(ctx, f.user.ID, []string{"goal"})
	testutil.AssertNoError(t, err)

	detail, err := svc.Detail(ctx, f.user.ID, result.Day.ID)
	testutil.AssertNoError(t, err)
	if detail.Plan == nil {
		t.Fatal("no plan attached to day")
	}
	testutil.AssertEqual(t, len(detail.Plan.Items), 0)
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	started, _, err := f.svc.Status(ctx, f.user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, started, false)

	result, err := f.svc.StartDay(ctx, f.user.ID, []string{"goal"})
	testutil.AssertNoError(t, err)

	started, dayID, err := f.svc.Status(ctx, f.user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, started, true)
	testutil.AssertEqual(t, dayID, result.Day.ID)
}

func TestSummaryNote(t *testing.T) {
	got := day.SummaryNote(2, 3)
	testutil.AssertEqual(t, got, "Completed 2 out of 3 goals")

	got = day.SummaryNote(3, 3)
	testutil.AssertEqual(t, got, "Completed 3 out of 3 goals - All goals completed successfully!")

	// Zero of zero still reads as all complete
	got = day.SummaryNote(0, 0)
	testutil.AssertEqual(t, got, "Completed 0 out of 0 goals - All goals completed successfully!")
}

func TestEndDay(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	result, err := f.svc.StartDay(ctx, f.user.ID, []string{"a", "b", "c"})
	testutil.AssertNoError(t, err)

	ended, err := f.svc.EndDay(ctx, f.user.ID, result.Day.ID, 2, 3)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ended.Status, core.DayCompleted)
	testutil.AssertEqual(t, ended.Notes, "Completed 2 out of 3 goals")
	if ended.EndTime == nil {
		t.Error("ended day has no end time")
	}

	if !f.events.has("day.completed") {
		t.Error("day.completed event not published")
	}

	// Ending twice fails
	if _, err := f.svc.EndDay(ctx, f.user.ID, result.Day.ID, 2, 3); !errors.Is(err, core.ErrDayNotFound) {
		t.Errorf("got %v, want ErrDayNotFound", err)
	}

	// Status flips back to not-started
	started, _, err := f.svc.Status(ctx, f.user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, started, false)
}

func TestEndDayOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	intruder := &core.User{ID: "user-2", Email: "other@example.com"}
	if err := storage.NewUserStore(f.db).Create(intruder, "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	result, err := f.svc.StartDay(ctx, f.user.ID, []string{"goal"})
	testutil.AssertNoError(t, err)

	if _, err := f.svc.EndDay(ctx, intruder.ID, result.Day.ID, 1, 1); !errors.Is(err, core.ErrDayNotFound) {
		t.Errorf("got %v, want ErrDayNotFound", err)
	}
}

func TestAddActivity(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	result, err := f.svc.StartDay(ctx, f.user.ID, []string{"goal"})
	testutil.AssertNoError(t, err)

	activity, err := f.svc.AddActivity(ctx, f.user.ID, result.Day.ID, core.ActivityMeeting, "standup")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, activity.Status, core.ActivityCompleted)

	if !f.events.has("activity.logged") {
		t.Error("activity.logged event not published")
	}

	// Validation
	if _, err := f.svc.AddActivity(ctx, f.user.ID, result.Day.ID, core.ActivityTask, ""); !errors.Is(err, core.ErrMissingRequired) {
		t.Errorf("got %v, want ErrMissingRequired", err)
	}
	if _, err := f.svc.AddActivity(ctx, f.user.ID, result.Day.ID, "nap", "zzz"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
	if _, err := f.svc.AddActivity(ctx, f.user.ID, "no-such-day", core.ActivityTask, "x"); !errors.Is(err, core.ErrDayNotFound) {
		t.Errorf("got %v, want ErrDayNotFound", err)
	}
}

func TestUpdateGoalStatus(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	result, err := f.svc.StartDay(ctx, f.user.ID, []string{"goal"})
	testutil.AssertNoError(t, err)
	goalID := result.Goals.Created[0].ID

	goal, err := f.svc.UpdateGoalStatus(ctx, f.user.ID, goalID, core.GoalCompleted)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, goal.Status, core.GoalCompleted)

	if _, err := f.svc.UpdateGoalStatus(ctx, f.user.ID, goalID, "done-ish"); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
	if _, err := f.svc.UpdateGoalStatus(ctx, f.user.ID, "no-such-goal", core.GoalCompleted); !errors.Is(err, core.ErrGoalNotFound) {
		t.Errorf("got %v, want ErrGoalNotFound", err)
	}
}

func TestDetailUnknownDay(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	if _, err := f.svc.Detail(ctx, f.user.ID, "nope"); !errors.Is(err, core.ErrDayNotFound) {
		t.Errorf("got %v, want ErrDayNotFound", err)
	}
}

func TestRecentDays(t *testing.T) {
	f := newFixture(t)
	ctx := testutil.TestContext(t)

	days, err := f.svc.RecentDays(ctx, f.user.ID, 0)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(days), 0)

	result, err := f.svc.StartDay(ctx, f.user.ID, []string{"goal"})
	testutil.AssertNoError(t, err)
	_, err = f.svc.EndDay(ctx, f.user.ID, result.Day.ID, 1, 1)
	testutil.AssertNoError(t, err)

	days, err = f.svc.RecentDays(ctx, f.user.ID, 0)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(days), 1)
	testutil.AssertEqual(t, days[0].Status, core.DayCompleted)
}
