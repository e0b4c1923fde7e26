package storage_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/devday/devday/internal/core"
	"github.com/devday/devday/internal/storage"
	"github.com/devday/devday/internal/testutil"
)

func testUser(t *testing.T, db *storage.DB) *core.User {
	t.Helper()
	user := &core.User{
		ID:          core.UserID(uuid.NewString()),
		Email:       uuid.NewString() + "@example.com",
		DisplayName: "Test User",
	}
	if err := storage.NewUserStore(db).Create(user, "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func testDay(t *testing.T, db *storage.DB, userID core.UserID, date string) *core.Day {
	t.Helper()
	day := &core.Day{
		ID:        core.DayID(uuid.NewString()),
		UserID:    userID,
		Date:      date,
		Status:    core.DayStarted,
		StartTime: time.Now().UTC(),
	}
	if err := storage.NewDayStore(db).Create(day); err != nil {
		t.Fatalf("create day: %v", err)
	}
	return day
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	db := testutil.TestDB(t)
	users := storage.NewUserStore(db)

	user := testUser(t, db)

	dup := &core.User{
		ID:    core.UserID(uuid.NewString()),
		Email: user.Email,
	}
	if err := users.Create(dup, "hash"); err != core.ErrEmailTaken {
		t.Errorf("got %v, want ErrEmailTaken", err)
	}
}

func TestUserStoreGetByEmail(t *testing.T) {
	db := testutil.TestDB(t)
	users := storage.NewUserStore(db)

	user := testUser(t, db)

	got, hash, err := users.GetByEmail(user.Email)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.ID, user.ID)
	testutil.AssertEqual(t, hash, "hash")

	if _, _, err := users.GetByEmail("nobody@example.com"); err != core.ErrUserNotFound {
		t.Errorf("got %v, want ErrUserNotFound", err)
	}
}

func TestDayStoreOneOpenDayPerDate(t *testing.T) {
	db := testutil.TestDB(t)
	days := storage.NewDayStore(db)
	user := testUser(t, db)

	testDay(t, db, user.ID, "2026-08-31")

	second := &core.Day{
		ID:        core.DayID(uuid.NewString()),
		UserID:    user.ID,
		Date:      "2026-08-31",
		Status:    core.DayStarted,
		StartTime: time.Now().UTC(),
	}
	if err := days.Create(second); err != core.ErrDayAlreadyStarted {
		t.Fatalf("got %v, want ErrDayAlreadyStarted", err)
	}

	// A different user on the same date is fine
	other := testUser(t, db)
	testDay(t, db, other.ID, "2026-08-31")
}

func TestDayStoreCompleteThenRestart(t *testing.T) {
	db := testutil.TestDB(t)
	days := storage.NewDayStore(db)
	user := testUser(t, db)

	day := testDay(t, db, user.ID, "2026-08-31")

	completed, err := days.Complete(day.ID, user.ID, time.Now().UTC(), "Completed 2 out of 3 goals")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, completed.Status, core.DayCompleted)
	testutil.AssertEqual(t, completed.Notes, "Completed 2 out of 3 goals")
	if completed.EndTime == nil {
		t.Error("completed day has no end time")
	}

	// Completing twice matches no row
	if _, err := days.Complete(day.ID, user.ID, time.Now().UTC(), "again"); err != core.ErrDayNotFound {
		t.Errorf("got %v, want ErrDayNotFound", err)
	}

	// Once completed, the same date can be started again
	testDay(t, db, user.ID, "2026-08-31")
}

func TestDayStoreOwnerScoping(t *testing.T) {
	db := testutil.TestDB(t)
	days := storage.NewDayStore(db)
	owner := testUser(t, db)
	intruder := testUser(t, db)

	day := testDay(t, db, owner.ID, "2026-08-31")

	if _, err := days.GetByID(day.ID, intruder.ID); err != core.ErrDayNotFound {
		t.Errorf("got %v, want ErrDayNotFound", err)
	}
	if _, err := days.Complete(day.ID, intruder.ID, time.Now().UTC(), "hijack"); err != core.ErrDayNotFound {
		t.Errorf("got %v, want ErrDayNotFound", err)
	}
}

func TestDayStoreRecentOrder(t *testing.T) {
	db := testutil.TestDB(t)
	days := storage.NewDayStore(db)
	user := testUser(t, db)

	testDay(t, db, user.ID, "2026-08-29")
	testDay(t, db, user.ID, "2026-08-31")
	testDay(t, db, user.ID, "2026-08-30")

	recent, err := days.Recent(user.ID, 2)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(recent), 2)
	testutil.AssertEqual(t, recent[0].Date, "2026-08-31")
	testutil.AssertEqual(t, recent[1].Date, "2026-08-30")
}

func TestGoalStoreDailyOrder(t *testing.T) {
	db := testutil.TestDB(t)
	goals := storage.NewGoalStore(db)
	user := testUser(t, db)

	for _, desc := range []string{"first", "second", "third"} {
		goal := &core.Goal{
			ID:          core.GoalID(uuid.NewString()),
			UserID:      user.ID,
			Description: desc,
			Kind:        core.GoalDaily,
			Status:      core.GoalActive,
			StartDate:   "2026-08-31",
		}
		testutil.AssertNoError(t, goals.Create(goal))
	}

	got, err := goals.GetDailyByDate(user.ID, "2026-08-31")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(got), 3)
	testutil.AssertEqual(t, got[0].Description, "first")
	testutil.AssertEqual(t, got[2].Description, "third")
}

func TestGoalStoreUpdateStatus(t *testing.T) {
	db := testutil.TestDB(t)
	goals := storage.NewGoalStore(db)
	user := testUser(t, db)

	goal := &core.Goal{
		ID:          core.GoalID(uuid.NewString()),
		UserID:      user.ID,
		Description: "ship it",
		Kind:        core.GoalDaily,
		Status:      core.GoalActive,
		StartDate:   "2026-08-31",
	}
	testutil.AssertNoError(t, goals.Create(goal))

	testutil.AssertNoError(t, goals.UpdateStatus(goal.ID, user.ID, core.GoalCompleted))

	got, err := goals.GetByID(goal.ID, user.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.Status, core.GoalCompleted)

	intruder := testUser(t, db)
	if err := goals.UpdateStatus(goal.ID, intruder.ID, core.GoalAbandoned); err != core.ErrGoalNotFound {
		t.Errorf("got %v, want ErrGoalNotFound", err)
	}
}

func TestPlanStoreItemsOrderedByStartTime(t *testing.T) {
	db := testutil.TestDB(t)
	plans := storage.NewPlanStore(db)
	user := testUser(t, db)
	day := testDay(t, db, user.ID, "2026-08-31")

	plan := &core.AIPlan{
		ID:     core.PlanID(uuid.NewString()),
		DayID:  day.ID,
		UserID: user.ID,
	}
	testutil.AssertNoError(t, plans.CreatePlan(plan))

	items := []*core.PlanItem{
		{ID: core.PlanItemID(uuid.NewString()), PlanID: plan.ID, Title: "afternoon", Priority: core.PriorityLow, StartTime: "14:00", EndTime: "15:00", Status: core.PlanItemScheduled},
		{ID: core.PlanItemID(uuid.NewString()), PlanID: plan.ID, Title: "morning", Priority: core.PriorityHigh, StartTime: "09:00", EndTime: "10:00", Status: core.PlanItemScheduled},
	}
	testutil.AssertNoError(t, plans.CreateItems(items))

	got, err := plans.GetItems(plan.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(got), 2)
	testutil.AssertEqual(t, got[0].Title, "morning")
	testutil.AssertEqual(t, got[1].Title, "afternoon")
}

func TestPlanStoreGetByDayTakesNewest(t *testing.T) {
	db := testutil.TestDB(t)
	plans := storage.NewPlanStore(db)
	user := testUser(t, db)
	day := testDay(t, db, user.ID, "2026-08-31")

	if _, err := plans.GetByDay(day.ID); err != core.ErrPlanNotFound {
		t.Fatalf("got %v, want ErrPlanNotFound", err)
	}

	plan := &core.AIPlan{ID: core.PlanID(uuid.NewString()), DayID: day.ID, UserID: user.ID}
	testutil.AssertNoError(t, plans.CreatePlan(plan))

	got, err := plans.GetByDay(day.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got.ID, plan.ID)
}

func TestActivityStoreNewestFirst(t *testing.T) {
	db := testutil.TestDB(t)
	activities := storage.NewActivityStore(db)
	user := testUser(t, db)
	day := testDay(t, db, user.ID, "2026-08-31")

	for _, desc := range []string{"one", "two"} {
		activity := &core.Activity{
			ID:          core.ActivityID(uuid.NewString()),
			DayID:       day.ID,
			UserID:      user.ID,
			Type:        core.ActivityTask,
			Description: desc,
			Status:      core.ActivityCompleted,
		}
		testutil.AssertNoError(t, activities.Create(activity))
		time.Sleep(5 * time.Millisecond)
	}

	got, err := activities.GetByDay(day.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(got), 2)
	testutil.AssertEqual(t, got[0].Description, "two")

	count, err := activities.Count(day.ID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, 2)
}

func TestWaitlistStoreDuplicate(t *testing.T) {
	db := testutil.TestDB(t)
	waitlist := storage.NewWaitlistStore(db)

	_, err := waitlist.Add("dev@example.com")
	testutil.AssertNoError(t, err)

	if _, err := waitlist.Add("dev@example.com"); err != core.ErrDuplicateEmail {
		t.Errorf("got %v, want ErrDuplicateEmail", err)
	}

	count, err := waitlist.Count()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, count, 1)
}
