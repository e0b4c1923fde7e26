package planner_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/devday/devday/internal/core"
	"github.com/devday/devday/internal/planner"
)

type fakeCompleter struct {
	content string
	err     error
}

func (f *fakeCompleter) ChatJSON(ctx context.Context, system, userMessage string) (string, error) {
	return f.content, f.err
}

func generate(t *testing.T, content string) ([]planner.GeneratedItem, error) {
	t.Helper()
	g := planner.New(&fakeCompleter{content: content}, zerolog.Nop())
	return g.Generate(context.Background(), []string{"write the report"})
}

func TestGenerateValidPlan(t *testing.T) {
	items, err := generate(t, `{"daily_plan": [
		{"title": "Write report", "description": "Draft the Q3 report", "priority": "high", "start_time": "09:00", "end_time": "11:00"},
		{"title": "Review PRs", "description": "", "priority": "low", "start_time": "11:30", "end_time": "12:00"}
	]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "Write report" || items[0].Priority != "high" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
}

func TestGenerateMissingKey(t *testing.T) {
	for name, content := range map[string]string{
		"no key":      `{"plan": []}`,
		"null value":  `{"daily_plan": null}`,
		"not json":    `here is your plan: 1. do stuff`,
		"object":      `{"daily_plan": {"title": "x"}}`,
		"string list": `{"daily_plan": "09:00 do stuff"}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := generate(t, content)
			if !errors.Is(err, core.ErrMalformedPlan) {
				t.Errorf("got %v, want ErrMalformedPlan", err)
			}
		})
	}
}

func TestGenerateClampsPriority(t *testing.T) {
	items, err := generate(t, `{"daily_plan": [
		{"title": "Task", "priority": "urgent", "start_time": "09:00", "end_time": "10:00"}
	]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Priority != string(core.PriorityMedium) {
		t.Errorf("got priority %q, want medium", items[0].Priority)
	}
}

func TestGenerateDropsInvalidItems(t *testing.T) {
	items, err := generate(t, `{"daily_plan": [
		{"title": "", "priority": "high", "start_time": "09:00", "end_time": "10:00"},
		{"title": "Bad clock", "priority": "high", "start_time": "25:00", "end_time": "10:00"},
		{"title": "Bad format", "priority": "high", "start_time": "9am", "end_time": "10:00"},
		{"title": "Keeper", "priority": "high", "start_time": "09:00", "end_time": "23:59"}
	]}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Title != "Keeper" {
		t.Errorf("kept wrong item: %+v", items[0])
	}
}

func TestGenerateRequestError(t *testing.T) {
	g := planner.New(&fakeCompleter{err: errors.New("boom")}, zerolog.Nop())
	if _, err := g.Generate(context.Background(), []string{"goal"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildPromptEnumeratesGoals(t *testing.T) {
	prompt := planner.BuildPrompt([]string{"finish the demo", "review designs"})
	if !strings.Contains(prompt, "1. finish the demo") {
		t.Errorf("prompt missing first goal:\n%s", prompt)
	}
	if !strings.Contains(prompt, "2. review designs") {
		t.Errorf("prompt missing second goal:\n%s", prompt)
	}
}

func TestRecords(t *testing.T) {
	items := []planner.GeneratedItem{
		{Title: "Task", Description: "desc", Priority: "high", StartTime: "09:00", EndTime: "10:00"},
	}
	records := planner.Records(core.PlanID("plan-1"), items)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.ID == "" || r.PlanID != "plan-1" || r.Status != core.PlanItemScheduled {
		t.Errorf("unexpected record: %+v", r)
	}
}
