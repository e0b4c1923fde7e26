// Package planner turns a user's stated daily goals into a generated
// schedule by calling an external language model.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/devday/devday/internal/core"
)

// Completer is the slice of the LLM client the generator needs.
type Completer interface {
	ChatJSON(ctx context.Context, system, userMessage string) (string, error)
}

// GeneratedItem is one scheduled task produced by the model, before it
// becomes a persisted plan item.
type GeneratedItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// Generator builds prompts, calls the model and validates its output.
type Generator struct {
	llm Completer
	log zerolog.Logger
}

// New creates a plan generator
func New(llm Completer, log zerolog.Logger) *Generator {
	return &Generator{
		llm: llm,
		log: log.With().Str("component", "planner").Logger(),
	}
}

const systemPrompt = `You are an AI assistant that creates practical, actionable daily plans based on goals. Always format your response as a JSON object with a single "daily_plan" key containing an array of task objects. Example: {"daily_plan": [{"title": "Task Title", "description": "Task description", "priority": "medium", "start_time": "09:00", "end_time": "10:00"}]}`

// BuildPrompt renders the user prompt enumerating the goals 1..n.
func BuildPrompt(goals []string) string {
	var b strings.Builder
	b.WriteString("Based on the following daily goals:\n")
	for i, goal := range goals {
		fmt.Fprintf(&b, "%d. %s\n", i+1, goal)
	}
	b.WriteString(`
Generate a practical daily plan with 3-5 specific tasks. For each task, provide:
1. A clear, actionable title
2. A brief description of the task
3. Priority level (low, medium, or high)
4. Suggested start time (in HH:MM format, 24-hour time)
5. Suggested end time (in HH:MM format, 24-hour time)

The plan should help achieve these goals effectively while being realistic about time management.
Format your response as a JSON array of objects with the properties: title, description, priority, start_time, end_time.
`)
	return b.String()
}

// Generate asks the model for a schedule covering the given goals.
// Model output is validated before it is returned: unknown priorities
// are clamped to medium, and items without a title or with malformed
// times are dropped. A payload without a daily_plan list fails with
// core.ErrMalformedPlan.
func (g *Generator) Generate(ctx context.Context, goals []string) ([]GeneratedItem, error) {
	content, err := g.llm.ChatJSON(ctx, systemPrompt, BuildPrompt(goals))
	if err != nil {
		return nil, fmt.Errorf("plan generation request: %w", err)
	}

	items, err := parsePlan(content)
	if err != nil {
		return nil, err
	}

	return g.sanitize(items), nil
}

func parsePlan(content string) ([]GeneratedItem, error) {
	var payload struct {
		DailyPlan json.RawMessage `json:"daily_plan"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedPlan, err)
	}
	plan := strings.TrimSpace(string(payload.DailyPlan))
	if plan == "" || plan == "null" {
		return nil, fmt.Errorf("%w: missing daily_plan key", core.ErrMalformedPlan)
	}
	if !strings.HasPrefix(plan, "[") {
		return nil, fmt.Errorf("%w: daily_plan is not a task list", core.ErrMalformedPlan)
	}

	var items []GeneratedItem
	if err := json.Unmarshal(payload.DailyPlan, &items); err != nil {
		return nil, fmt.Errorf("%w: daily_plan is not a task list", core.ErrMalformedPlan)
	}

	return items, nil
}

var clockTime = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (g *Generator) sanitize(items []GeneratedItem) []GeneratedItem {
	out := make([]GeneratedItem, 0, len(items))
	for _, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		if item.Title == "" {
			g.log.Warn().Msg("dropping generated item without title")
			continue
		}
		if !clockTime.MatchString(item.StartTime) || !clockTime.MatchString(item.EndTime) {
			g.log.Warn().
				Str("title", item.Title).
				Str("start", item.StartTime).
				Str("end", item.EndTime).
				Msg("dropping generated item with malformed times")
			continue
		}
		if !core.ValidPriority(core.Priority(item.Priority)) {
			item.Priority = string(core.PriorityMedium)
		}
		out = append(out, item)
	}
	return out
}

// Records converts generated items into insertable plan items bound to
// a plan, defaulting status to scheduled.
func Records(planID core.PlanID, items []GeneratedItem) []*core.PlanItem {
	records := make([]*core.PlanItem, 0, len(items))
	for _, item := range items {
		records = append(records, &core.PlanItem{
			ID:          core.PlanItemID(uuid.NewString()),
			PlanID:      planID,
			Title:       item.Title,
			Description: item.Description,
			Priority:    core.Priority(item.Priority),
			StartTime:   item.StartTime,
			EndTime:     item.EndTime,
			Status:      core.PlanItemScheduled,
		})
	}
	return records
}
