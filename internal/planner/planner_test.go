package planner

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/agentos-io/agentos/internal/registry"
	"github.com/agentos-io/agentos/internal/router"
	"github.com/agentos-io/agentos/pkg/models"
)

const validPlanJSON = `{
  "plan_summary": "Two-step rollout",
  "subtasks": [
    {"id": 1, "title": "Write the migration", "description": "...", "assigned_to": "backend", "task_type": "coding", "priority": "HIGH", "depends_on": [], "estimated_minutes": 15},
    {"id": 2, "title": "Announce the change", "description": "...", "assigned_to": "content-creator", "task_type": "writing", "priority": "MEDIUM", "depends_on": [1], "estimated_minutes": 5}
  ]
}`

func TestParsePlan(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"bare json", validPlanJSON},
		{"json fence", "```json\n" + validPlanJSON + "\n```"},
		{"plain fence", "```\n" + validPlanJSON + "\n```"},
		{"surrounding prose", "Here is the plan:\n\n" + validPlanJSON + "\n\nLet me know."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := ParsePlan(tc.response)
			if err != nil {
				t.Fatalf("ParsePlan: %v", err)
			}
			if plan.Summary != "Two-step rollout" {
				t.Errorf("summary = %q", plan.Summary)
			}
			if len(plan.Subtasks) != 2 {
				t.Fatalf("got %d subtasks, want 2", len(plan.Subtasks))
			}
			if plan.Subtasks[1].DependsOn[0] != 1 {
				t.Errorf("dependency not preserved: %v", plan.Subtasks[1].DependsOn)
			}
		})
	}
}

func TestParsePlanSchemaErrors(t *testing.T) {
	cases := []struct {
		name     string
		response string
	}{
		{"no json", "I could not produce a plan, sorry."},
		{"malformed json", `{"plan_summary": "x", "subtasks": [`},
		{"no subtasks", `{"plan_summary": "x", "subtasks": []}`},
		{"missing id", `{"plan_summary": "x", "subtasks": [{"title": "a", "assigned_to": "tesla"}]}`},
		{"duplicate ids", `{"plan_summary": "x", "subtasks": [{"id": 1, "title": "a", "assigned_to": "tesla"}, {"id": 1, "title": "b", "assigned_to": "tesla"}]}`},
		{"empty title", `{"plan_summary": "x", "subtasks": [{"id": 1, "title": " ", "assigned_to": "tesla"}]}`},
		{"no assignee", `{"plan_summary": "x", "subtasks": [{"id": 1, "title": "a"}]}`},
		{"bad priority", `{"plan_summary": "x", "subtasks": [{"id": 1, "title": "a", "assigned_to": "tesla", "priority": "URGENT"}]}`},
		{"undeclared dependency", `{"plan_summary": "x", "subtasks": [{"id": 1, "title": "a", "assigned_to": "tesla", "depends_on": [7]}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParsePlan(tc.response); !errors.Is(err, ErrPlanSchema) {
				t.Errorf("expected ErrPlanSchema, got %v", err)
			}
		})
	}
}

// scriptedCompleter answers every request with a fixed body, or fails.
type scriptedCompleter struct {
	content string
	err     error
}

func (s *scriptedCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: s.content}},
		},
	}, nil
}

func newTestPlanner(transport router.ChatCompleter) *Planner {
	llm := router.NewClientWithTransport(transport, nil, false)
	return New(llm, registry.Default(), "tesla")
}

func TestPlanParsesModelResponse(t *testing.T) {
	p := newTestPlanner(&scriptedCompleter{content: validPlanJSON})

	plan, err := p.Plan(context.Background(), "Roll out the schema change", "acme-corp")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Project != "acme-corp" {
		t.Errorf("project = %q", plan.Project)
	}
	if len(plan.Subtasks) != 2 {
		t.Errorf("got %d subtasks, want 2", len(plan.Subtasks))
	}
}

func TestPlanFallsBackOnGarbage(t *testing.T) {
	p := newTestPlanner(&scriptedCompleter{content: "no plan here, just vibes"})

	directive := "Prepare a full market analysis for healthcare AI"
	plan, err := p.Plan(context.Background(), directive, "default")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.Summary != "Direct execution" {
		t.Errorf("summary = %q, want fallback plan", plan.Summary)
	}
	if len(plan.Subtasks) != 1 {
		t.Fatalf("fallback plan has %d subtasks, want 1", len(plan.Subtasks))
	}
	st := plan.Subtasks[0]
	if st.AssignedTo != "tesla" || st.Priority != models.PriorityMedium {
		t.Errorf("fallback subtask = %+v", st)
	}
	if st.Description != directive {
		t.Errorf("fallback description = %q", st.Description)
	}
}

func TestPlanTruncatesFallbackTitle(t *testing.T) {
	p := newTestPlanner(&scriptedCompleter{content: "garbage"})

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'a'
	}
	plan, err := p.Plan(context.Background(), string(long), "")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if got := len(plan.Subtasks[0].Title); got != fallbackTitleLimit {
		t.Errorf("fallback title length = %d, want %d", got, fallbackTitleLimit)
	}
}

func TestPlanPropagatesTransportExhaustion(t *testing.T) {
	p := newTestPlanner(&scriptedCompleter{err: errors.New("network down")})

	if _, err := p.Plan(context.Background(), "directive", ""); !errors.Is(err, router.ErrRoutingExhausted) {
		t.Errorf("expected ErrRoutingExhausted, got %v", err)
	}
}
