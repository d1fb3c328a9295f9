// Package planner turns a natural-language directive into a structured
// execution plan: subtasks with agent assignments, priorities, and
// dependencies. Planning is LLM-driven with a deterministic single-task
// fallback when the model response cannot be parsed.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/agentos-io/agentos/internal/registry"
	"github.com/agentos-io/agentos/internal/router"
	"github.com/agentos-io/agentos/pkg/models"
)

// ErrPlanSchema indicates a model response that could not be parsed
// into a valid plan.
var ErrPlanSchema = errors.New("plan does not match expected schema")

// fallbackTitleLimit caps the title of the deterministic fallback plan.
const fallbackTitleLimit = 100

// Planner produces execution plans from directives.
type Planner struct {
	llm *router.Client
	reg *registry.Registry
	// defaultAgent receives the single fallback subtask when the model
	// response is unusable.
	defaultAgent string
}

// New creates a planner. defaultAgent must name a registered agent; it
// is the assignee of last resort.
func New(llm *router.Client, reg *registry.Registry, defaultAgent string) *Planner {
	return &Planner{llm: llm, reg: reg, defaultAgent: defaultAgent}
}

// Plan asks the model to decompose the directive into subtasks. A
// response that fails to parse or validate degrades to the
// deterministic single-task fallback rather than failing the directive.
// Transport exhaustion (no model answered at all) is still an error.
func (p *Planner) Plan(ctx context.Context, directive, project string) (models.Plan, error) {
	system := buildPlanningPrompt(p.reg.Describe(), project)

	response, _, err := p.llm.Chat(ctx, directive, router.ChatOptions{
		TaskType:    "reasoning",
		System:      system,
		Temperature: 0.3,
	})
	if err != nil {
		return models.Plan{}, fmt.Errorf("plan directive: %w", err)
	}

	plan, err := ParsePlan(response)
	if err != nil {
		if errors.Is(err, ErrPlanSchema) {
			plan = p.fallbackPlan(directive)
		} else {
			return models.Plan{}, err
		}
	}
	plan.Project = project
	return plan, nil
}

// fallbackPlan is the deterministic degradation when the model response
// is unusable: one subtask carrying the whole directive.
func (p *Planner) fallbackPlan(directive string) models.Plan {
	title := directive
	if len(title) > fallbackTitleLimit {
		title = title[:fallbackTitleLimit]
	}
	return models.Plan{
		Summary: "Direct execution",
		Subtasks: []models.Subtask{{
			ID:               1,
			Title:            title,
			Description:      directive,
			AssignedTo:       p.defaultAgent,
			TaskType:         string(models.TaskTypeGeneral),
			Priority:         models.PriorityMedium,
			EstimatedMinutes: 10,
		}},
	}
}

// ParsePlan extracts a plan from a model response. It tolerates
// markdown code fences and surrounding prose; anything that cannot be
// reduced to the expected JSON shape returns ErrPlanSchema.
func ParsePlan(response string) (models.Plan, error) {
	response = stripFences(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return models.Plan{}, fmt.Errorf("%w: no JSON object in response", ErrPlanSchema)
	}
	response = response[start : end+1]

	var plan models.Plan
	if err := json.Unmarshal([]byte(response), &plan); err != nil {
		return models.Plan{}, fmt.Errorf("%w: %v", ErrPlanSchema, err)
	}

	if err := validatePlan(&plan); err != nil {
		return models.Plan{}, fmt.Errorf("%w: %v", ErrPlanSchema, err)
	}
	return plan, nil
}

// stripFences removes a wrapping markdown code block, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}
	return s
}

// validatePlan performs structural validation on a parsed plan.
func validatePlan(plan *models.Plan) error {
	if len(plan.Subtasks) == 0 {
		return fmt.Errorf("plan has no subtasks")
	}

	ids := make(map[int]bool, len(plan.Subtasks))
	for i, t := range plan.Subtasks {
		if t.ID == 0 {
			return fmt.Errorf("subtask at index %d has no id", i)
		}
		if ids[t.ID] {
			return fmt.Errorf("duplicate subtask id %d", t.ID)
		}
		ids[t.ID] = true

		if strings.TrimSpace(t.Title) == "" {
			return fmt.Errorf("subtask %d has empty title", t.ID)
		}
		if strings.TrimSpace(t.AssignedTo) == "" {
			return fmt.Errorf("subtask %d has no assignee", t.ID)
		}
		if t.Priority != "" && !t.Priority.Valid() {
			return fmt.Errorf("subtask %d has invalid priority %q", t.ID, t.Priority)
		}
	}

	for _, t := range plan.Subtasks {
		for _, dep := range t.DependsOn {
			if !ids[dep] {
				return fmt.Errorf("subtask %d depends on undeclared id %d", t.ID, dep)
			}
		}
	}
	return nil
}
