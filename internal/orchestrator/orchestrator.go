package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/agentos-io/agentos/internal/executor"
	"github.com/agentos-io/agentos/internal/planner"
	"github.com/agentos-io/agentos/internal/queue"
	"github.com/agentos-io/agentos/internal/registry"
	"github.com/agentos-io/agentos/internal/router"
	"github.com/agentos-io/agentos/pkg/models"
)

// CoordinatorName is the identity recorded as the assigner of planned
// tasks.
const CoordinatorName = "jarvis"

// Orchestrator drives the directive pipeline.
type Orchestrator struct {
	llm           *router.Client
	reg           *registry.Registry
	store         *queue.Store
	planner       *planner.Planner
	maxIterations int
	logger        *DebugLogger

	// Progress, when set, receives human-readable pipeline updates for
	// interactive display.
	Progress func(format string, args ...any)
}

// Options configure an orchestrator.
type Options struct {
	// DefaultAgent is the fallback assignee for degraded plans.
	DefaultAgent string
	// MaxIterations bounds each agent's tool loop; zero means the
	// executor default.
	MaxIterations int
	// Logger receives debug traces; nil means no-op.
	Logger *DebugLogger
}

// New creates an orchestrator over the given router, registry, and
// queue store.
func New(llm *router.Client, reg *registry.Registry, store *queue.Store, opts Options) *Orchestrator {
	defaultAgent := opts.DefaultAgent
	if defaultAgent == "" {
		defaultAgent = "tesla"
	}
	logger := opts.Logger
	if logger == nil {
		logger = NopLogger()
	}
	return &Orchestrator{
		llm:           llm,
		reg:           reg,
		store:         store,
		planner:       planner.New(llm, reg, defaultAgent),
		maxIterations: opts.MaxIterations,
		logger:        logger,
	}
}

func (o *Orchestrator) progressf(format string, args ...any) {
	if o.Progress != nil {
		o.Progress(format, args...)
	}
}

// Plan decomposes a directive without executing it.
func (o *Orchestrator) Plan(ctx context.Context, directive, project string) (models.Plan, error) {
	return o.planner.Plan(ctx, directive, project)
}

// ExecutePlan materializes every subtask of a plan into the queue
// store, then runs them honoring dependencies: subtasks execute in
// readiness waves, where a subtask is ready once all its dependencies
// have finished (in any terminal state). If no subtask is ready but
// work remains, the dependency graph is cyclic or inconsistent; all
// remaining subtasks are treated as ready so the plan always
// terminates. Subtasks assigned to unregistered agents are not
// materialized; each fails individually at execution time.
func (o *Orchestrator) ExecutePlan(ctx context.Context, plan models.Plan) ([]models.TaskResult, error) {
	queued := make(map[int]string, len(plan.Subtasks))
	for _, t := range plan.Subtasks {
		if !o.reg.Exists(t.AssignedTo) {
			continue
		}
		task, err := o.store.Enqueue(models.Task{
			Title:       t.Title,
			Description: t.Description,
			AssignedTo:  t.AssignedTo,
			AssignedBy:  CoordinatorName,
			TaskType:    t.TaskType,
			Priority:    t.Priority,
			Project:     plan.Project,
		})
		if err != nil {
			return nil, fmt.Errorf("materialize subtask %d: %w", t.ID, err)
		}
		queued[t.ID] = task.ID
	}

	var results []models.TaskResult
	finished := make(map[int]bool)
	remaining := append([]models.Subtask(nil), plan.Subtasks...)

	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		var ready []models.Subtask
		for _, t := range remaining {
			if depsFinished(t, finished) {
				ready = append(ready, t)
			}
		}
		if len(ready) == 0 {
			o.logger.Log("dependency cycle detected; forcing %d remaining subtasks ready", len(remaining))
			ready = remaining
		}

		for _, t := range ready {
			r := o.runSubtask(ctx, t, queued[t.ID])
			results = append(results, r)
			finished[t.ID] = true
			o.progressf("  [%d] %s (%d iterations, model: %s)", t.ID, r.Status, r.Iterations, r.ModelUsed)
		}

		var next []models.Subtask
		for _, t := range remaining {
			if !finished[t.ID] {
				next = append(next, t)
			}
		}
		remaining = next
	}

	return results, nil
}

func depsFinished(t models.Subtask, finished map[int]bool) bool {
	for _, dep := range t.DependsOn {
		if !finished[dep] {
			return false
		}
	}
	return true
}

// runSubtask executes one subtask as its assigned agent, claiming and
// completing its queue row when it was materialized. An assignment to
// an unregistered agent fails that subtask alone; the rest of the plan
// proceeds.
func (o *Orchestrator) runSubtask(ctx context.Context, t models.Subtask, queueID string) models.TaskResult {
	o.progressf("  [%d] Dispatching to %s: %s", t.ID, t.AssignedTo, t.Title)
	o.logger.Log("subtask %d -> %s: %s", t.ID, t.AssignedTo, t.Title)

	agent, err := o.reg.Get(t.AssignedTo)
	if err != nil {
		return models.TaskResult{
			Agent:  t.AssignedTo,
			TaskID: strconv.Itoa(t.ID),
			Title:  t.Title,
			Status: models.TaskStatusFailed,
			Result: fmt.Sprintf("Cannot execute: %v", err),
		}
	}

	if queueID != "" {
		if _, err := o.store.Claim(queueID); err != nil {
			o.logger.Log("claim task %s: %v", queueID, err)
		}
	}

	exec := executor.New(agent, o.llm, executor.Options{
		MaxIterations: o.maxIterations,
		Store:         o.store,
	})
	result := exec.Run(ctx, t.Title+"\n\n"+t.Description, t.TaskType)
	result.TaskID = strconv.Itoa(t.ID)
	result.Title = t.Title

	if queueID != "" {
		if err := o.store.Complete(queueID, result.Status, resultText(result), result.ModelUsed); err != nil {
			o.logger.Log("record task %s outcome: %v", queueID, err)
		}
	}
	return result
}

// resultText flattens a task result into the stored result column.
func resultText(r models.TaskResult) string {
	if r.Details == "" {
		return r.Result
	}
	return r.Result + "\n\n" + r.Details
}

// DispatchResult is the outcome of a full directive pipeline.
type DispatchResult struct {
	Directive       string              `json:"directive"`
	Project         string              `json:"project"`
	Plan            models.Plan         `json:"plan"`
	Results         []models.TaskResult `json:"results"`
	Summary         string              `json:"summary"`
	TotalIterations int                 `json:"total_iterations"`
	AgentsUsed      []string            `json:"agents_used"`
}

// Dispatch runs the full pipeline: plan, execute, consolidate. With
// dryRun set, planning happens but nothing executes.
func (o *Orchestrator) Dispatch(ctx context.Context, directive, project string, dryRun bool) (*DispatchResult, error) {
	if project == "" {
		project = "default"
	}

	o.progressf("Planning...")
	plan, err := o.Plan(ctx, directive, project)
	if err != nil {
		return nil, err
	}
	o.progressf("  Plan: %s (%d subtasks)", plan.Summary, len(plan.Subtasks))

	out := &DispatchResult{
		Directive: directive,
		Project:   project,
		Plan:      plan,
	}
	if dryRun {
		out.Summary = "DRY RUN"
		return out, nil
	}

	o.progressf("Executing...")
	results, err := o.ExecutePlan(ctx, plan)
	if err != nil {
		return nil, err
	}
	out.Results = results

	o.progressf("Consolidating...")
	out.Summary = o.Consolidate(ctx, directive, results, project)

	seen := make(map[string]bool)
	for _, r := range results {
		out.TotalIterations += r.Iterations
		if !seen[r.Agent] {
			seen[r.Agent] = true
			out.AgentsUsed = append(out.AgentsUsed, r.Agent)
		}
	}

	if _, err := o.store.RecordDispatch(queue.Dispatch{
		Directive:    directive,
		Project:      project,
		PlanSummary:  plan.Summary,
		SubtaskCount: len(plan.Subtasks),
	}); err != nil {
		// The pipeline already succeeded; an audit failure is not worth
		// failing the dispatch over.
		o.logger.Log("record dispatch: %v", err)
	}

	return out, nil
}

// QueueResult is the outcome of planning and queueing a directive.
type QueueResult struct {
	Plan    models.Plan   `json:"plan"`
	Tasks   []models.Task `json:"tasks"`
	Skipped []string      `json:"skipped,omitempty"`
}

// QueueDirective plans a directive and enqueues its subtasks for later
// processing instead of executing them inline. Subtasks assigned to
// unregistered agents are skipped and reported, not queued.
func (o *Orchestrator) QueueDirective(ctx context.Context, directive, project string) (*QueueResult, error) {
	if project == "" {
		project = "default"
	}
	plan, err := o.Plan(ctx, directive, project)
	if err != nil {
		return nil, err
	}

	out := &QueueResult{Plan: plan}
	var taskIDs []string
	for _, t := range plan.Subtasks {
		if !o.reg.Exists(t.AssignedTo) {
			o.logger.Log("skip subtask %d: unknown agent %s", t.ID, t.AssignedTo)
			out.Skipped = append(out.Skipped,
				fmt.Sprintf("subtask %d (%s): unknown agent %s", t.ID, t.Title, t.AssignedTo))
			continue
		}
		task, err := o.store.Enqueue(models.Task{
			Title:       t.Title,
			Description: t.Description,
			AssignedTo:  t.AssignedTo,
			AssignedBy:  CoordinatorName,
			TaskType:    t.TaskType,
			Priority:    t.Priority,
			Project:     project,
		})
		if err != nil {
			return nil, fmt.Errorf("queue subtask %d: %w", t.ID, err)
		}
		out.Tasks = append(out.Tasks, task)
		taskIDs = append(taskIDs, task.ID)
		o.progressf("  Queued [%s] -> %s: %s", task.ID, t.AssignedTo, t.Title)
	}

	if _, err := o.store.RecordDispatch(queue.Dispatch{
		Directive:    directive,
		Project:      project,
		PlanSummary:  plan.Summary,
		TaskIDs:      taskIDs,
		SubtaskCount: len(plan.Subtasks),
	}); err != nil {
		o.logger.Log("record dispatch: %v", err)
	}

	return out, nil
}

// ProcessNext claims the oldest, highest-priority pending task for the
// agent, executes it, and records the outcome. Returns
// queue.ErrNoPendingTasks when the agent's queue is empty.
func (o *Orchestrator) ProcessNext(ctx context.Context, agentName, project string) (*models.Task, *models.TaskResult, error) {
	agent, err := o.reg.Get(agentName)
	if err != nil {
		return nil, nil, err
	}

	task, err := o.store.ClaimNext(agentName, project)
	if err != nil {
		return nil, nil, err
	}
	o.progressf("Processing [%s] %s", task.ID, task.Title)
	o.logger.Log("claimed task %s for %s", task.ID, agentName)

	exec := executor.New(agent, o.llm, executor.Options{
		MaxIterations: o.maxIterations,
		Store:         o.store,
	})
	result := exec.Run(ctx, task.Title+"\n\n"+task.Description, task.TaskType)
	result.TaskID = task.ID
	result.Title = task.Title

	if err := o.store.Complete(task.ID, result.Status, resultText(result), result.ModelUsed); err != nil {
		return task, &result, fmt.Errorf("record task outcome: %w", err)
	}
	return task, &result, nil
}

// IsQueueEmpty reports whether ErrNoPendingTasks caused the error.
func IsQueueEmpty(err error) bool {
	return errors.Is(err, queue.ErrNoPendingTasks)
}
