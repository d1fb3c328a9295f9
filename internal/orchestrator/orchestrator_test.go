package orchestrator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/agentos-io/agentos/internal/queue"
	"github.com/agentos-io/agentos/internal/registry"
	"github.com/agentos-io/agentos/internal/router"
	"github.com/agentos-io/agentos/pkg/models"
)

// fakeCompleter answers the first call with planResponse (when set) and
// every later call with "done".
type fakeCompleter struct {
	planResponse string
	calls        int
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	content := "done"
	if f.calls == 1 && f.planResponse != "" {
		content = f.planResponse
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}, nil
}

func newTestOrchestrator(t *testing.T, transport router.ChatCompleter) (*Orchestrator, *queue.Store) {
	t.Helper()

	store, err := queue.Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	llm := router.NewClientWithTransport(transport, nil, false)
	o := New(llm, registry.Default(), store, Options{DefaultAgent: "tesla", MaxIterations: 3})
	return o, store
}

func subtask(id int, agent string, deps ...int) models.Subtask {
	return models.Subtask{
		ID:         id,
		Title:      "task",
		AssignedTo: agent,
		TaskType:   "general",
		Priority:   models.PriorityMedium,
		DependsOn:  deps,
	}
}

func TestExecutePlanHonorsDependencies(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeCompleter{})

	plan := models.Plan{
		Summary: "fan out after setup",
		Subtasks: []models.Subtask{
			subtask(2, "backend", 1),
			subtask(3, "frontend", 1),
			subtask(1, "tesla"),
		},
	}

	results, err := o.ExecutePlan(context.Background(), plan)
	if err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	// The root subtask must run in the first wave, before its dependents.
	if results[0].TaskID != "1" {
		t.Errorf("first executed subtask = %s, want 1", results[0].TaskID)
	}
	for _, r := range results {
		if r.Status != models.TaskStatusCompleted {
			t.Errorf("subtask %s status = %s", r.TaskID, r.Status)
		}
	}
}

func TestExecutePlanBreaksCycles(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeCompleter{})

	plan := models.Plan{
		Subtasks: []models.Subtask{
			subtask(1, "tesla", 2),
			subtask(2, "warren", 1),
		},
	}

	results, err := o.ExecutePlan(context.Background(), plan)
	if err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	// A cyclic plan must still execute every subtask exactly once.
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestExecutePlanIsolatesUnknownAgent(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeCompleter{})

	plan := models.Plan{
		Subtasks: []models.Subtask{
			subtask(1, "nobody"),
			subtask(2, "tesla"),
		},
	}

	results, err := o.ExecutePlan(context.Background(), plan)
	if err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	byID := make(map[string]models.TaskResult)
	for _, r := range results {
		byID[r.TaskID] = r
	}
	if byID["1"].Status != models.TaskStatusFailed {
		t.Errorf("unknown agent subtask status = %s, want failed", byID["1"].Status)
	}
	if !strings.Contains(byID["1"].Result, "unknown agent") {
		t.Errorf("failure reason = %q", byID["1"].Result)
	}
	if byID["2"].Status != models.TaskStatusCompleted {
		t.Errorf("healthy subtask status = %s, want completed", byID["2"].Status)
	}
}

const planJSON = `{
  "plan_summary": "Two steps",
  "subtasks": [
    {"id": 1, "title": "Investigate", "description": "dig in", "assigned_to": "backend", "task_type": "coding", "priority": "HIGH", "depends_on": []},
    {"id": 2, "title": "Mystery step", "description": "???", "assigned_to": "nobody", "task_type": "general", "priority": "LOW", "depends_on": []}
  ]
}`

func TestQueueDirective(t *testing.T) {
	o, store := newTestOrchestrator(t, &fakeCompleter{planResponse: planJSON})

	out, err := o.QueueDirective(context.Background(), "Find the bug", "acme-corp")
	if err != nil {
		t.Fatalf("QueueDirective: %v", err)
	}
	if len(out.Tasks) != 1 {
		t.Fatalf("queued %d tasks, want 1", len(out.Tasks))
	}
	if len(out.Skipped) != 1 || !strings.Contains(out.Skipped[0], "nobody") {
		t.Errorf("skipped = %v", out.Skipped)
	}

	task := out.Tasks[0]
	if task.AssignedTo != "backend" || task.AssignedBy != CoordinatorName || task.Project != "acme-corp" {
		t.Errorf("queued task = %+v", task)
	}

	dispatches, err := store.ListDispatches("acme-corp", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(dispatches) != 1 || dispatches[0].SubtaskCount != 2 {
		t.Errorf("dispatch audit = %+v", dispatches)
	}
	if len(dispatches[0].TaskIDs) != 1 {
		t.Errorf("audited task ids = %v", dispatches[0].TaskIDs)
	}
}

func TestDispatchDryRun(t *testing.T) {
	fake := &fakeCompleter{planResponse: planJSON}
	o, _ := newTestOrchestrator(t, fake)

	out, err := o.Dispatch(context.Background(), "Find the bug", "", true)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if out.Summary != "DRY RUN" {
		t.Errorf("summary = %q", out.Summary)
	}
	if len(out.Results) != 0 {
		t.Errorf("dry run produced %d results", len(out.Results))
	}
	if fake.calls != 1 {
		t.Errorf("dry run made %d model calls, want 1 (planning only)", fake.calls)
	}
	if out.Project != "default" {
		t.Errorf("project = %q, want default", out.Project)
	}
}

func TestDispatchFullPipeline(t *testing.T) {
	o, store := newTestOrchestrator(t, &fakeCompleter{planResponse: planJSON})

	out, err := o.Dispatch(context.Background(), "Find the bug", "acme-corp", false)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(out.Results))
	}
	if out.Summary != "done" {
		t.Errorf("summary = %q", out.Summary)
	}
	if len(out.AgentsUsed) != 2 {
		t.Errorf("agents used = %v", out.AgentsUsed)
	}
	if out.TotalIterations == 0 {
		t.Error("expected non-zero total iterations")
	}

	// The registered subtask was materialized and finished durably; the
	// unknown-agent subtask never reached the store.
	tasks, err := store.List(queue.ListFilter{Project: "acme-corp"})
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("store holds %d tasks, want 1", len(tasks))
	}
	if tasks[0].Status != models.TaskStatusCompleted || tasks[0].AssignedTo != "backend" {
		t.Errorf("materialized task = %+v", tasks[0])
	}

	dispatches, err := store.ListDispatches("acme-corp", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(dispatches) != 1 {
		t.Errorf("got %d dispatch audit records, want 1", len(dispatches))
	}
}

func TestProcessNext(t *testing.T) {
	o, store := newTestOrchestrator(t, &fakeCompleter{})

	queued, err := store.Enqueue(models.Task{
		Title:      "Check the logs",
		AssignedTo: "tesla",
		AssignedBy: CoordinatorName,
	})
	if err != nil {
		t.Fatal(err)
	}

	task, result, err := o.ProcessNext(context.Background(), "tesla", "")
	if err != nil {
		t.Fatalf("ProcessNext: %v", err)
	}
	if task.ID != queued.ID {
		t.Errorf("processed task %s, want %s", task.ID, queued.ID)
	}
	if result.Status != models.TaskStatusCompleted {
		t.Errorf("result status = %s", result.Status)
	}

	stored, err := store.Get(queued.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.TaskStatusCompleted {
		t.Errorf("stored status = %s, want completed", stored.Status)
	}
	if stored.Result != "done" {
		t.Errorf("stored result = %q", stored.Result)
	}

	// Queue is drained now.
	_, _, err = o.ProcessNext(context.Background(), "tesla", "")
	if !IsQueueEmpty(err) {
		t.Errorf("expected empty-queue error, got %v", err)
	}
}

func TestProcessNextUnknownAgent(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeCompleter{})

	_, _, err := o.ProcessNext(context.Background(), "nobody", "")
	if !errors.Is(err, registry.ErrUnknownAgent) {
		t.Errorf("expected ErrUnknownAgent, got %v", err)
	}
}

func TestConsolidateDegradesOnFailure(t *testing.T) {
	o, _ := newTestOrchestrator(t, failingCompleter{})

	summary := o.Consolidate(context.Background(), "directive", []models.TaskResult{
		{TaskID: "1", Agent: "tesla", Status: models.TaskStatusCompleted, Result: "ok"},
	}, "")
	if !strings.Contains(summary, "Consolidation unavailable") {
		t.Errorf("summary = %q", summary)
	}
}

func TestConsolidateEmptyResults(t *testing.T) {
	o, _ := newTestOrchestrator(t, &fakeCompleter{})

	summary := o.Consolidate(context.Background(), "directive", nil, "")
	if summary != "No results to consolidate." {
		t.Errorf("summary = %q", summary)
	}
}

type failingCompleter struct{}

func (failingCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, errors.New("offline")
}
