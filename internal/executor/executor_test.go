package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/agentos-io/agentos/internal/router"
	"github.com/agentos-io/agentos/pkg/models"
)

// scriptedCompleter replays a fixed sequence of assistant messages,
// repeating the last one when the script runs out.
type scriptedCompleter struct {
	script []openai.ChatCompletionMessage
	call   int
}

func (s *scriptedCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	idx := s.call
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	s.call++
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: s.script[idx]}},
	}, nil
}

func toolCall(id, name, args string) openai.ToolCall {
	return openai.ToolCall{
		ID:   id,
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func testAgent(t *testing.T) models.Agent {
	t.Helper()
	return models.Agent{
		Name: "tesla",
		Home: t.TempDir(),
		Type: models.AgentTypeExecutive,
		Team: "tesla",
	}
}

func newTestExecutor(t *testing.T, script []openai.ChatCompletionMessage, opts Options) *Executor {
	t.Helper()
	llm := router.NewClientWithTransport(&scriptedCompleter{script: script}, nil, false)
	return New(testAgent(t), llm, opts)
}

func TestRunPlainTextCompletes(t *testing.T) {
	e := newTestExecutor(t, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleAssistant, Content: "All done, nothing to do."},
	}, Options{})

	result := e.Run(context.Background(), "Say hello", "")
	if result.Status != models.TaskStatusCompleted {
		t.Errorf("status = %s, want completed", result.Status)
	}
	if result.Result != "All done, nothing to do." {
		t.Errorf("result = %q", result.Result)
	}
	if result.Iterations != 1 {
		t.Errorf("iterations = %d, want 1", result.Iterations)
	}
}

func TestRunToolThenReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes", "out.txt")
	writeArgs := fmt.Sprintf(`{"path": %q, "content": "hello"}`, path)

	e := newTestExecutor(t, []openai.ChatCompletionMessage{
		{
			Role:      openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{toolCall("c1", "write_file", writeArgs)},
		},
		{
			Role: openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{toolCall("c2", "report_result",
				fmt.Sprintf(`{"status": "completed", "summary": "wrote the file", "details": "one file", "artifacts": [%q]}`, path))},
		},
	}, Options{})

	result := e.Run(context.Background(), "Write a note", "coding")
	if result.Status != models.TaskStatusCompleted {
		t.Fatalf("status = %s, want completed", result.Status)
	}
	if result.Result != "wrote the file" || result.Details != "one file" {
		t.Errorf("report not applied: %+v", result)
	}
	if len(result.Artifacts) != 1 || result.Artifacts[0] != path {
		t.Errorf("artifacts = %v", result.Artifacts)
	}
	if result.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", result.Iterations)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("tool did not write the file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("file content = %q", data)
	}

	if len(result.Log) != 2 {
		t.Fatalf("log has %d entries, want 2", len(result.Log))
	}
	if result.Log[0].Tool != "write_file" || result.Log[1].Tool != "report_result" {
		t.Errorf("log = %+v", result.Log)
	}
}

func TestRunReportStatusesPropagate(t *testing.T) {
	for _, status := range []string{"partial", "failed", "blocked"} {
		t.Run(status, func(t *testing.T) {
			e := newTestExecutor(t, []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleAssistant,
					ToolCalls: []openai.ToolCall{toolCall("c1", "report_result",
						fmt.Sprintf(`{"status": %q, "summary": "report"}`, status))},
				},
			}, Options{})

			result := e.Run(context.Background(), "task", "")
			if string(result.Status) != status {
				t.Errorf("status = %s, want %s", result.Status, status)
			}
		})
	}
}

func TestRunMaxIterations(t *testing.T) {
	// The model never reports; every turn asks for another shell run.
	e := newTestExecutor(t, []openai.ChatCompletionMessage{
		{
			Role:      openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{toolCall("c1", "run_shell", `{"command": "true"}`)},
		},
	}, Options{MaxIterations: 3})

	result := e.Run(context.Background(), "Loop forever", "")
	if result.Status != models.TaskStatusMaxIterations {
		t.Errorf("status = %s, want max_iterations", result.Status)
	}
	if result.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", result.Iterations)
	}
	if len(result.Log) != 3 {
		t.Errorf("log has %d entries, want 3", len(result.Log))
	}
}

func TestRunUnknownToolBecomesObservation(t *testing.T) {
	e := newTestExecutor(t, []openai.ChatCompletionMessage{
		{
			Role:      openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{toolCall("c1", "launch_rocket", `{}`)},
		},
		{Role: openai.ChatMessageRoleAssistant, Content: "Understood, wrapping up."},
	}, Options{})

	result := e.Run(context.Background(), "task", "")
	// The run must survive the unknown tool and finish on the next turn.
	if result.Status != models.TaskStatusCompleted {
		t.Errorf("status = %s, want completed", result.Status)
	}
	if result.Iterations != 2 {
		t.Errorf("iterations = %d, want 2", result.Iterations)
	}
}

func TestRunTransportFailure(t *testing.T) {
	llm := router.NewClientWithTransport(failingCompleter{}, nil, false)
	e := New(testAgent(t), llm, Options{})

	result := e.Run(context.Background(), "task", "")
	if result.Status != models.TaskStatusFailed {
		t.Errorf("status = %s, want failed", result.Status)
	}
	if !strings.Contains(result.Result, "LLM error") {
		t.Errorf("result = %q", result.Result)
	}
}

type failingCompleter struct{}

func (failingCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, fmt.Errorf("no backend")
}

func TestApplyReportMalformedPayload(t *testing.T) {
	e := newTestExecutor(t, nil, Options{})

	var result models.TaskResult
	e.applyReport(&result, `not json at all`)
	if result.Status != models.TaskStatusCompleted {
		t.Errorf("status = %s, want completed", result.Status)
	}
	if result.Result != "not json at all" {
		t.Errorf("result = %q", result.Result)
	}
}
