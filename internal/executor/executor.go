// Package executor runs one task as one agent: a bounded tool-calling
// loop over the model router. Each iteration the model either calls
// tools (observations are fed back) or answers in plain text, which
// ends the run. report_result ends the run immediately, even mid-turn.
package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/agentos-io/agentos/internal/queue"
	"github.com/agentos-io/agentos/internal/router"
	"github.com/agentos-io/agentos/pkg/models"
)

// DefaultMaxIterations bounds the tool loop when no override is given.
const DefaultMaxIterations = 10

const maxIterationsMessage = "Task incomplete - reached maximum iteration limit"

// Executor runs tasks as a specific agent.
type Executor struct {
	agent         models.Agent
	llm           *router.Client
	toolbox       *Toolbox
	maxIterations int
}

// Options configure an executor.
type Options struct {
	// MaxIterations bounds the tool loop; zero means the default.
	MaxIterations int
	// Store backs send_message delivery; nil disables messaging.
	Store *queue.Store
}

// New creates an executor for the given agent.
func New(agent models.Agent, llm *router.Client, opts Options) *Executor {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	return &Executor{
		agent:         agent,
		llm:           llm,
		toolbox:       NewToolbox(agent, opts.Store),
		maxIterations: maxIter,
	}
}

// Run executes the task text as this agent. taskType selects the model
// routing; empty means agentic. The returned result always carries a
// terminal status: completed, partial, failed, blocked, or
// max_iterations when the loop bound is hit.
func (e *Executor) Run(ctx context.Context, task, taskType string) models.TaskResult {
	if taskType == "" {
		taskType = "agentic"
	}

	result := models.TaskResult{Agent: e.agent.Name}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: buildSystemPrompt(e.agent, e.maxIterations, time.Now()),
		},
		{
			Role: openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("## Task\n%s\n\nBegin working on this task. Use tools as needed. "+
				"You MUST call report_result when done - this is mandatory.", task),
		},
	}
	tools := Definitions()

	for iteration := 1; iteration <= e.maxIterations; iteration++ {
		resp, model, err := e.llm.Complete(ctx, openai.ChatCompletionRequest{
			Messages:    messages,
			Tools:       tools,
			Temperature: 0.3,
		}, router.ChainOptions{TaskType: taskType, NeedsTools: true})
		if err != nil {
			result.Status = models.TaskStatusFailed
			result.Result = fmt.Sprintf("LLM error: %v", err)
			result.Iterations = iteration
			return result
		}
		result.ModelUsed = model.Name

		msg := resp.Choices[0].Message
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			// Plain text answer ends the run.
			result.Status = models.TaskStatusCompleted
			result.Result = msg.Content
			result.Iterations = iteration
			return result
		}

		for _, tc := range msg.ToolCalls {
			name := tc.Function.Name
			args := tc.Function.Arguments

			result.Log = append(result.Log, models.ToolCallLogEntry{
				Iteration: iteration,
				Tool:      name,
				Args:      json.RawMessage(args),
			})

			if name == toolReportResult {
				e.applyReport(&result, args)
				result.Iterations = iteration
				return result
			}

			observation, err := e.toolbox.Execute(ctx, name, args)
			if err != nil {
				observation = fmt.Sprintf("Tool error (%s): %v", name, err)
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: tc.ID,
				Content:    observation,
			})
		}
	}

	result.Status = models.TaskStatusMaxIterations
	result.Result = maxIterationsMessage
	result.Iterations = e.maxIterations
	return result
}

// applyReport folds a report_result payload into the run result. A
// malformed payload still counts as completion; the raw arguments
// become the result text.
func (e *Executor) applyReport(result *models.TaskResult, rawArgs string) {
	var report reportArgs
	if err := json.Unmarshal([]byte(rawArgs), &report); err != nil || report.Summary == "" && report.Status == "" {
		result.Status = models.TaskStatusCompleted
		result.Result = rawArgs
		return
	}

	status := models.TaskStatus(report.Status)
	switch status {
	case models.TaskStatusCompleted, models.TaskStatusPartial, models.TaskStatusFailed, models.TaskStatusBlocked:
		result.Status = status
	default:
		result.Status = models.TaskStatusCompleted
	}
	result.Result = report.Summary
	result.Details = report.Details
	result.Artifacts = report.Artifacts
}
