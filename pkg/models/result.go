package models

import "encoding/json"

// ToolCallLogEntry records one tool execution during an agent run.
// The log is append-only and owned by the run that produced it.
type ToolCallLogEntry struct {
	// Iteration is the 1-based THINK cycle the call occurred in.
	Iteration int `json:"iteration"`
	// Tool is the tool name.
	Tool string `json:"tool"`
	// Args holds the raw arguments the model supplied.
	Args json.RawMessage `json:"args"`
}

// TaskResult is the outcome of one agent executor run.
type TaskResult struct {
	// Agent is the name of the agent that executed the task.
	Agent string `json:"agent"`
	// TaskID links back to the queue record, when the run came from one.
	TaskID string `json:"task_id,omitempty"`
	// Title is the task title, when known.
	Title string `json:"title,omitempty"`
	// Status is the terminal status of the run.
	Status TaskStatus `json:"status"`
	// Result is the agent's summary or final answer.
	Result string `json:"result"`
	// Details holds the agent's detailed findings, if reported.
	Details string `json:"details,omitempty"`
	// Artifacts lists files the agent created or modified.
	Artifacts []string `json:"artifacts,omitempty"`
	// Iterations is the number of THINK cycles consumed.
	Iterations int `json:"iterations"`
	// ModelUsed is the display name of the model that served the run.
	ModelUsed string `json:"model_used"`
	// Log is the audit trail of tool calls made during the run.
	Log []ToolCallLogEntry `json:"log,omitempty"`
}
