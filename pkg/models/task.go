package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPending indicates the task is queued and unclaimed.
	TaskStatusPending TaskStatus = "pending"
	// TaskStatusActive indicates the task has been claimed by an executor.
	TaskStatusActive TaskStatus = "active"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusPartial indicates the agent reported partial completion.
	TaskStatusPartial TaskStatus = "partial"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusBlocked indicates the agent reported it cannot proceed.
	TaskStatusBlocked TaskStatus = "blocked"
	// TaskStatusMaxIterations indicates the executor hit its iteration
	// budget before the agent reported a result. Distinct from failed:
	// the run itself was healthy, it just did not converge.
	TaskStatusMaxIterations TaskStatus = "max_iterations"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusActive, TaskStatusCompleted,
		TaskStatusPartial, TaskStatusFailed, TaskStatusBlocked,
		TaskStatusMaxIterations:
		return true
	default:
		return false
	}
}

// Terminal returns true if no further transitions are allowed from s.
func (s TaskStatus) Terminal() bool {
	return s.Valid() && s != TaskStatusPending && s != TaskStatusActive
}

// Priority orders tasks within an agent's queue.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Valid returns true if the priority is a known value.
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank returns the sort rank of the priority; lower sorts first.
// Unknown priorities rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// Common task types used for model routing. The set is open: planners may
// emit other values, which route through the default fallback chain.
const (
	TaskTypeCoding        = "coding"
	TaskTypeAnalysis      = "analysis"
	TaskTypeFinancial     = "financial"
	TaskTypeLegalAnalysis = "legal_analysis"
	TaskTypeMarketing     = "marketing"
	TaskTypeWriting       = "writing"
	TaskTypeResearch      = "research"
	TaskTypeReasoning     = "reasoning"
	TaskTypeSummarization = "summarization"
	TaskTypeAgentic       = "agentic"
	TaskTypeGeneral       = "general"
)

// Task represents a unit of work in the queue.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// CreatedAt is when the task was enqueued.
	CreatedAt time.Time `json:"created_at"`
	// AssignedTo is the name of the agent responsible for this task.
	AssignedTo string `json:"assigned_to"`
	// AssignedBy records who enqueued the task (default: the orchestrator).
	AssignedBy string `json:"assigned_by"`
	// TaskType selects the model routing table (coding, analysis, ...).
	TaskType string `json:"task_type"`
	// Priority orders claiming within an agent's queue.
	Priority Priority `json:"priority"`
	// Status is the current state of the task.
	Status TaskStatus `json:"status"`
	// Title is the short description of the task.
	Title string `json:"title"`
	// Description provides detailed information about the task.
	Description string `json:"description,omitempty"`
	// Project scopes the task to a project namespace.
	Project string `json:"project"`
	// ModelUsed records the model that executed the task, if any.
	ModelUsed string `json:"model_used,omitempty"`
	// Result holds the serialized execution result for terminal tasks.
	Result string `json:"result,omitempty"`
	// StartedAt is when the task was claimed, if it has been.
	StartedAt *time.Time `json:"started_at,omitempty"`
	// CompletedAt is when the task reached a terminal status.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
