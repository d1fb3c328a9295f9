package models

// Plan is the output of directive decomposition: an ordered set of
// subtasks with dependencies, produced by the planner.
type Plan struct {
	// Summary is a brief description of the execution plan.
	Summary string `json:"plan_summary"`
	// Subtasks lists the units of work in declaration order.
	Subtasks []Subtask `json:"subtasks"`
	// Project scopes the plan to a project namespace, if any.
	Project string `json:"project,omitempty"`
}

// Subtask is a single planned unit of work. Subtasks carry local integer
// ids; they become Tasks (with opaque ids) when persisted to the queue.
type Subtask struct {
	// ID is the plan-local identifier, referenced by DependsOn.
	ID int `json:"id"`
	// Title is the short task title.
	Title string `json:"title"`
	// Description details what to do.
	Description string `json:"description"`
	// AssignedTo names the agent best suited for the subtask.
	AssignedTo string `json:"assigned_to"`
	// TaskType selects the model routing table.
	TaskType string `json:"task_type"`
	// Priority orders execution within a readiness wave.
	Priority Priority `json:"priority"`
	// DependsOn lists local ids of subtasks that must finish first.
	DependsOn []int `json:"depends_on"`
	// EstimatedMinutes is the planner's effort estimate.
	EstimatedMinutes int `json:"estimated_minutes"`
}
