package models

// AgentType distinguishes executives from their team members.
type AgentType string

const (
	// AgentTypeExecutive marks a top-level agent leading a team.
	AgentTypeExecutive AgentType = "executive"
	// AgentTypeSub marks a specialist reporting to an executive.
	AgentTypeSub AgentType = "sub"
)

// Agent is a named worker identity with declared capabilities and an
// execution context. Agents are immutable after registry load.
type Agent struct {
	// Name is the unique agent identifier.
	Name string `json:"name" yaml:"name"`
	// Capabilities lists the skill tags used by the planner for
	// assignment decisions.
	Capabilities []string `json:"capabilities" yaml:"capabilities"`
	// Home is the agent's working directory.
	Home string `json:"home" yaml:"home"`
	// Type is the agent's organizational role.
	Type AgentType `json:"type" yaml:"type"`
	// Team is the group the agent belongs to.
	Team string `json:"team" yaml:"team"`
}
