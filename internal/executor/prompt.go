package executor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentos-io/agentos/pkg/models"
)

// loadPersona reads the agent's persona from its home directory. A
// missing or unreadable persona file degrades to a generic identity
// rather than failing the run.
func loadPersona(agent models.Agent) string {
	path := filepath.Join(agent.Home, "member", "prompt.md")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("You are %s, an agent in a multi-agent organization.", agent.Name)
	}
	return string(data)
}

// buildSystemPrompt composes the persona with the execution contract:
// the environment the agent runs in and the rules of the tool loop.
func buildSystemPrompt(agent models.Agent, maxIterations int, now time.Time) string {
	return fmt.Sprintf(`%s

## Execution Context
You are executing a task within the AgentOS multi-agent system.
- Your home directory: %s
- Your team: %s
- Current time: %s

## Instructions
1. Analyze the task carefully
2. Use tools to gather information and take actions
3. When done, call report_result with your findings
4. Be thorough but efficient — minimize unnecessary tool calls
5. IMPORTANT: You MUST call report_result when finished. This is how your work gets recorded.
6. If you have enough information, stop gathering and call report_result immediately.
7. Maximum %d tool calls allowed — plan accordingly.`,
		loadPersona(agent), agent.Home, agent.Team,
		now.UTC().Format(time.RFC3339), maxIterations)
}
