package planner

import "fmt"

// planningPrompt is the system prompt for directive decomposition. The
// response shape it demands matches ParsePlan.
const planningPrompt = `You are the Chief Operating Officer of a multi-agent AI organization.
You must decompose a directive into concrete subtasks and assign each to the most appropriate agent.

%sAvailable agents and their capabilities:
%s

RULES:
1. Break the directive into 2-8 specific, actionable subtasks
2. Assign each subtask to ONE agent best suited for it
3. Identify dependencies (which tasks must finish before others can start)
4. Set priority: CRITICAL > HIGH > MEDIUM > LOW
5. Set task_type for model selection: coding, analysis, financial, legal_analysis, marketing, writing, research, general

Respond in EXACT JSON format:
{
  "plan_summary": "Brief description of the execution plan",
  "subtasks": [
    {
      "id": 1,
      "title": "Short task title",
      "description": "Detailed description of what to do",
      "assigned_to": "agent_name",
      "task_type": "type",
      "priority": "HIGH",
      "depends_on": [],
      "estimated_minutes": 5
    }
  ]
}`

// buildPlanningPrompt renders the planning system prompt. The project
// context block is omitted for the default project.
func buildPlanningPrompt(agents, project string) string {
	projectContext := ""
	if project != "" && project != "default" {
		projectContext = fmt.Sprintf(
			"**Project Context:** You are planning within the '%s' project. All tasks should be scoped to this project.\n\n",
			project)
	}
	return fmt.Sprintf(planningPrompt, projectContext, agents)
}
