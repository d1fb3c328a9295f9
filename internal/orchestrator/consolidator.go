package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/agentos-io/agentos/internal/router"
	"github.com/agentos-io/agentos/pkg/models"
)

// resultExcerptLimit caps how much of each subtask result is fed into
// the consolidation prompt.
const resultExcerptLimit = 500

const consolidationPrompt = `You are the Chief Operating Officer. Consolidate these results from your team into a clear executive summary.

%sDirective: %s

Results:
%s

Provide:
1. Executive summary (2-3 sentences)
2. Key findings
3. Action items
4. Any issues or blockers`

// Consolidate merges subtask results into an executive summary. A
// consolidation failure never fails the pipeline; the summary degrades
// to an error note so the per-task results still reach the caller.
func (o *Orchestrator) Consolidate(ctx context.Context, directive string, results []models.TaskResult, project string) string {
	if len(results) == 0 {
		return "No results to consolidate."
	}

	var sections []string
	for _, r := range results {
		excerpt := r.Result
		if len(excerpt) > resultExcerptLimit {
			excerpt = excerpt[:resultExcerptLimit]
		}
		sections = append(sections, fmt.Sprintf(
			"### Task %s: %s (Agent: %s)\nStatus: %s\nResult: %s",
			r.TaskID, r.Title, r.Agent, r.Status, excerpt))
	}

	projectContext := ""
	if project != "" && project != "default" {
		projectContext = fmt.Sprintf("**Project:** %s\n\n", project)
	}
	system := fmt.Sprintf(consolidationPrompt, projectContext, directive, strings.Join(sections, "\n\n"))

	summary, _, err := o.llm.Chat(ctx, "Consolidate these results.", router.ChatOptions{
		TaskType: "summarization",
		System:   system,
	})
	if err != nil {
		o.logger.Log("consolidation failed: %v", err)
		return fmt.Sprintf("Consolidation unavailable (%v). See individual task results.", err)
	}
	return summary
}
