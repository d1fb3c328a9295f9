package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentos-io/agentos/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show queue counts and recent dispatches",
	Long: `Display the state of the task queue and recent dispatch
activity: task counts per status and the latest directives.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	counts, err := a.store.Counts()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	bold.Println("Task Queue")
	if len(counts) == 0 {
		fmt.Println("  (empty)")
	}
	order := []models.TaskStatus{
		models.TaskStatusPending, models.TaskStatusActive, models.TaskStatusCompleted,
		models.TaskStatusPartial, models.TaskStatusFailed, models.TaskStatusBlocked,
		models.TaskStatusMaxIterations,
	}
	for _, status := range order {
		if n, ok := counts[status]; ok {
			fmt.Printf("  %-16s %d\n", statusTag(status), n)
		}
	}

	dispatches, err := a.store.ListDispatches(flagProject, 5)
	if err != nil {
		return err
	}
	if len(dispatches) > 0 {
		fmt.Println()
		bold.Println("Recent Dispatches")
		for _, d := range dispatches {
			project := ""
			if d.Project != "" && d.Project != "default" {
				project = fmt.Sprintf(" [%s]", d.Project)
			}
			fmt.Printf("  %s%s %s (%d subtasks)\n",
				formatAge(d.DispatchedAt), project, d.Directive, d.SubtaskCount)
		}
	}
	return nil
}
