package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentos-io/agentos/internal/queue"
	"github.com/agentos-io/agentos/pkg/models"
)

var (
	listStatus string
	listAgent  string
	listLimit  int
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in the queue",
	Long: `List queued tasks, newest first. Filters combine.

Examples:
  agentos list
  agentos list --status pending --agent tesla
  agentos list --project acme-corp --limit 10`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&listAgent, "agent", "", "Filter by assigned agent")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Max tasks to show (default 50)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print tasks as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	if listStatus != "" && !models.TaskStatus(listStatus).Valid() {
		return fmt.Errorf("invalid status %q", listStatus)
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	tasks, err := a.store.List(queue.ListFilter{
		Status:  models.TaskStatus(listStatus),
		Agent:   listAgent,
		Project: flagProject,
		Limit:   listLimit,
	})
	if err != nil {
		return err
	}

	if listJSON {
		return printJSON(tasks)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found.")
		return nil
	}

	for _, t := range tasks {
		project := ""
		if t.Project != "" && t.Project != "default" {
			project = fmt.Sprintf(" [%s]", t.Project)
		}
		fmt.Printf("%s  %-14s %s %-20s %s%s\n",
			t.ID, statusTag(t.Status), priorityTag(string(t.Priority)), t.AssignedTo, t.Title, project)
	}
	return nil
}
