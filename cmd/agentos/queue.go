package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue <directive>",
	Short: "Plan a directive and queue its subtasks for later",
	Long: `Decompose a directive and enqueue the subtasks in the durable
task queue instead of executing them inline. Queued tasks survive
restarts and are picked up by 'agentos process <agent>'.

Examples:
  agentos queue "Refresh the pricing page copy"
  agentos queue --project acme-corp "Review vendor contracts"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQueue,
}

func runQueue(cmd *cobra.Command, args []string) error {
	directive := strings.Join(args, " ")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.orch.QueueDirective(cmd.Context(), directive, a.project())
	if err != nil {
		return err
	}

	fmt.Printf("\nQueued %d of %d subtasks (plan: %s)\n",
		len(out.Tasks), len(out.Plan.Subtasks), out.Plan.Summary)
	for _, skipped := range out.Skipped {
		fmt.Printf("  Skipped %s\n", skipped)
	}
	return nil
}
