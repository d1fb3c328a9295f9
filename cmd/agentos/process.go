package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentos-io/agentos/internal/orchestrator"
)

var processAll bool

var processCmd = &cobra.Command{
	Use:   "process <agent>",
	Short: "Claim and execute the agent's next pending task",
	Long: `Claim the highest-priority pending task assigned to the agent,
execute it, and record the outcome in the queue.

By default one task is processed; --all drains the agent's queue.

Examples:
  agentos process tesla
  agentos process backend --all
  agentos process warren --project acme-corp`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processAll, "all", false, "Process tasks until the queue is empty")
}

func runProcess(cmd *cobra.Command, args []string) error {
	agent := args[0]

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	processed := 0
	for {
		task, result, err := a.orch.ProcessNext(cmd.Context(), agent, a.project())
		if err != nil {
			if orchestrator.IsQueueEmpty(err) {
				if processed == 0 {
					fmt.Printf("No pending tasks for %s.\n", agent)
				}
				return nil
			}
			return err
		}
		processed++

		fmt.Printf("[%s] %s %s (%d iterations, model: %s)\n",
			task.ID, statusTag(result.Status), task.Title, result.Iterations, result.ModelUsed)
		if result.Result != "" {
			fmt.Printf("  %s\n", result.Result)
		}

		if !processAll {
			return nil
		}
	}
}
