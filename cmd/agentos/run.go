package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentos-io/agentos/internal/executor"
)

var (
	runTaskType string
	runJSON     bool
)

var runCmd = &cobra.Command{
	Use:   "run <agent> <task>",
	Short: "Execute a task directly as one agent",
	Long: `Run a single task as the named agent, bypassing planning and
the queue. Useful for targeted work and for exercising one agent.

Examples:
  agentos run tesla "Summarize open infrastructure risks"
  agentos run content-creator --type writing "Draft the release notes"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runTaskType, "type", "", "Task type for model selection (default agentic)")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print the full result as JSON")
}

func runRun(cmd *cobra.Command, args []string) error {
	agentName := args[0]
	task := strings.Join(args[1:], " ")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	agent, err := a.reg.Get(agentName)
	if err != nil {
		return err
	}

	exec := executor.New(agent, a.llm, executor.Options{
		MaxIterations: a.cfg.Defaults.MaxIterations,
		Store:         a.store,
	})
	result := exec.Run(cmd.Context(), task, runTaskType)

	if runJSON {
		return printJSON(result)
	}

	fmt.Printf("%s %s (%d iterations, model: %s)\n",
		statusTag(result.Status), agentName, result.Iterations, result.ModelUsed)
	fmt.Println(result.Result)
	if result.Details != "" {
		fmt.Printf("\n%s\n", result.Details)
	}
	if len(result.Artifacts) > 0 {
		fmt.Printf("\nArtifacts: %s\n", strings.Join(result.Artifacts, ", "))
	}
	return nil
}
