package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var planJSON bool

var planCmd = &cobra.Command{
	Use:   "plan <directive>",
	Short: "Decompose a directive into subtasks without executing",
	Long: `Break a directive into subtasks with agent assignments,
dependencies, and priorities, then print the plan.

Nothing is executed or queued; use 'dispatch' or 'queue' for that.

Examples:
  agentos plan "Prepare a market analysis for healthcare AI"
  agentos plan --project acme-corp "Audit our contract templates"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Print the plan as JSON")
}

func runPlan(cmd *cobra.Command, args []string) error {
	directive := strings.Join(args, " ")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := a.orch.Plan(cmd.Context(), directive, a.project())
	if err != nil {
		return err
	}

	if planJSON {
		return printJSON(plan)
	}

	bold := color.New(color.Bold)
	bold.Printf("Plan: %s\n", plan.Summary)
	if plan.Project != "" && plan.Project != "default" {
		fmt.Printf("Project: %s\n", plan.Project)
	}
	fmt.Printf("Subtasks: %d\n\n", len(plan.Subtasks))

	for _, t := range plan.Subtasks {
		deps := ""
		if len(t.DependsOn) > 0 {
			deps = fmt.Sprintf(" (after: %v)", t.DependsOn)
		}
		fmt.Printf("  [%d] %-20s %s %s%s\n", t.ID, t.AssignedTo, priorityTag(string(t.Priority)), t.Title, deps)
	}
	return nil
}
