package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	dispatchDryRun bool
	dispatchJSON   bool
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch <directive>",
	Short: "Plan, execute, and consolidate a directive",
	Long: `Run the full pipeline for a directive: decompose it into
subtasks, execute each as its assigned agent (honoring dependencies),
and consolidate the results into an executive summary.

Examples:
  agentos dispatch "Prepare Q2 analysis"
  agentos dispatch --project acme-corp "Set up CI for the shared repo"
  agentos dispatch --dry-run "Draft the launch newsletter"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDispatch,
}

func init() {
	dispatchCmd.Flags().BoolVar(&dispatchDryRun, "dry-run", false, "Plan only; execute nothing")
	dispatchCmd.Flags().BoolVar(&dispatchJSON, "json", false, "Print the full result as JSON")
}

func runDispatch(cmd *cobra.Command, args []string) error {
	directive := strings.Join(args, " ")

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	bold := color.New(color.Bold)
	bold.Printf("DIRECTIVE: %s\n\n", directive)

	out, err := a.orch.Dispatch(cmd.Context(), directive, a.project(), dispatchDryRun)
	if err != nil {
		return err
	}

	if dispatchJSON {
		return printJSON(out)
	}

	fmt.Println()
	bold.Println("SUMMARY")
	fmt.Println(out.Summary)
	if !dispatchDryRun {
		fmt.Printf("\nProject: %s | Agents: %s | Iterations: %d\n",
			out.Project, strings.Join(out.AgentsUsed, ", "), out.TotalIterations)
	}
	return nil
}
