package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/agentos-io/agentos/internal/router"
	"github.com/agentos-io/agentos/pkg/models"
)

var modelsTier string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model catalog",
	Long: `List the models available for routing, in fallback order.

Examples:
  agentos models
  agentos models --tier free`,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().StringVar(&modelsTier, "tier", "", "Filter by tier (free|paid)")
}

func runModels(cmd *cobra.Command, args []string) error {
	tier := models.CostTier(modelsTier)
	if tier != "" && tier != models.TierFree && tier != models.TierPaid {
		return fmt.Errorf("invalid tier %q", modelsTier)
	}

	catalog := router.DefaultCatalog()
	bold := color.New(color.Bold)
	bold.Printf("%-42s %-10s %-5s %-9s %s\n", "MODEL", "CONTEXT", "TOOLS", "TIER", "BEST FOR")

	for _, m := range catalog.List(tier) {
		tools := "no"
		if m.SupportsTools {
			tools = "yes"
		}
		tierTag := string(m.Tier)
		if m.Tier == models.TierPaid {
			tierTag = color.YellowString("paid")
		}
		fmt.Printf("%-42s %-10d %-5s %-9s %v\n", m.ID, m.ContextSize, tools, tierTag, m.TaskAffinity)
	}
	return nil
}
