package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentos-io/agentos/internal/config"
	"github.com/agentos-io/agentos/internal/knowledge"
	"github.com/agentos-io/agentos/internal/orchestrator"
)

var (
	kbAgent string
	kbLimit int
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Store and query the shared knowledge base",
	Long: `Interact with the shared knowledge base service, scoped to the
current project namespace. Requires knowledge.base_url in the config
or the AGENTOS_KNOWLEDGE_URL environment variable.`,
}

var kbStoreCmd = &cobra.Command{
	Use:   "store <topic> <content>",
	Short: "Store a knowledge entry",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runKBStore,
}

var kbQueryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Query knowledge entries",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKBQuery,
}

func init() {
	kbStoreCmd.Flags().StringVar(&kbAgent, "agent", orchestrator.CoordinatorName, "Agent to attribute the entry to")
	kbQueryCmd.Flags().IntVar(&kbLimit, "limit", 0, "Max entries to return")
	kbCmd.AddCommand(kbStoreCmd)
	kbCmd.AddCommand(kbQueryCmd)
}

// kbClient builds a knowledge client from configuration.
func kbClient() (*knowledge.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Knowledge.BaseURL == "" {
		return nil, fmt.Errorf("no knowledge base configured: set knowledge.base_url or AGENTOS_KNOWLEDGE_URL")
	}
	project := flagProject
	if project == "" {
		project = cfg.Defaults.Project
	}
	return knowledge.NewClient(cfg.Knowledge.BaseURL, project), nil
}

func runKBStore(cmd *cobra.Command, args []string) error {
	client, err := kbClient()
	if err != nil {
		return err
	}

	topic := args[0]
	content := strings.Join(args[1:], " ")
	id, err := client.Store(cmd.Context(), kbAgent, topic, content)
	if err != nil {
		return err
	}
	fmt.Printf("Stored entry %s under topic %q\n", id, topic)
	return nil
}

func runKBQuery(cmd *cobra.Command, args []string) error {
	client, err := kbClient()
	if err != nil {
		return err
	}

	entries, err := client.Query(cmd.Context(), strings.Join(args, " "), kbLimit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No matching entries.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("[%s] %s (%s)\n  %s\n", e.ID, e.Topic, e.Agent, e.Content)
	}
	return nil
}
