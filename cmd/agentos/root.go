package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentos-io/agentos/internal/config"
	"github.com/agentos-io/agentos/internal/orchestrator"
	"github.com/agentos-io/agentos/internal/queue"
	"github.com/agentos-io/agentos/internal/registry"
	"github.com/agentos-io/agentos/internal/router"
)

var flagProject string

var rootCmd = &cobra.Command{
	Use:   "agentos",
	Short: "Multi-agent directive orchestration engine",
	Long: `AgentOS turns high-level directives into executed work.

A directive is planned into subtasks, each assigned to a specialist
agent from the capability registry. Subtasks run as bounded
tool-calling loops over OpenRouter models with automatic fallback,
either inline (dispatch) or through a durable task queue (queue +
process). Results are consolidated into an executive summary.

Core capabilities:
- Decomposes directives into dependency-ordered subtasks
- Routes each task to the best model for its type, with failover
- Persists queued work in SQLite so it survives restarts
- Runs agents with shell, file, web, and messaging tools
- Consolidates per-agent results into one summary`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProject, "project", "", "Project namespace for all operations")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(queueCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(kbCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles the wired components behind every command.
type app struct {
	cfg   *config.Config
	store *queue.Store
	reg   *registry.Registry
	llm   *router.Client
	orch  *orchestrator.Orchestrator
}

// newApp loads configuration and wires the pipeline. The queue store is
// always opened and migrated; callers must Close it.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := queue.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	reg := registry.Default()
	if cfg.Paths.AgentsFile != "" {
		reg, err = registry.LoadFile(cfg.Paths.AgentsFile)
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	llm := router.NewClient(router.Options{
		APIKey:         cfg.OpenRouter.APIKey,
		BaseURL:        cfg.OpenRouter.BaseURL,
		Referer:        cfg.OpenRouter.Referer,
		Title:          cfg.OpenRouter.Title,
		PaidAuthorized: cfg.OpenRouter.AllowPaid,
	})

	logger, err := orchestrator.NewDebugLogger(cfg.Paths.DebugLog)
	if err != nil {
		store.Close()
		return nil, err
	}

	orch := orchestrator.New(llm, reg, store, orchestrator.Options{
		DefaultAgent:  cfg.Defaults.Agent,
		MaxIterations: cfg.Defaults.MaxIterations,
		Logger:        logger,
	})
	orch.Progress = func(format string, args ...any) {
		fmt.Printf(format+"\n", args...)
	}

	return &app{cfg: cfg, store: store, reg: reg, llm: llm, orch: orch}, nil
}

func (a *app) Close() {
	a.store.Close()
}

// project returns the effective project namespace: flag over config.
func (a *app) project() string {
	if flagProject != "" {
		return flagProject
	}
	return a.cfg.Defaults.Project
}
