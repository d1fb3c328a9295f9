package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentos-io/agentos/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify AgentOS configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/agentos/config.yaml
Project-specific overrides can be placed in .agentos.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
			return nil
		case 1:
			return displayConfigKey(cfg, args[0])
		default:
			return setConfigKey(cfg, args[0], args[1])
		}
	},
}

func displayAllConfig(cfg *config.Config) {
	apiKeyDisplay := "(not set)"
	if cfg.OpenRouter.APIKey != "" {
		apiKeyDisplay = "****"
	}

	fmt.Printf("openrouter.api_key: %s\n", apiKeyDisplay)
	fmt.Printf("openrouter.base_url: %s\n", orDefault(cfg.OpenRouter.BaseURL, "(default)"))
	fmt.Printf("openrouter.referer: %s\n", cfg.OpenRouter.Referer)
	fmt.Printf("openrouter.title: %s\n", cfg.OpenRouter.Title)
	fmt.Printf("openrouter.allow_paid: %t\n", cfg.OpenRouter.AllowPaid)
	fmt.Printf("defaults.agent: %s\n", cfg.Defaults.Agent)
	fmt.Printf("defaults.project: %s\n", cfg.Defaults.Project)
	fmt.Printf("defaults.max_iterations: %d\n", cfg.Defaults.MaxIterations)
	fmt.Printf("paths.db: %s\n", cfg.DBPath())
	fmt.Printf("paths.agents_file: %s\n", cfg.Paths.AgentsFile)
	fmt.Printf("paths.debug_log: %s\n", cfg.Paths.DebugLog)
	fmt.Printf("knowledge.base_url: %s\n", cfg.Knowledge.BaseURL)

	fmt.Printf("\nUser config: %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Printf("Project config: %s\n", project)
	}
}

func displayConfigKey(cfg *config.Config, key string) error {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func setConfigKey(cfg *config.Config, key, value string) error {
	if err := setConfigValue(cfg, key, value); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "openrouter.api_key":
		if cfg.OpenRouter.APIKey == "" {
			return "(not set)", nil
		}
		return "****", nil
	case "openrouter.base_url":
		return cfg.OpenRouter.BaseURL, nil
	case "openrouter.referer":
		return cfg.OpenRouter.Referer, nil
	case "openrouter.title":
		return cfg.OpenRouter.Title, nil
	case "openrouter.allow_paid":
		return strconv.FormatBool(cfg.OpenRouter.AllowPaid), nil
	case "defaults.agent":
		return cfg.Defaults.Agent, nil
	case "defaults.project":
		return cfg.Defaults.Project, nil
	case "defaults.max_iterations":
		return strconv.Itoa(cfg.Defaults.MaxIterations), nil
	case "paths.db":
		return cfg.DBPath(), nil
	case "paths.agents_file":
		return cfg.Paths.AgentsFile, nil
	case "paths.debug_log":
		return cfg.Paths.DebugLog, nil
	case "knowledge.base_url":
		return cfg.Knowledge.BaseURL, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "openrouter.api_key":
		cfg.OpenRouter.APIKey = value
	case "openrouter.base_url":
		cfg.OpenRouter.BaseURL = value
	case "openrouter.referer":
		cfg.OpenRouter.Referer = value
	case "openrouter.title":
		cfg.OpenRouter.Title = value
	case "openrouter.allow_paid":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for allow_paid: %w", err)
		}
		cfg.OpenRouter.AllowPaid = b
	case "defaults.agent":
		cfg.Defaults.Agent = value
	case "defaults.project":
		cfg.Defaults.Project = value
	case "defaults.max_iterations":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_iterations: %w", err)
		}
		if n < 1 {
			return fmt.Errorf("max_iterations must be at least 1")
		}
		cfg.Defaults.MaxIterations = n
	case "paths.db":
		cfg.Paths.DB = value
	case "paths.agents_file":
		if value != "" {
			if _, err := os.Stat(value); err != nil {
				return fmt.Errorf("agents file: %w", err)
			}
		}
		cfg.Paths.AgentsFile = value
	case "paths.debug_log":
		cfg.Paths.DebugLog = value
	case "knowledge.base_url":
		cfg.Knowledge.BaseURL = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
