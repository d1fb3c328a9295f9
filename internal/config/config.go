// Package config handles configuration loading and management for AgentOS.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/agentos-io/agentos/internal/queue"
)

// Config holds all configuration for AgentOS.
type Config struct {
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Defaults   DefaultsConfig   `mapstructure:"defaults"`
	Paths      PathsConfig      `mapstructure:"paths"`
	Knowledge  KnowledgeConfig  `mapstructure:"knowledge"`
}

// OpenRouterConfig holds OpenRouter API settings.
type OpenRouterConfig struct {
	APIKey string `mapstructure:"api_key"`
	// BaseURL overrides the API endpoint; empty means the default.
	BaseURL string `mapstructure:"base_url"`
	// Referer and Title populate the OpenRouter attribution headers.
	Referer string `mapstructure:"referer"`
	Title   string `mapstructure:"title"`
	// AllowPaid admits paid-tier models into fallback chains.
	AllowPaid bool `mapstructure:"allow_paid"`
}

// DefaultsConfig holds default values for dispatch operations.
type DefaultsConfig struct {
	// Agent is the assignee of last resort for degraded plans.
	Agent string `mapstructure:"agent"`
	// Project scopes operations when no --project flag is given.
	Project string `mapstructure:"project"`
	// MaxIterations bounds each agent's tool loop.
	MaxIterations int `mapstructure:"max_iterations"`
}

// PathsConfig holds filesystem locations.
type PathsConfig struct {
	// DB is the task queue database path; empty means the XDG default.
	DB string `mapstructure:"db"`
	// AgentsFile is an optional YAML registry override.
	AgentsFile string `mapstructure:"agents_file"`
	// DebugLog enables the dispatch debug log when non-empty.
	DebugLog string `mapstructure:"debug_log"`
}

// KnowledgeConfig holds knowledge base service settings.
type KnowledgeConfig struct {
	// BaseURL of the knowledge service; empty disables the kb commands.
	BaseURL string `mapstructure:"base_url"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (OPENROUTER_API_KEY)
// 2. Project config (.agentos.yaml in current directory or parent)
// 3. User config (~/.config/agentos/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	v.BindEnv("knowledge.base_url", "AGENTOS_KNOWLEDGE_URL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references
	cfg.OpenRouter.APIKey = expandEnv(cfg.OpenRouter.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.OpenRouter.APIKey = expandEnv(cfg.OpenRouter.APIKey)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("openrouter.api_key", cfg.OpenRouter.APIKey)
	v.Set("openrouter.base_url", cfg.OpenRouter.BaseURL)
	v.Set("openrouter.referer", cfg.OpenRouter.Referer)
	v.Set("openrouter.title", cfg.OpenRouter.Title)
	v.Set("openrouter.allow_paid", cfg.OpenRouter.AllowPaid)
	v.Set("defaults.agent", cfg.Defaults.Agent)
	v.Set("defaults.project", cfg.Defaults.Project)
	v.Set("defaults.max_iterations", cfg.Defaults.MaxIterations)
	v.Set("paths.db", cfg.Paths.DB)
	v.Set("paths.agents_file", cfg.Paths.AgentsFile)
	v.Set("paths.debug_log", cfg.Paths.DebugLog)
	v.Set("knowledge.base_url", cfg.Knowledge.BaseURL)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// DBPath returns the effective queue database path.
func (c *Config) DBPath() string {
	if c.Paths.DB != "" {
		return expandEnv(c.Paths.DB)
	}
	return queue.DefaultPath()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.base_url", "")
	v.SetDefault("openrouter.referer", "")
	v.SetDefault("openrouter.title", "AgentOS")
	v.SetDefault("openrouter.allow_paid", false)

	v.SetDefault("defaults.agent", "tesla")
	v.SetDefault("defaults.project", "default")
	v.SetDefault("defaults.max_iterations", 10)

	v.SetDefault("paths.db", "")
	v.SetDefault("paths.agents_file", "")
	v.SetDefault("paths.debug_log", "")

	v.SetDefault("knowledge.base_url", "")
}

// getUserConfigDir returns the XDG config directory for AgentOS.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "agentos")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "agentos")
	}
	return filepath.Join(home, ".config", "agentos")
}

// findProjectConfig searches for .agentos.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".agentos.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		OpenRouter: OpenRouterConfig{
			Title: "AgentOS",
		},
		Defaults: DefaultsConfig{
			Agent:         "tesla",
			Project:       "default",
			MaxIterations: 10,
		},
	}
}
