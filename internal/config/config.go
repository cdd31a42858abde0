// Package config loads and validates the steward YAML configuration.
package config

import (
	"os"
	"path/filepath"
)

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Agent    AgentConfig    `yaml:"agent"`
	Store    StoreConfig    `yaml:"store"`
	Notify   NotifyConfig   `yaml:"notify"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// RateLimit throttles inbound chat requests per client address.
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is a token-bucket limit applied per client address.
// RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// ProviderConfig configures the model provider client. APIKey falls back to
// the ANTHROPIC_API_KEY environment variable when empty.
type ProviderConfig struct {
	APIKey      string  `yaml:"api_key"`
	APIBase     string  `yaml:"api_base"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// AgentConfig configures the orchestration loop.
type AgentConfig struct {
	// MaxRounds bounds the number of provider round-trips per request so a
	// provider that never stops requesting tools cannot hang a request.
	MaxRounds int `yaml:"max_rounds"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "memory" or "postgres"
	DSN    string `yaml:"dsn"`    // postgres only
}

// NotifyConfig configures optional outbound notifications.
type NotifyConfig struct {
	Slack SlackConfig `yaml:"slack"`
}

// SlackConfig posts created announcements to a Slack channel when both
// fields are set.
type SlackConfig struct {
	BotToken string `yaml:"bot_token"`
	Channel  string `yaml:"channel"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:     8790,
			LogLevel: "info",
			RateLimit: RateLimitConfig{
				RPS:   5,
				Burst: 10,
			},
		},
		Provider: ProviderConfig{
			APIBase:     "https://api.anthropic.com/v1",
			Model:       "claude-3-haiku-20240307",
			MaxTokens:   4096,
			Temperature: 1.0,
		},
		Agent: AgentConfig{
			MaxRounds: 10,
		},
		Store: StoreConfig{
			Driver: "memory",
		},
	}
}

// ConfigPath returns the configuration file path: the STEWARD_CONFIG
// environment variable if set, otherwise ~/.steward/config.yaml.
func ConfigPath() string {
	if p := os.Getenv("STEWARD_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".steward/config.yaml"
	}
	return filepath.Join(home, ".steward", "config.yaml")
}

// DataDir returns the steward data directory: ~/.steward.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".steward"
	}
	return filepath.Join(home, ".steward")
}
