package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

var validLogLevels = []string{"debug", "info", "warn", "error"}
var validStoreDrivers = []string{"memory", "postgres"}

// Load reads the YAML configuration file at path and returns a validated
// Config. If path is empty, ConfigPath() is used. A missing file yields
// DefaultConfig().
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnv(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, fills defaults for omitted
// fields, and validates the result. Useful in tests where configs are
// constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	applyEnv(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that cfg contains a coherent set of values. It returns a
// joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", cfg.Server.Port))
	}
	if cfg.Server.LogLevel != "" && !slices.Contains(validLogLevels, cfg.Server.LogLevel) {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if !slices.Contains(validStoreDrivers, cfg.Store.Driver) {
		errs = append(errs, fmt.Errorf("store.driver %q is invalid; valid values: memory, postgres", cfg.Store.Driver))
	}
	if cfg.Store.Driver == "postgres" && cfg.Store.DSN == "" {
		errs = append(errs, errors.New("store.dsn is required when store.driver is postgres"))
	}
	if cfg.Provider.Model == "" {
		errs = append(errs, errors.New("provider.model must not be empty"))
	}
	if cfg.Provider.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("provider.max_tokens %d must be positive", cfg.Provider.MaxTokens))
	}
	if cfg.Agent.MaxRounds <= 0 {
		errs = append(errs, fmt.Errorf("agent.max_rounds %d must be positive", cfg.Agent.MaxRounds))
	}
	if (cfg.Notify.Slack.BotToken == "") != (cfg.Notify.Slack.Channel == "") {
		errs = append(errs, errors.New("notify.slack requires both bot_token and channel"))
	}

	return errors.Join(errs...)
}

// applyEnv fills credentials from the environment when the file omits them.
func applyEnv(cfg *Config) {
	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Store.DSN == "" {
		cfg.Store.DSN = os.Getenv("STEWARD_DATABASE_URL")
	}
}
