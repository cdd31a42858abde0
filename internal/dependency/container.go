// Package dependency wires core steward services using go.uber.org/dig.
package dependency

import (
	"context"
	"fmt"

	"go.uber.org/dig"

	"github.com/stewardhq/steward/internal/agent"
	"github.com/stewardhq/steward/internal/config"
	"github.com/stewardhq/steward/internal/notify"
	"github.com/stewardhq/steward/internal/provider"
	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/server"
	"github.com/stewardhq/steward/internal/store"
	"github.com/stewardhq/steward/internal/tools"
)

// Container holds the resolved core service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	provider schema.LLMProvider
	store    store.Store
	orch     *agent.Orchestrator
	srv      *server.Server
}

func (c *Container) Provider() schema.LLMProvider      { return c.provider }
func (c *Container) Store() store.Store                { return c.store }
func (c *Container) Orchestrator() *agent.Orchestrator { return c.orch }
func (c *Container) Server() *server.Server            { return c.srv }

// Close releases the container's backing resources.
func (c *Container) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// New builds and wires all core services from cfg. ctx bounds the store
// connection attempt.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(func() context.Context { return ctx }); err != nil {
		return nil, err
	}
	if err := d.Provide(newProvider); err != nil {
		return nil, err
	}
	if err := d.Provide(newStore); err != nil {
		return nil, err
	}
	if err := d.Provide(newNotifier); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}
	if err := d.Provide(newOrchestrator); err != nil {
		return nil, err
	}
	if err := d.Provide(newServer); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(
		p schema.LLMProvider,
		st store.Store,
		orch *agent.Orchestrator,
		srv *server.Server,
	) {
		result = &Container{provider: p, store: st, orch: orch, srv: srv}
	})
	return result, err
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	if cfg.Provider.APIKey == "" {
		return nil, fmt.Errorf("no provider API key configured — set ANTHROPIC_API_KEY or edit %s", config.ConfigPath())
	}
	return provider.NewAnthropicProvider(cfg.Provider.APIKey, cfg.Provider.APIBase, cfg.Provider.Model), nil
}

func newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.Store.DSN)
	default:
		return store.NewMemoryStore(), nil
	}
}

// newNotifier returns nil when Slack is not configured; the registry treats a
// nil notifier as "no mirroring".
func newNotifier(cfg *config.Config) tools.AnnouncementNotifier {
	slack := cfg.Notify.Slack
	if slack.BotToken == "" || slack.Channel == "" {
		return nil
	}
	return notify.NewSlackNotifier(slack.BotToken, slack.Channel)
}

func newRegistry(st store.Store, notifier tools.AnnouncementNotifier) *tools.Registry {
	return tools.NewDefaultRegistry(st, notifier)
}

func newOrchestrator(p schema.LLMProvider, reg *tools.Registry, cfg *config.Config) *agent.Orchestrator {
	return agent.NewOrchestrator(p, reg, agent.NewPromptContext(), agent.Options{
		Model:       cfg.Provider.Model,
		MaxTokens:   cfg.Provider.MaxTokens,
		Temperature: cfg.Provider.Temperature,
		MaxRounds:   cfg.Agent.MaxRounds,
	})
}

func newServer(orch *agent.Orchestrator, st store.Store, cfg *config.Config) *server.Server {
	limiter := server.NewVisitorLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst)
	return server.New(orch, st, limiter)
}
