package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stewardhq/steward/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show steward status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := cfgFile
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}

	fmt.Printf("%s steward Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:   %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	keyMark := "✗ not set"
	if cfg.Provider.APIKey != "" {
		keyMark = "✓ configured"
	}
	fmt.Printf("API key:  %s\n", keyMark)
	fmt.Printf("Model:    %s\n", cfg.Provider.Model)
	fmt.Printf("Store:    %s\n", cfg.Store.Driver)
	fmt.Printf("Port:     %d\n", cfg.Server.Port)

	slack := cfg.Notify.Slack
	if slack.BotToken != "" && slack.Channel != "" {
		fmt.Printf("Slack:    ✓ posting to %s\n", slack.Channel)
	} else {
		fmt.Println("Slack:    ✗ not configured")
	}
	return nil
}
