package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stewardhq/steward/internal/agent"
	"github.com/stewardhq/steward/internal/config"
	"github.com/stewardhq/steward/internal/dependency"
	"github.com/stewardhq/steward/internal/schema"
)

var (
	chatOrgID   string
	chatUserID  string
	chatMessage string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with steward from the terminal",
	RunE:  runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatOrgID, "org", "o", "", "Organization ID (required)")
	chatCmd.Flags().StringVarP(&chatUserID, "user", "u", "", "User ID (required)")
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Send a single message and exit")
	_ = chatCmd.MarkFlagRequired("org")
	_ = chatCmd.MarkFlagRequired("user")
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
	":q":    true,
}

func runChat(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	setupLogging("warn")

	ctx := context.Background()
	container, err := dependency.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	orch := container.Orchestrator()

	if chatMessage != "" {
		transcript := schema.NewMessages()
		transcript.AddUser(chatMessage)
		return sendOnce(ctx, orch, transcript)
	}

	return runInteractive(ctx, orch)
}

// sendOnce submits one transcript and prints the reply.
func sendOnce(ctx context.Context, orch *agent.Orchestrator, transcript schema.Messages) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	fmt.Fprintln(os.Stderr, "  ↳ thinking...")
	reply, err := orch.Run(ctx, transcript, chatOrgID, chatUserID)
	if err != nil {
		return err
	}
	fmt.Println(reply.Message)
	return nil
}

// runInteractive starts the REPL loop. The transcript is held client-side and
// grows with each exchange, so confirmations work across turns.
func runInteractive(ctx context.Context, orch *agent.Orchestrator) error {
	fmt.Printf("%s Interactive mode (type 'exit' or Ctrl+C to quit)\n\n", logo)

	transcript := schema.NewMessages()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		transcript.AddUser(line)

		runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		reply, err := orch.Run(runCtx, transcript, chatOrgID, chatUserID)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		transcript.AddAssistant(&reply.Message, nil)
		fmt.Printf("\nSteward: %s\n\n", reply.Message)
	}
}
