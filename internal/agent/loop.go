package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/shared/llmutils"
	"github.com/stewardhq/steward/internal/tools"
)

// fallbackReply is returned when the model produces no usable text.
const fallbackReply = "I apologize, but I couldn't generate a response."

// writeRefusal is surfaced as a tool result when a write tool is requested
// before the user has confirmed the summarized action. The loop keeps running
// so the model can relay the refusal conversationally.
const writeRefusal = `{"error": "This action changes organization data and the user has not confirmed it yet. Summarize what you are about to do and ask for confirmation first."}`

// Options bound a single orchestration run.
type Options struct {
	Model       string
	MaxTokens   int
	Temperature float64
	MaxRounds   int
}

// Reply is the outcome of one orchestration run.
type Reply struct {
	Message   string
	Usage     schema.Usage
	ToolsUsed []string
	Rounds    int
}

// Orchestrator drives the model ↔ tool iteration loop for one chat request.
// It is stateless across requests; the transcript is owned by the caller.
type Orchestrator struct {
	provider schema.LLMProvider
	registry *tools.Registry
	prompts  *PromptContext
	opts     Options
}

// NewOrchestrator wires an Orchestrator over the given provider and catalogue.
func NewOrchestrator(provider schema.LLMProvider, registry *tools.Registry, prompts *PromptContext, opts Options) *Orchestrator {
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = 10
	}
	if opts.Model == "" {
		opts.Model = provider.DefaultModel()
	}
	return &Orchestrator{provider: provider, registry: registry, prompts: prompts, opts: opts}
}

// Run executes the full loop: submit the transcript, execute any requested
// tool calls, feed the results back, and repeat until the model answers in
// plain text or the round ceiling is hit. Provider errors terminate the run;
// tool errors never do.
func (o *Orchestrator) Run(ctx context.Context, transcript schema.Messages, orgID, userID string) (Reply, error) {
	conversation := schema.NewMessages()
	conversation.AddSystem(o.prompts.BuildSystemPrompt(orgID, userID))
	conversation.Append(transcript)

	// Confirmation is judged once, against the message that started this run.
	// A write requested in any round of this run executes only if that message
	// was an affirmative.
	confirmed := IsAffirmative(transcript.LastUserText())

	catalogue := o.registry.AllTools()
	defs := catalogue.Definitions()

	var reply Reply
	for reply.Rounds = 1; reply.Rounds <= o.opts.MaxRounds; reply.Rounds++ {
		resp, err := o.provider.Chat(ctx,
			conversation,
			defs,
			schema.NewChatOptions(o.opts.Model, o.opts.MaxTokens, o.opts.Temperature),
		)
		if err != nil {
			return Reply{}, err
		}
		reply.Usage = resp.Usage

		if !resp.HasToolCalls() {
			reply.Message = llmutils.StringOrDefault(deref(resp.Content), fallbackReply)
			return reply, nil
		}

		var toolCalls []schema.ToolCall
		for _, tc := range resp.ToolCalls {
			toolCalls = append(toolCalls, schema.ToolCall{ID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
			reply.ToolsUsed = append(reply.ToolsUsed, tc.Name)
		}
		conversation.AddAssistant(resp.Content, toolCalls)
		slog.Info("Tool round", "round", reply.Rounds, "calls", llmutils.ToolHint(resp.ToolCalls))

		// Execute the round's tool calls concurrently. Results are collected
		// by index so the transcript order matches the request order, and one
		// failing call never cancels its siblings.
		results := make([]string, len(resp.ToolCalls))
		var wg sync.WaitGroup
		for i, tc := range resp.ToolCalls {
			wg.Add(1)
			go func(i int, tc schema.ToolCallRequest) {
				defer wg.Done()
				results[i] = o.executeTool(ctx, catalogue, tc, confirmed)
			}(i, tc)
		}
		wg.Wait()

		for i, tc := range resp.ToolCalls {
			conversation.AddToolResult(tc.ID, tc.Name, results[i])
		}
	}

	reply.Rounds = o.opts.MaxRounds
	reply.Message = "I wasn't able to finish that request within the allowed number of steps. Could you try breaking it into smaller pieces?"
	return reply, nil
}

// executeTool runs one requested tool call and renders its outcome as result
// content. Unknown tools, ungated writes, and executor failures all become
// content the model can explain; none of them abort the loop.
func (o *Orchestrator) executeTool(ctx context.Context, catalogue tools.ToolList, tc schema.ToolCallRequest, confirmed bool) string {
	tool := catalogue.Get(tc.Name)
	if tool == nil {
		return fmt.Sprintf(`{"error": "unknown tool %q"}`, tc.Name)
	}

	if tool.Kind() == schema.KindWrite && !confirmed {
		slog.Warn("Write tool blocked pending confirmation", "tool", tc.Name)
		return writeRefusal
	}

	argsJSON, _ := json.Marshal(tc.Arguments)
	slog.Info("Tool call", "name", tc.Name, "args", llmutils.Truncate(string(argsJSON), 200))

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		slog.Warn("Tool failed", "name", tc.Name, "err", err)
		msg, _ := json.Marshal(err.Error())
		return fmt.Sprintf(`{"error": %s}`, msg)
	}
	return result
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
