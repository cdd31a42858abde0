package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
	"github.com/stewardhq/steward/internal/tools"
)

// scriptedProvider replays a fixed sequence of responses and records every
// conversation it was handed.
type scriptedProvider struct {
	responses []schema.LLMResponse
	err       error
	calls     []schema.Messages
}

func (p *scriptedProvider) Chat(_ context.Context, conversation schema.Messages, _ []map[string]any, _ schema.ChatOptions) (schema.LLMResponse, error) {
	p.calls = append(p.calls, conversation.Clone())
	if p.err != nil {
		return schema.LLMResponse{}, p.err
	}
	i := len(p.calls) - 1
	if i >= len(p.responses) {
		i = len(p.responses) - 1
	}
	return p.responses[i], nil
}

func (p *scriptedProvider) DefaultModel() string { return "test-model" }

func strPtr(s string) *string { return &s }

func textResponse(text string) schema.LLMResponse {
	return schema.LLMResponse{
		Content:    strPtr(text),
		StopReason: "end_turn",
		Usage:      schema.Usage{InputTokens: 10, OutputTokens: 5},
	}
}

func toolResponse(calls ...schema.ToolCallRequest) schema.LLMResponse {
	return schema.LLMResponse{
		ToolCalls:  calls,
		StopReason: "tool_use",
		Usage:      schema.Usage{InputTokens: 10, OutputTokens: 5},
	}
}

func newTestOrchestrator(p schema.LLMProvider, st store.Store) *Orchestrator {
	return NewOrchestrator(p, tools.NewDefaultRegistry(st, nil), NewPromptContext(), Options{
		Model:     "test-model",
		MaxTokens: 1024,
		MaxRounds: 5,
	})
}

func userTranscript(texts ...string) schema.Messages {
	transcript := schema.NewMessages()
	for _, t := range texts {
		transcript.AddUser(t)
	}
	return transcript
}

func TestRun_PlainTextIsTerminal(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{textResponse("Here are your events.")}}
	o := newTestOrchestrator(p, store.NewMemoryStore())

	reply, err := o.Run(context.Background(), userTranscript("what events are coming up?"), "org-1", "user-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if reply.Message != "Here are your events." {
		t.Errorf("message = %q", reply.Message)
	}
	if len(p.calls) != 1 {
		t.Errorf("provider calls = %d, want 1", len(p.calls))
	}
	if reply.Rounds != 1 {
		t.Errorf("rounds = %d, want 1", reply.Rounds)
	}
}

func TestRun_ReadToolThenAnswer(t *testing.T) {
	st := store.NewMemoryStore()
	p := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(schema.ToolCallRequest{
			ID:        "call_1",
			Name:      string(tools.ToolListMembers),
			Arguments: map[string]any{"organization_id": "org-1"},
		}),
		textResponse("You have no members yet."),
	}}
	o := newTestOrchestrator(p, st)

	reply, err := o.Run(context.Background(), userTranscript("show members"), "org-1", "user-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if reply.Message != "You have no members yet." {
		t.Errorf("message = %q", reply.Message)
	}
	if len(reply.ToolsUsed) != 1 || reply.ToolsUsed[0] != string(tools.ToolListMembers) {
		t.Errorf("tools used = %v", reply.ToolsUsed)
	}

	// The second submission must carry the assistant tool-call turn and the
	// matching tool result.
	second := p.calls[1].Messages
	last := second[len(second)-1]
	if last.Role != "tool" || last.ToolCallID != "call_1" {
		t.Errorf("last message = %+v, want tool result for call_1", last)
	}
}

func TestRun_ParallelCallsGetMatchingResults(t *testing.T) {
	st := store.NewMemoryStore()
	p := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(
			schema.ToolCallRequest{ID: "call_a", Name: string(tools.ToolListEvents), Arguments: map[string]any{"organization_id": "org-1"}},
			schema.ToolCallRequest{ID: "call_b", Name: string(tools.ToolListMembers), Arguments: map[string]any{"organization_id": "org-1"}},
			schema.ToolCallRequest{ID: "call_c", Name: string(tools.ToolListRides), Arguments: map[string]any{"organization_id": "org-1"}},
		),
		textResponse("done"),
	}}
	o := newTestOrchestrator(p, st)

	if _, err := o.Run(context.Background(), userTranscript("summarize everything"), "org-1", "user-1"); err != nil {
		t.Fatalf("run: %v", err)
	}

	second := p.calls[1].Messages
	var resultIDs []string
	for _, m := range second {
		if m.Role == "tool" {
			resultIDs = append(resultIDs, m.ToolCallID)
		}
	}
	want := []string{"call_a", "call_b", "call_c"}
	if len(resultIDs) != len(want) {
		t.Fatalf("tool results = %v, want %v", resultIDs, want)
	}
	for i := range want {
		if resultIDs[i] != want[i] {
			t.Errorf("result %d id = %q, want %q", i, resultIDs[i], want[i])
		}
	}
}

func TestRun_WriteBlockedWithoutConfirmation(t *testing.T) {
	st := store.NewMemoryStore()
	p := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(schema.ToolCallRequest{
			ID:   "call_1",
			Name: string(tools.ToolCreateAnnouncement),
			Arguments: map[string]any{
				"organization_id": "org-1",
				"title":           "Meeting",
				"message":         "Tomorrow at 3pm",
			},
		}),
		textResponse("Before I post that, can you confirm?"),
	}}
	o := newTestOrchestrator(p, st)

	if _, err := o.Run(context.Background(), userTranscript("post an announcement about the meeting"), "org-1", "user-1"); err != nil {
		t.Fatalf("run: %v", err)
	}

	anns, err := st.ListAnnouncements(context.Background(), "org-1", 10)
	if err != nil {
		t.Fatalf("list announcements: %v", err)
	}
	if len(anns) != 0 {
		t.Fatalf("announcement was created without confirmation: %+v", anns)
	}

	second := p.calls[1].Messages
	last := second[len(second)-1]
	if !strings.Contains(last.Text(), "not confirmed") {
		t.Errorf("tool result = %q, want confirmation refusal", last.Text())
	}
}

func TestRun_WriteExecutesAfterConfirmation(t *testing.T) {
	st := store.NewMemoryStore()
	p := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(schema.ToolCallRequest{
			ID:   "call_1",
			Name: string(tools.ToolCreateAnnouncement),
			Arguments: map[string]any{
				"organization_id": "org-1",
				"title":           "Meeting",
				"message":         "Tomorrow at 3pm",
			},
		}),
		textResponse("Done! The announcement is posted."),
	}}
	o := newTestOrchestrator(p, st)

	transcript := userTranscript("post an announcement about the meeting")
	transcript.AddAssistant(strPtr("Ready to post this?"), nil)
	transcript.AddUser("yes")

	reply, err := o.Run(context.Background(), transcript, "org-1", "user-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if reply.Message != "Done! The announcement is posted." {
		t.Errorf("message = %q", reply.Message)
	}

	anns, err := st.ListAnnouncements(context.Background(), "org-1", 10)
	if err != nil {
		t.Fatalf("list announcements: %v", err)
	}
	if len(anns) != 1 {
		t.Fatalf("announcements = %d, want 1", len(anns))
	}
}

func TestRun_ToolErrorDoesNotAbort(t *testing.T) {
	st := store.NewMemoryStore()
	p := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(schema.ToolCallRequest{
			ID:   "call_1",
			Name: string(tools.ToolMemberBalance),
			// member_id missing, executor will fail
			Arguments: map[string]any{"organization_id": "org-1"},
		}),
		textResponse("I couldn't find that member's balance."),
	}}
	o := newTestOrchestrator(p, st)

	reply, err := o.Run(context.Background(), userTranscript("what does jon owe?"), "org-1", "user-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if reply.Message != "I couldn't find that member's balance." {
		t.Errorf("message = %q", reply.Message)
	}

	second := p.calls[1].Messages
	last := second[len(second)-1]
	if !strings.Contains(last.Text(), "error") {
		t.Errorf("tool result = %q, want an error payload", last.Text())
	}
}

func TestRun_UnknownToolBecomesResult(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(schema.ToolCallRequest{ID: "call_1", Name: "launch_rocket", Arguments: map[string]any{}}),
		textResponse("sorry, I can't do that"),
	}}
	o := newTestOrchestrator(p, store.NewMemoryStore())

	if _, err := o.Run(context.Background(), userTranscript("launch"), "org-1", "user-1"); err != nil {
		t.Fatalf("run: %v", err)
	}
	second := p.calls[1].Messages
	last := second[len(second)-1]
	if !strings.Contains(last.Text(), "unknown tool") {
		t.Errorf("tool result = %q, want unknown-tool error", last.Text())
	}
}

func TestRun_RoundCeiling(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{
		toolResponse(schema.ToolCallRequest{
			ID:        "loop",
			Name:      string(tools.ToolListMembers),
			Arguments: map[string]any{"organization_id": "org-1"},
		}),
	}}
	o := newTestOrchestrator(p, store.NewMemoryStore())

	reply, err := o.Run(context.Background(), userTranscript("keep going"), "org-1", "user-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(p.calls) != 5 {
		t.Errorf("provider calls = %d, want 5", len(p.calls))
	}
	if reply.Rounds != 5 {
		t.Errorf("rounds = %d, want 5", reply.Rounds)
	}
	if !strings.Contains(reply.Message, "wasn't able to finish") {
		t.Errorf("message = %q, want round-ceiling notice", reply.Message)
	}
}

func TestRun_ProviderErrorPropagates(t *testing.T) {
	wantErr := errors.New("upstream unavailable")
	p := &scriptedProvider{err: wantErr}
	o := newTestOrchestrator(p, store.NewMemoryStore())

	_, err := o.Run(context.Background(), userTranscript("hello"), "org-1", "user-1")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestRun_EmptyContentFallsBack(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{{StopReason: "end_turn"}}}
	o := newTestOrchestrator(p, store.NewMemoryStore())

	reply, err := o.Run(context.Background(), userTranscript("hello"), "org-1", "user-1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if reply.Message != fallbackReply {
		t.Errorf("message = %q, want fallback", reply.Message)
	}
}

func TestRun_SystemPromptCarriesContext(t *testing.T) {
	p := &scriptedProvider{responses: []schema.LLMResponse{textResponse("hi")}}
	o := newTestOrchestrator(p, store.NewMemoryStore())

	if _, err := o.Run(context.Background(), userTranscript("hello"), "org-42", "user-7"); err != nil {
		t.Fatalf("run: %v", err)
	}
	first := p.calls[0].Messages[0]
	if first.Role != "system" {
		t.Fatalf("first message role = %q, want system", first.Role)
	}
	if !strings.Contains(first.Text(), "org-42") || !strings.Contains(first.Text(), "user-7") {
		t.Errorf("system prompt missing context ids: %q", first.Text())
	}
}
