package agent

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSystemPrompt_RendersContext(t *testing.T) {
	p := &PromptContext{now: func() time.Time {
		return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	}}
	prompt := p.BuildSystemPrompt("org-1", "user-2")

	for _, want := range []string{"org-1", "user-2", "2026-03-14"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

// The gathering guidance must name every field the write tools require, or
// the model asks for too little and the executor rejects the call.
func TestBuildSystemPrompt_GuidanceCoversRequiredFields(t *testing.T) {
	prompt := NewPromptContext().BuildSystemPrompt("org-1", "user-2")

	tests := []struct {
		operation string
		fields    []string
	}{
		{"incident reports", []string{"title", "full description", "when it occurred", "severity"}},
		{"membership tiers", []string{"display name", "internal class name", "dues amount", "billing frequency"}},
		{"transactions", []string{"amount in dollars", "description"}},
		{"events", []string{"title", "start time", "end time"}},
	}
	for _, tt := range tests {
		for _, field := range tt.fields {
			if !strings.Contains(prompt, field) {
				t.Errorf("%s guidance missing %q", tt.operation, field)
			}
		}
	}
}
