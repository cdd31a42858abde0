package schema

import (
	"context"
	"encoding/json"
)

// ToolKind classifies a tool by the effect of executing it. Read tools query
// state and may run immediately; write tools create, update or delete
// organizational records and are gated behind an explicit user confirmation.
type ToolKind string

const (
	KindRead  ToolKind = "read"
	KindWrite ToolKind = "write"
)

// Tool is the interface all model-callable tools must satisfy.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's parameters.
	Parameters() json.RawMessage
	// Kind reports whether executing this tool mutates organizational records.
	Kind() ToolKind
	Execute(ctx context.Context, params map[string]any) (string, error)
}
