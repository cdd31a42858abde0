package tools

import (
	"encoding/json"

	"github.com/stewardhq/steward/internal/schema"
)

// ToolList is a snapshot of tools keyed by name, ready to hand to the
// orchestration loop.
type ToolList struct {
	tools map[string]schema.Tool
}

// NewToolList builds a ToolList from a slice of tools.
func NewToolList(tools []schema.Tool) ToolList {
	list := ToolList{tools: make(map[string]schema.Tool, len(tools))}
	for _, t := range tools {
		list.tools[t.Name()] = t
	}
	return list
}

// Get returns the named tool, or nil.
func (r *ToolList) Get(name string) schema.Tool { return r.tools[name] }

// Len returns the number of tools in the list.
func (r *ToolList) Len() int { return len(r.tools) }

// Definitions returns all tool definitions in generic function-calling
// format; the provider converts them to its own wire shape.
func (r *ToolList) Definitions() []map[string]any {
	list := make([]map[string]any, 0, len(r.tools))

	for _, t := range r.tools {
		var params any
		if err := json.Unmarshal(t.Parameters(), &params); err != nil {
			params = map[string]any{"type": "object", "properties": map[string]any{}}
		}
		list = append(list, map[string]any{
			"type": "function",
			"function": map[string]any{
				"name":        t.Name(),
				"description": t.Description(),
				"parameters":  params,
			},
		})
	}

	return list
}
