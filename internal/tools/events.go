package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

// eventView is the wire shape a tool result presents for an event.
type eventView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

func viewEvent(e store.Event) eventView {
	return eventView{
		ID:          e.ID,
		Title:       e.Title,
		StartTime:   e.StartTime.Format(time.RFC3339),
		EndTime:     e.EndTime.Format(time.RFC3339),
		Location:    e.Location,
		Description: e.Description,
	}
}

// ListEventsTool lists upcoming events for the organization.
type ListEventsTool struct {
	store store.Store
}

func (t *ListEventsTool) Name() string { return string(ToolListEvents) }
func (t *ListEventsTool) Description() string {
	return "List upcoming events for the organization, soonest first."
}
func (t *ListEventsTool) Kind() schema.ToolKind { return schema.KindRead }
func (t *ListEventsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {
				"type": "string",
				"description": "Organization ID from the current context"
			}
		},
		"required": ["organization_id"]
	}`)
}

func (t *ListEventsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	events, err := t.store.ListEvents(ctx, orgID, time.Now())
	if err != nil {
		return "", err
	}
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, viewEvent(e))
	}
	return jsonResult(map[string]any{"events": views, "count": len(views)})
}

// CreateEventTool creates a calendar event.
type CreateEventTool struct {
	store store.Store
}

func (t *CreateEventTool) Name() string { return string(ToolCreateEvent) }
func (t *CreateEventTool) Description() string {
	return "Create a new event. Requires a title, start time, and end time; location and description are optional."
}
func (t *CreateEventTool) Kind() schema.ToolKind { return schema.KindWrite }
func (t *CreateEventTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"title": {"type": "string", "description": "Event name"},
			"start_time": {"type": "string", "description": "Start timestamp, YYYY-MM-DDTHH:MM:SS"},
			"end_time": {"type": "string", "description": "End timestamp, YYYY-MM-DDTHH:MM:SS"},
			"location": {"type": "string", "description": "Where the event takes place"},
			"description": {"type": "string", "description": "Additional details"}
		},
		"required": ["organization_id", "title", "start_time", "end_time"]
	}`)
}

func (t *CreateEventTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	title, err := requireStr(params, "title")
	if err != nil {
		return "", err
	}
	start, err := requireTime(params, "start_time")
	if err != nil {
		return "", err
	}
	end, err := requireTime(params, "end_time")
	if err != nil {
		return "", err
	}

	created, err := t.store.CreateEvent(ctx, store.Event{
		OrgID:       orgID,
		Title:       title,
		StartTime:   start,
		EndTime:     end,
		Location:    strParam(params, "location"),
		Description: strParam(params, "description"),
	})
	if err != nil {
		return "", err
	}
	return jsonResult(map[string]any{"created": viewEvent(created)})
}
