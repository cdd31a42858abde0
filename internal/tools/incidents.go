package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

type incidentView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OccurredAt  string `json:"occurred_at"`
	Severity    string `json:"severity"`
	Location    string `json:"location,omitempty"`
}

func viewIncident(inc store.Incident) incidentView {
	return incidentView{
		ID:          inc.ID,
		Title:       inc.Title,
		Description: inc.Description,
		OccurredAt:  inc.OccurredAt.Format(time.RFC3339),
		Severity:    inc.Severity,
		Location:    inc.Location,
	}
}

// ListIncidentsTool lists incident reports, most recent occurrence first.
type ListIncidentsTool struct {
	store store.Store
}

func (t *ListIncidentsTool) Name() string { return string(ToolListIncidents) }
func (t *ListIncidentsTool) Description() string {
	return "List incident reports filed for the organization, most recent first."
}
func (t *ListIncidentsTool) Kind() schema.ToolKind { return schema.KindRead }
func (t *ListIncidentsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"}
		},
		"required": ["organization_id"]
	}`)
}

func (t *ListIncidentsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	incidents, err := t.store.ListIncidents(ctx, orgID)
	if err != nil {
		return "", err
	}
	views := make([]incidentView, 0, len(incidents))
	for _, inc := range incidents {
		views = append(views, viewIncident(inc))
	}
	return jsonResult(map[string]any{"incidents": views, "count": len(views)})
}

// CreateIncidentTool files a new incident report.
type CreateIncidentTool struct {
	store store.Store
}

func (t *CreateIncidentTool) Name() string { return string(ToolCreateIncident) }
func (t *CreateIncidentTool) Description() string {
	return "File an incident report: what happened, when it occurred, and how severe it is."
}
func (t *CreateIncidentTool) Kind() schema.ToolKind { return schema.KindWrite }
func (t *CreateIncidentTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"title": {"type": "string", "description": "Short title for the incident"},
			"description": {"type": "string", "description": "Full description of what happened"},
			"occurred_at": {"type": "string", "description": "When the incident occurred, YYYY-MM-DDTHH:MM:SS"},
			"severity": {"type": "string", "enum": ["low", "medium", "high", "critical"], "description": "How serious the incident is"},
			"location": {"type": "string", "description": "Where the incident happened"},
			"user_id": {"type": "string", "description": "ID of the reporting user from the current context"}
		},
		"required": ["organization_id", "title", "description", "occurred_at", "severity"]
	}`)
}

func (t *CreateIncidentTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	title, err := requireStr(params, "title")
	if err != nil {
		return "", err
	}
	description, err := requireStr(params, "description")
	if err != nil {
		return "", err
	}
	occurredAt, err := requireTime(params, "occurred_at")
	if err != nil {
		return "", err
	}
	severity, err := requireStr(params, "severity")
	if err != nil {
		return "", err
	}
	if err := oneOf(severity, "low", "medium", "high", "critical"); err != nil {
		return "", err
	}

	created, err := t.store.CreateIncident(ctx, store.Incident{
		OrgID:       orgID,
		ReporterID:  strParam(params, "user_id"),
		Title:       title,
		Description: description,
		OccurredAt:  occurredAt,
		Severity:    severity,
		Location:    strParam(params, "location"),
	})
	if err != nil {
		return "", err
	}
	return jsonResult(map[string]any{"created": viewIncident(created)})
}
