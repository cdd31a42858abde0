package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

// AnnouncementNotifier receives announcements after they are persisted.
// Delivery failure must never fail the tool call.
type AnnouncementNotifier interface {
	AnnouncementPosted(ctx context.Context, a store.Announcement) error
}

type announcementView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

func viewAnnouncement(a store.Announcement) announcementView {
	return announcementView{
		ID:        a.ID,
		Title:     a.Title,
		Message:   a.Message,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

// ListAnnouncementsTool lists recent announcements, newest first.
type ListAnnouncementsTool struct {
	store store.Store
}

func (t *ListAnnouncementsTool) Name() string { return string(ToolListAnnouncements) }
func (t *ListAnnouncementsTool) Description() string {
	return "List recent announcements for the organization, newest first."
}
func (t *ListAnnouncementsTool) Kind() schema.ToolKind { return schema.KindRead }
func (t *ListAnnouncementsTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"limit": {"type": "integer", "description": "Maximum number of announcements (default 10)", "minimum": 1, "maximum": 50}
		},
		"required": ["organization_id"]
	}`)
}

func (t *ListAnnouncementsTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	limit := 10
	if n, ok := numParam(params, "limit"); ok && n > 0 {
		limit = int(n)
	}
	anns, err := t.store.ListAnnouncements(ctx, orgID, limit)
	if err != nil {
		return "", err
	}
	views := make([]announcementView, 0, len(anns))
	for _, a := range anns {
		views = append(views, viewAnnouncement(a))
	}
	return jsonResult(map[string]any{"announcements": views, "count": len(views)})
}

// CreateAnnouncementTool posts an announcement to the organization, and to
// the configured notifier when one is wired.
type CreateAnnouncementTool struct {
	store    store.Store
	notifier AnnouncementNotifier
}

func (t *CreateAnnouncementTool) Name() string { return string(ToolCreateAnnouncement) }
func (t *CreateAnnouncementTool) Description() string {
	return "Post a new announcement to all organization members. Requires a title and the full message."
}
func (t *CreateAnnouncementTool) Kind() schema.ToolKind { return schema.KindWrite }
func (t *CreateAnnouncementTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"user_id": {"type": "string", "description": "Acting user ID from the current context"},
			"title": {"type": "string", "description": "Announcement title"},
			"message": {"type": "string", "description": "Full announcement text"}
		},
		"required": ["organization_id", "title", "message"]
	}`)
}

func (t *CreateAnnouncementTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	title, err := requireStr(params, "title")
	if err != nil {
		return "", err
	}
	message, err := requireStr(params, "message")
	if err != nil {
		return "", err
	}

	created, err := t.store.CreateAnnouncement(ctx, store.Announcement{
		OrgID:    orgID,
		Title:    title,
		Message:  message,
		AuthorID: strParam(params, "user_id"),
	})
	if err != nil {
		return "", err
	}

	if t.notifier != nil {
		if err := t.notifier.AnnouncementPosted(ctx, created); err != nil {
			slog.Warn("announcement notification failed", "id", created.ID, "err", err)
		}
	}

	return jsonResult(map[string]any{"created": viewAnnouncement(created)})
}
