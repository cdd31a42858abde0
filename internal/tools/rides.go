package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

type rideView struct {
	ID         string `json:"id"`
	Pickup     string `json:"pickup"`
	Dropoff    string `json:"dropoff"`
	PickupTime string `json:"pickup_time,omitempty"`
	Status     string `json:"status"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func viewRide(r store.Ride) rideView {
	v := rideView{
		ID:        r.ID,
		Pickup:    r.Pickup,
		Dropoff:   r.Dropoff,
		Status:    r.Status,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
	if r.PickupTime != nil {
		v.PickupTime = r.PickupTime.Format(time.RFC3339)
	}
	return v
}

// ListRidesTool lists ride requests.
type ListRidesTool struct {
	store store.Store
}

func (t *ListRidesTool) Name() string { return string(ToolListRides) }
func (t *ListRidesTool) Description() string {
	return "List ride requests for the organization with pickup, drop-off and status."
}
func (t *ListRidesTool) Kind() schema.ToolKind { return schema.KindRead }
func (t *ListRidesTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"}
		},
		"required": ["organization_id"]
	}`)
}

func (t *ListRidesTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	rides, err := t.store.ListRides(ctx, orgID)
	if err != nil {
		return "", err
	}
	views := make([]rideView, 0, len(rides))
	for _, r := range rides {
		views = append(views, viewRide(r))
	}
	return jsonResult(map[string]any{"rides": views, "count": len(views)})
}

// CreateRideTool submits a new ride request.
type CreateRideTool struct {
	store store.Store
}

func (t *CreateRideTool) Name() string { return string(ToolCreateRide) }
func (t *CreateRideTool) Description() string {
	return "Submit a ride request with a pickup location and drop-off location, and an optional pickup time."
}
func (t *CreateRideTool) Kind() schema.ToolKind { return schema.KindWrite }
func (t *CreateRideTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"pickup": {"type": "string", "description": "Pickup location"},
			"dropoff": {"type": "string", "description": "Drop-off location"},
			"pickup_time": {"type": "string", "description": "Requested pickup time, YYYY-MM-DDTHH:MM:SS"},
			"notes": {"type": "string", "description": "Extra details for the driver"},
			"user_id": {"type": "string", "description": "ID of the requesting user from the current context"}
		},
		"required": ["organization_id", "pickup", "dropoff"]
	}`)
}

func (t *CreateRideTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	pickup, err := requireStr(params, "pickup")
	if err != nil {
		return "", err
	}
	dropoff, err := requireStr(params, "dropoff")
	if err != nil {
		return "", err
	}
	pickupTime, err := optionalTime(params, "pickup_time")
	if err != nil {
		return "", err
	}

	created, err := t.store.CreateRide(ctx, store.Ride{
		OrgID:       orgID,
		RequesterID: strParam(params, "user_id"),
		Pickup:      pickup,
		Dropoff:     dropoff,
		PickupTime:  pickupTime,
		Notes:       strParam(params, "notes"),
	})
	if err != nil {
		return "", err
	}
	return jsonResult(map[string]any{"created": viewRide(created)})
}
