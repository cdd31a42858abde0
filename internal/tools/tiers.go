package tools

import (
	"context"
	"encoding/json"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

type tierView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	ClassName   string  `json:"class_name"`
	Dues        float64 `json:"dues_amount"`
	Frequency   string  `json:"frequency"`
	Description string  `json:"description,omitempty"`
}

func viewTier(tier store.Tier) tierView {
	return tierView{
		ID:          tier.ID,
		Name:        tier.Name,
		ClassName:   tier.ClassName,
		Dues:        centsToDollars(tier.DuesCents),
		Frequency:   tier.Frequency,
		Description: tier.Description,
	}
}

// ListTiersTool lists the organization's membership tiers.
type ListTiersTool struct {
	store store.Store
}

func (t *ListTiersTool) Name() string { return string(ToolListTiers) }
func (t *ListTiersTool) Description() string {
	return "List the organization's membership tiers with their dues and billing frequency."
}
func (t *ListTiersTool) Kind() schema.ToolKind { return schema.KindRead }
func (t *ListTiersTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"}
		},
		"required": ["organization_id"]
	}`)
}

func (t *ListTiersTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	tiers, err := t.store.ListTiers(ctx, orgID)
	if err != nil {
		return "", err
	}
	views := make([]tierView, 0, len(tiers))
	for _, tier := range tiers {
		views = append(views, viewTier(tier))
	}
	return jsonResult(map[string]any{"tiers": views, "count": len(views)})
}

// CreateTierTool creates a new membership tier.
type CreateTierTool struct {
	store store.Store
}

func (t *CreateTierTool) Name() string { return string(ToolCreateTier) }
func (t *CreateTierTool) Description() string {
	return "Create a membership tier with a display name, internal class name, dues amount and billing frequency."
}
func (t *CreateTierTool) Kind() schema.ToolKind { return schema.KindWrite }
func (t *CreateTierTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"name": {"type": "string", "description": "Display name members see, e.g. Associate Member"},
			"class_name": {"type": "string", "description": "Internal identifier, lowercase with underscores"},
			"dues_amount": {"type": "number", "description": "Dues amount in dollars"},
			"frequency": {"type": "string", "enum": ["semester", "monthly", "annual", "one_time"], "description": "How often dues are charged"},
			"description": {"type": "string", "description": "What the tier covers"}
		},
		"required": ["organization_id", "name", "class_name", "dues_amount", "frequency"]
	}`)
}

func (t *CreateTierTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	name, err := requireStr(params, "name")
	if err != nil {
		return "", err
	}
	className, err := requireStr(params, "class_name")
	if err != nil {
		return "", err
	}
	dues, err := requireNum(params, "dues_amount")
	if err != nil {
		return "", err
	}
	frequency, err := requireStr(params, "frequency")
	if err != nil {
		return "", err
	}
	if err := oneOf(frequency, "semester", "monthly", "annual", "one_time"); err != nil {
		return "", err
	}

	created, err := t.store.CreateTier(ctx, store.Tier{
		OrgID:       orgID,
		Name:        name,
		ClassName:   className,
		DuesCents:   dollarsToCents(dues),
		Frequency:   frequency,
		Description: strParam(params, "description"),
	})
	if err != nil {
		return "", err
	}
	return jsonResult(map[string]any{"created": viewTier(created)})
}
