package tools

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

type memberView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
	Tier  string `json:"tier,omitempty"`
}

func viewMember(m store.Member) memberView {
	return memberView{ID: m.ID, Email: m.Email, Name: m.Name, Role: m.Role, Tier: m.Tier}
}

// ListMembersTool lists the organization roster.
type ListMembersTool struct {
	store store.Store
}

func (t *ListMembersTool) Name() string { return string(ToolListMembers) }
func (t *ListMembersTool) Description() string {
	return "List all members of the organization with their role and membership tier."
}
func (t *ListMembersTool) Kind() schema.ToolKind { return schema.KindRead }
func (t *ListMembersTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"}
		},
		"required": ["organization_id"]
	}`)
}

func (t *ListMembersTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	members, err := t.store.ListMembers(ctx, orgID)
	if err != nil {
		return "", err
	}
	views := make([]memberView, 0, len(members))
	for _, m := range members {
		views = append(views, viewMember(m))
	}
	return jsonResult(map[string]any{"members": views, "count": len(views)})
}

// FindMemberTool looks a member up by (possibly misspelled) name or email.
// Matching is fuzzy so that "find John Doe's balance" works even when the
// roster says "Jon Doe".
type FindMemberTool struct {
	store store.Store
}

func (t *FindMemberTool) Name() string { return string(ToolFindMember) }
func (t *FindMemberTool) Description() string {
	return "Find a member by name or email and return their ID. Use this before any operation that needs a member ID."
}
func (t *FindMemberTool) Kind() schema.ToolKind { return schema.KindRead }
func (t *FindMemberTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"query": {"type": "string", "description": "Member name or email to search for"}
		},
		"required": ["organization_id", "query"]
	}`)
}

// findSimilarityFloor is the minimum Jaro-Winkler similarity for a match.
const findSimilarityFloor = 0.75

func (t *FindMemberTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	query, err := requireStr(params, "query")
	if err != nil {
		return "", err
	}

	members, err := t.store.ListMembers(ctx, orgID)
	if err != nil {
		return "", err
	}

	type scored struct {
		member memberView
		score  float64
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var matches []scored
	for _, m := range members {
		score := similarity(q, strings.ToLower(m.Name))
		if s := similarity(q, strings.ToLower(m.Email)); s > score {
			score = s
		}
		if score >= findSimilarityFloor {
			matches = append(matches, scored{member: viewMember(m), score: score})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	views := make([]memberView, 0, len(matches))
	for _, m := range matches {
		views = append(views, m.member)
	}
	return jsonResult(map[string]any{"matches": views, "count": len(views)})
}

// similarity scores a ~ b in [0, 1]. Exact substring containment counts as a
// strong match regardless of edit distance.
func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(b, a) {
		return 1
	}
	return matchr.JaroWinkler(a, b, false)
}

// AddMemberTool adds a person to the roster.
type AddMemberTool struct {
	store store.Store
}

func (t *AddMemberTool) Name() string { return string(ToolAddMember) }
func (t *AddMemberTool) Description() string {
	return "Add a new member to the organization. Requires an email; role defaults to member."
}
func (t *AddMemberTool) Kind() schema.ToolKind { return schema.KindWrite }
func (t *AddMemberTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"email": {"type": "string", "description": "Email address of the new member"},
			"name": {"type": "string", "description": "Full name, if known"},
			"role": {"type": "string", "enum": ["admin", "member"], "description": "Role, defaults to member"},
			"tier": {"type": "string", "description": "Membership tier class name"}
		},
		"required": ["organization_id", "email"]
	}`)
}

func (t *AddMemberTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	email, err := requireStr(params, "email")
	if err != nil {
		return "", err
	}
	role := strParam(params, "role")
	if role == "" {
		role = "member"
	}
	if err := oneOf(role, "admin", "member"); err != nil {
		return "", err
	}

	created, err := t.store.AddMember(ctx, store.Member{
		OrgID: orgID,
		Email: email,
		Name:  strParam(params, "name"),
		Role:  role,
		Tier:  strParam(params, "tier"),
	})
	if err != nil {
		return "", err
	}
	return jsonResult(map[string]any{"created": viewMember(created)})
}

// UpdateMemberRoleTool changes a member's role.
type UpdateMemberRoleTool struct {
	store store.Store
}

func (t *UpdateMemberRoleTool) Name() string { return string(ToolUpdateMemberRole) }
func (t *UpdateMemberRoleTool) Description() string {
	return "Change a member's role. Look up the member ID with find_member first."
}
func (t *UpdateMemberRoleTool) Kind() schema.ToolKind { return schema.KindWrite }
func (t *UpdateMemberRoleTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"member_id": {"type": "string", "description": "ID of the member to update"},
			"role": {"type": "string", "enum": ["admin", "member"], "description": "New role"}
		},
		"required": ["organization_id", "member_id", "role"]
	}`)
}

func (t *UpdateMemberRoleTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	memberID, err := requireStr(params, "member_id")
	if err != nil {
		return "", err
	}
	role, err := requireStr(params, "role")
	if err != nil {
		return "", err
	}
	if err := oneOf(role, "admin", "member"); err != nil {
		return "", err
	}

	updated, err := t.store.UpdateMemberRole(ctx, orgID, memberID, role)
	if err != nil {
		return "", err
	}
	return jsonResult(map[string]any{"updated": viewMember(updated)})
}

// UpdateMemberTierTool moves a member to a different membership tier.
type UpdateMemberTierTool struct {
	store store.Store
}

func (t *UpdateMemberTierTool) Name() string { return string(ToolUpdateMemberTier) }
func (t *UpdateMemberTierTool) Description() string {
	return "Change a member's membership tier. Look up the member ID with find_member first."
}
func (t *UpdateMemberTierTool) Kind() schema.ToolKind { return schema.KindWrite }
func (t *UpdateMemberTierTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"organization_id": {"type": "string", "description": "Organization ID from the current context"},
			"member_id": {"type": "string", "description": "ID of the member to update"},
			"tier": {"type": "string", "description": "Class name of the new membership tier"}
		},
		"required": ["organization_id", "member_id", "tier"]
	}`)
}

func (t *UpdateMemberTierTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	orgID, err := requireStr(params, "organization_id")
	if err != nil {
		return "", err
	}
	memberID, err := requireStr(params, "member_id")
	if err != nil {
		return "", err
	}
	tier, err := requireStr(params, "tier")
	if err != nil {
		return "", err
	}

	updated, err := t.store.UpdateMemberTier(ctx, orgID, memberID, tier)
	if err != nil {
		return "", err
	}
	return jsonResult(map[string]any{"updated": viewMember(updated)})
}
