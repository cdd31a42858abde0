// Package tools implements the model-callable tool catalogue over the record
// store. The catalogue is configuration, not state: it is built once at
// startup and immutable at request time.
package tools

import (
	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

// ToolName is the canonical name of a built-in tool.
type ToolName string

const (
	ToolListEvents         ToolName = "list_events"
	ToolCreateEvent        ToolName = "create_event"
	ToolListAnnouncements  ToolName = "list_announcements"
	ToolCreateAnnouncement ToolName = "create_announcement"
	ToolListMembers        ToolName = "list_members"
	ToolFindMember         ToolName = "find_member"
	ToolAddMember          ToolName = "add_member"
	ToolUpdateMemberRole   ToolName = "update_member_role"
	ToolUpdateMemberTier   ToolName = "update_member_tier"
	ToolListTransactions   ToolName = "list_transactions"
	ToolMemberBalance      ToolName = "get_member_balance"
	ToolRecordTransaction  ToolName = "record_transaction"
	ToolListTiers          ToolName = "list_membership_tiers"
	ToolCreateTier         ToolName = "create_membership_tier"
	ToolListIncidents      ToolName = "list_incident_reports"
	ToolCreateIncident     ToolName = "create_incident_report"
	ToolListRides          ToolName = "list_ride_requests"
	ToolCreateRide         ToolName = "create_ride_request"
)

// Registry holds a set of named tools and exposes them for execution.
type Registry struct {
	tools map[string]schema.Tool
}

// GetTool returns the tool with the given name, or nil.
func (r *Registry) GetTool(name ToolName) schema.Tool {
	return r.tools[string(name)]
}

// AllTools returns a ToolList snapshot of the registry.
func (r *Registry) AllTools() ToolList {
	list := ToolList{tools: make(map[string]schema.Tool, len(r.tools))}
	for k, t := range r.tools {
		list.tools[k] = t
	}
	return list
}

// RegistryBuilder accumulates tools during the construction phase.
// Call Build() to produce an immutable Registry ready for use.
type RegistryBuilder struct {
	tools map[string]schema.Tool
}

// NewRegistryBuilder returns a fresh RegistryBuilder.
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{tools: make(map[string]schema.Tool)}
}

// WithTool adds a tool and returns the builder, enabling chaining.
func (b *RegistryBuilder) WithTool(tool schema.Tool) *RegistryBuilder {
	b.tools[tool.Name()] = tool
	return b
}

// Build produces an immutable Registry from the accumulated tools.
func (b *RegistryBuilder) Build() *Registry {
	tools := make(map[string]schema.Tool, len(b.tools))
	for k, v := range b.tools {
		tools[k] = v
	}
	return &Registry{tools: tools}
}

// NewDefaultRegistry builds the full steward catalogue over st. notifier may
// be nil; when set, created announcements are pushed to it.
func NewDefaultRegistry(st store.Store, notifier AnnouncementNotifier) *Registry {
	return NewRegistryBuilder().
		WithTool(&ListEventsTool{store: st}).
		WithTool(&CreateEventTool{store: st}).
		WithTool(&ListAnnouncementsTool{store: st}).
		WithTool(&CreateAnnouncementTool{store: st, notifier: notifier}).
		WithTool(&ListMembersTool{store: st}).
		WithTool(&FindMemberTool{store: st}).
		WithTool(&AddMemberTool{store: st}).
		WithTool(&UpdateMemberRoleTool{store: st}).
		WithTool(&UpdateMemberTierTool{store: st}).
		WithTool(&ListTransactionsTool{store: st}).
		WithTool(&MemberBalanceTool{store: st}).
		WithTool(&RecordTransactionTool{store: st}).
		WithTool(&ListTiersTool{store: st}).
		WithTool(&CreateTierTool{store: st}).
		WithTool(&ListIncidentsTool{store: st}).
		WithTool(&CreateIncidentTool{store: st}).
		WithTool(&ListRidesTool{store: st}).
		WithTool(&CreateRideTool{store: st}).
		Build()
}
