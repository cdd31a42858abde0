package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stewardhq/steward/internal/schema"
	"github.com/stewardhq/steward/internal/store"
)

const testOrg = "org-test"

func seedMember(t *testing.T, st store.Store, name, email string) store.Member {
	t.Helper()
	m, err := st.AddMember(context.Background(), store.Member{
		OrgID: testOrg,
		Name:  name,
		Email: email,
		Role:  "member",
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return m
}

func TestDefaultRegistryCoversCatalogue(t *testing.T) {
	reg := NewDefaultRegistry(store.NewMemoryStore(), nil)

	names := []ToolName{
		ToolListEvents, ToolCreateEvent,
		ToolListAnnouncements, ToolCreateAnnouncement,
		ToolListMembers, ToolFindMember, ToolAddMember,
		ToolUpdateMemberRole, ToolUpdateMemberTier,
		ToolListTransactions, ToolMemberBalance, ToolRecordTransaction,
		ToolListTiers, ToolCreateTier,
		ToolListIncidents, ToolCreateIncident,
		ToolListRides, ToolCreateRide,
	}
	for _, name := range names {
		tool := reg.GetTool(name)
		if tool == nil {
			t.Fatalf("tool %q not registered", name)
		}
		var js map[string]any
		if err := json.Unmarshal(tool.Parameters(), &js); err != nil {
			t.Errorf("tool %q has invalid parameter schema: %v", name, err)
		}
	}
	all := reg.AllTools()
	if got := all.Len(); got != len(names) {
		t.Fatalf("registry size = %d, want %d", got, len(names))
	}
}

func TestListToolsAreReadOnly(t *testing.T) {
	reg := NewDefaultRegistry(store.NewMemoryStore(), nil)
	for _, name := range []ToolName{
		ToolListEvents, ToolListAnnouncements, ToolListMembers,
		ToolFindMember, ToolListTransactions, ToolMemberBalance,
		ToolListTiers, ToolListIncidents, ToolListRides,
	} {
		if kind := reg.GetTool(name).Kind(); kind != schema.KindRead {
			t.Errorf("tool %q kind = %q, want read", name, kind)
		}
	}
	for _, name := range []ToolName{
		ToolCreateEvent, ToolCreateAnnouncement, ToolAddMember,
		ToolUpdateMemberRole, ToolUpdateMemberTier, ToolRecordTransaction,
		ToolCreateTier, ToolCreateIncident, ToolCreateRide,
	} {
		if kind := reg.GetTool(name).Kind(); kind != schema.KindWrite {
			t.Errorf("tool %q kind = %q, want write", name, kind)
		}
	}
}

func TestFindMemberFuzzyMatch(t *testing.T) {
	st := store.NewMemoryStore()
	jon := seedMember(t, st, "Jon Doe", "jon@example.com")
	seedMember(t, st, "Alice Smith", "alice@example.com")

	tool := &FindMemberTool{store: st}

	// Misspelled first name should still resolve to Jon.
	out, err := tool.Execute(context.Background(), map[string]any{
		"organization_id": testOrg,
		"query":           "John Doe",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var result struct {
		Matches []memberView `json:"matches"`
		Count   int          `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if result.Count == 0 {
		t.Fatal("expected at least one match for misspelled name")
	}
	if result.Matches[0].ID != jon.ID {
		t.Errorf("best match = %q, want %q", result.Matches[0].ID, jon.ID)
	}
}

func TestFindMemberByEmail(t *testing.T) {
	st := store.NewMemoryStore()
	alice := seedMember(t, st, "Alice Smith", "alice@example.com")

	tool := &FindMemberTool{store: st}
	out, err := tool.Execute(context.Background(), map[string]any{
		"organization_id": testOrg,
		"query":           "alice@example.com",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, alice.ID) {
		t.Errorf("result does not contain member id: %s", out)
	}
}

func TestRecordTransactionAndBalance(t *testing.T) {
	st := store.NewMemoryStore()
	m := seedMember(t, st, "Jon Doe", "jon@example.com")

	record := &RecordTransactionTool{store: st}
	for _, tc := range []struct {
		txType string
		amount float64
	}{
		{"charge", 50.00},
		{"dues", 25.00},
		{"payment", 30.00},
	} {
		_, err := record.Execute(context.Background(), map[string]any{
			"organization_id": testOrg,
			"member_id":       m.ID,
			"type":            tc.txType,
			"amount":          tc.amount,
			"description":     "semester dues",
		})
		if err != nil {
			t.Fatalf("record %s: %v", tc.txType, err)
		}
	}

	balance := &MemberBalanceTool{store: st}
	out, err := balance.Execute(context.Background(), map[string]any{
		"organization_id": testOrg,
		"member_id":       m.ID,
	})
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	var result struct {
		Balance float64 `json:"balance"`
		Owes    bool    `json:"owes"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Balance != 45.00 {
		t.Errorf("balance = %.2f, want 45.00", result.Balance)
	}
	if !result.Owes {
		t.Error("expected owes to be true")
	}
}

func TestRecordTransactionRejectsBadType(t *testing.T) {
	st := store.NewMemoryStore()
	m := seedMember(t, st, "Jon Doe", "jon@example.com")

	tool := &RecordTransactionTool{store: st}
	_, err := tool.Execute(context.Background(), map[string]any{
		"organization_id": testOrg,
		"member_id":       m.ID,
		"type":            "refund",
		"amount":          10.0,
		"description":     "mystery",
	})
	if err == nil {
		t.Fatal("expected error for unsupported transaction type")
	}
}

func TestCreateEventRequiresTimes(t *testing.T) {
	tool := &CreateEventTool{store: store.NewMemoryStore()}
	_, err := tool.Execute(context.Background(), map[string]any{
		"organization_id": testOrg,
		"title":           "Chapter meeting",
	})
	if err == nil {
		t.Fatal("expected error when start_time is missing")
	}
}

func TestCreateTierRejectsBadFrequency(t *testing.T) {
	tool := &CreateTierTool{store: store.NewMemoryStore()}
	_, err := tool.Execute(context.Background(), map[string]any{
		"organization_id": testOrg,
		"name":            "Active Member",
		"class_name":      "active_member",
		"dues_amount":     120.0,
		"frequency":       "weekly",
	})
	if err == nil {
		t.Fatal("expected error for unsupported frequency")
	}
}

type captureNotifier struct {
	posted []store.Announcement
}

func (c *captureNotifier) AnnouncementPosted(_ context.Context, a store.Announcement) error {
	c.posted = append(c.posted, a)
	return nil
}

func TestCreateAnnouncementNotifies(t *testing.T) {
	st := store.NewMemoryStore()
	notifier := &captureNotifier{}
	tool := &CreateAnnouncementTool{store: st, notifier: notifier}

	_, err := tool.Execute(context.Background(), map[string]any{
		"organization_id": testOrg,
		"title":           "Formal this Saturday",
		"message":         "Doors at 7pm, dress code applies.",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(notifier.posted) != 1 {
		t.Fatalf("notifier received %d announcements, want 1", len(notifier.posted))
	}
	if notifier.posted[0].Title != "Formal this Saturday" {
		t.Errorf("notified title = %q", notifier.posted[0].Title)
	}
}
