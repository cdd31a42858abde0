package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func addTestMember(t *testing.T, s *MemoryStore, orgID, name string) Member {
	t.Helper()
	m, err := s.AddMember(context.Background(), Member{
		OrgID: orgID,
		Email: name + "@example.com",
		Name:  name,
		Role:  "member",
	})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	return m
}

func TestMemoryStore_MembersScopedByOrg(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	addTestMember(t, s, "org1", "Alice")
	addTestMember(t, s, "org1", "Bob")
	other := addTestMember(t, s, "org2", "Carol")

	members, err := s.ListMembers(ctx, "org1")
	if err != nil {
		t.Fatalf("list members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members in org1, got %d", len(members))
	}

	if _, err := s.GetMember(ctx, "org1", other.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for cross-org lookup, got %v", err)
	}
}

func TestMemoryStore_UpdateMemberRole(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	m := addTestMember(t, s, "org1", "Alice")

	updated, err := s.UpdateMemberRole(ctx, "org1", m.ID, "admin")
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != "admin" {
		t.Errorf("expected role admin, got %q", updated.Role)
	}

	if _, err := s.UpdateMemberRole(ctx, "org1", "missing", "admin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Balance(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	m := addTestMember(t, s, "org1", "Alice")

	record := func(amount int64, typ string) {
		t.Helper()
		_, err := s.RecordTransaction(ctx, Transaction{
			OrgID:       "org1",
			MemberID:    m.ID,
			AmountCents: amount,
			Type:        typ,
			Description: "test",
		})
		if err != nil {
			t.Fatalf("record %s: %v", typ, err)
		}
	}

	record(5000, "charge")
	record(2500, "dues")
	record(3000, "payment")

	balance, err := s.MemberBalance(ctx, "org1", m.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance != 4500 {
		t.Errorf("expected balance 4500 cents, got %d", balance)
	}
}

func TestMemoryStore_RecordTransactionUnknownMember(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.RecordTransaction(context.Background(), Transaction{
		OrgID:       "org1",
		MemberID:    "nobody",
		AmountCents: 100,
		Type:        "charge",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ListEventsFiltersPast(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	mustCreate := func(title string, start, end time.Time) {
		t.Helper()
		if _, err := s.CreateEvent(ctx, Event{OrgID: "org1", Title: title, StartTime: start, EndTime: end}); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}
	mustCreate("past", now.Add(-48*time.Hour), now.Add(-47*time.Hour))
	mustCreate("soon", now.Add(1*time.Hour), now.Add(2*time.Hour))
	mustCreate("later", now.Add(24*time.Hour), now.Add(25*time.Hour))

	events, err := s.ListEvents(ctx, "org1", now)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 upcoming events, got %d", len(events))
	}
	if events[0].Title != "soon" || events[1].Title != "later" {
		t.Errorf("expected chronological ordering, got %q then %q", events[0].Title, events[1].Title)
	}
}

func TestMemoryStore_AnnouncementsNewestFirst(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i, title := range []string{"first", "second", "third"} {
		_, err := s.CreateAnnouncement(ctx, Announcement{
			OrgID:     "org1",
			Title:     title,
			Message:   "m",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("create announcement: %v", err)
		}
	}

	out, err := s.ListAnnouncements(ctx, "org1", 2)
	if err != nil {
		t.Fatalf("list announcements: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(out))
	}
	if out[0].Title != "third" {
		t.Errorf("expected newest first, got %q", out[0].Title)
	}
}

func TestBalanceFromTransactions(t *testing.T) {
	txs := []Transaction{
		{Type: "charge", AmountCents: 1000},
		{Type: "payment", AmountCents: 400},
		{Type: "dues", AmountCents: 250},
	}
	if got := BalanceFromTransactions(txs); got != 850 {
		t.Errorf("expected 850, got %d", got)
	}
	if got := BalanceFromTransactions(nil); got != 0 {
		t.Errorf("expected 0 for empty ledger, got %d", got)
	}
}
