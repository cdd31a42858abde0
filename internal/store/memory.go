package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used for development and tests.
// All methods are safe for concurrent use.
type MemoryStore struct {
	mu            sync.RWMutex
	members       map[string]Member
	events        map[string]Event
	announcements map[string]Announcement
	transactions  map[string]Transaction
	tiers         map[string]Tier
	incidents     map[string]Incident
	rides         map[string]Ride
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members:       make(map[string]Member),
		events:        make(map[string]Event),
		announcements: make(map[string]Announcement),
		transactions:  make(map[string]Transaction),
		tiers:         make(map[string]Tier),
		incidents:     make(map[string]Incident),
		rides:         make(map[string]Ride),
	}
}

func (s *MemoryStore) ListMembers(_ context.Context, orgID string) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Member
	for _, m := range s.members {
		if m.OrgID == orgID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) GetMember(_ context.Context, orgID, memberID string) (Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[memberID]
	if !ok || m.OrgID != orgID {
		return Member{}, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	return m, nil
}

func (s *MemoryStore) AddMember(_ context.Context, m Member) (Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Joined.IsZero() {
		m.Joined = time.Now()
	}
	s.members[m.ID] = m
	return m, nil
}

func (s *MemoryStore) UpdateMemberRole(_ context.Context, orgID, memberID, role string) (Member, error) {
	return s.updateMember(orgID, memberID, func(m *Member) { m.Role = role })
}

func (s *MemoryStore) UpdateMemberTier(_ context.Context, orgID, memberID, tier string) (Member, error) {
	return s.updateMember(orgID, memberID, func(m *Member) { m.Tier = tier })
}

func (s *MemoryStore) updateMember(orgID, memberID string, apply func(*Member)) (Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok || m.OrgID != orgID {
		return Member{}, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	apply(&m)
	s.members[memberID] = m
	return m, nil
}

func (s *MemoryStore) ListEvents(_ context.Context, orgID string, from time.Time) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.OrgID == orgID && !e.EndTime.Before(from) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *MemoryStore) CreateEvent(_ context.Context, e Event) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.events[e.ID] = e
	return e, nil
}

func (s *MemoryStore) ListAnnouncements(_ context.Context, orgID string, limit int) ([]Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Announcement
	for _, a := range s.announcements {
		if a.OrgID == orgID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CreateAnnouncement(_ context.Context, a Announcement) (Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	s.announcements[a.ID] = a
	return a, nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, orgID, memberID string) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Transaction
	for _, tx := range s.transactions {
		if tx.OrgID != orgID {
			continue
		}
		if memberID != "" && tx.MemberID != memberID {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) RecordTransaction(_ context.Context, t Transaction) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[t.MemberID]
	if !ok || m.OrgID != t.OrgID {
		return Transaction{}, fmt.Errorf("member %s: %w", t.MemberID, ErrNotFound)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	s.transactions[t.ID] = t
	return t, nil
}

func (s *MemoryStore) MemberBalance(ctx context.Context, orgID, memberID string) (int64, error) {
	if _, err := s.GetMember(ctx, orgID, memberID); err != nil {
		return 0, err
	}
	txs, err := s.ListTransactions(ctx, orgID, memberID)
	if err != nil {
		return 0, err
	}
	return BalanceFromTransactions(txs), nil
}

func (s *MemoryStore) ListTiers(_ context.Context, orgID string) ([]Tier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Tier
	for _, t := range s.tiers {
		if t.OrgID == orgID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) CreateTier(_ context.Context, t Tier) (Tier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.tiers[t.ID] = t
	return t, nil
}

func (s *MemoryStore) ListIncidents(_ context.Context, orgID string) ([]Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Incident
	for _, i := range s.incidents {
		if i.OrgID == orgID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.After(out[j].OccurredAt) })
	return out, nil
}

func (s *MemoryStore) CreateIncident(_ context.Context, i Incident) (Incident, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	s.incidents[i.ID] = i
	return i, nil
}

func (s *MemoryStore) ListRides(_ context.Context, orgID string) ([]Ride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Ride
	for _, r := range s.rides {
		if r.OrgID == orgID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CreateRide(_ context.Context, r Ride) (Ride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = "requested"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.rides[r.ID] = r
	return r, nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() {}
