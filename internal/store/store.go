// Package store persists organizational records: members, events,
// announcements, payment transactions, membership tiers, incident reports,
// and ride requests. Every record belongs to exactly one organization and
// every operation is scoped by organization ID.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a scoped lookup matches no record.
var ErrNotFound = errors.New("record not found")

// Member is one person on the organization roster.
type Member struct {
	ID      string
	OrgID   string
	Email   string
	Name    string
	Role    string // "admin" or "member"
	Tier    string // membership tier class name
	Joined  time.Time
}

// Event is a calendar entry.
type Event struct {
	ID          string
	OrgID       string
	Title       string
	StartTime   time.Time
	EndTime     time.Time
	Location    string
	Description string
}

// Announcement is a message posted to the whole organization.
type Announcement struct {
	ID        string
	OrgID     string
	Title     string
	Message   string
	AuthorID  string
	CreatedAt time.Time
}

// Transaction is one ledger entry against a member's balance. AmountCents is
// always positive; Type determines the sign: charges and dues increase the
// balance owed, payments decrease it.
type Transaction struct {
	ID          string
	OrgID       string
	MemberID    string
	AmountCents int64
	Type        string // "charge", "payment", "dues"
	Description string
	CreatedAt   time.Time
}

// Tier is a membership tier (payment class).
type Tier struct {
	ID          string
	OrgID       string
	Name        string // display name
	ClassName   string // internal lowercase identifier
	DuesCents   int64
	Frequency   string // "semester", "monthly", "annual", "one_time"
	Description string
}

// Incident is a reported incident.
type Incident struct {
	ID          string
	OrgID       string
	ReporterID  string
	Title       string
	Description string
	OccurredAt  time.Time
	Severity    string // "low", "medium", "high", "critical"
	Location    string
}

// Ride is a ride request.
type Ride struct {
	ID          string
	OrgID       string
	RequesterID string
	Pickup      string
	Dropoff     string
	PickupTime  *time.Time // nil when not yet scheduled
	Notes       string
	Status      string // "requested", "assigned", "done"
	CreatedAt   time.Time
}

// Store is the persistence contract behind the tool executor. Implementations
// must be safe for concurrent use; tool calls in one round run in parallel.
type Store interface {
	// Members
	ListMembers(ctx context.Context, orgID string) ([]Member, error)
	GetMember(ctx context.Context, orgID, memberID string) (Member, error)
	AddMember(ctx context.Context, m Member) (Member, error)
	UpdateMemberRole(ctx context.Context, orgID, memberID, role string) (Member, error)
	UpdateMemberTier(ctx context.Context, orgID, memberID, tier string) (Member, error)

	// Events
	ListEvents(ctx context.Context, orgID string, from time.Time) ([]Event, error)
	CreateEvent(ctx context.Context, e Event) (Event, error)

	// Announcements
	ListAnnouncements(ctx context.Context, orgID string, limit int) ([]Announcement, error)
	CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)

	// Treasury
	ListTransactions(ctx context.Context, orgID, memberID string) ([]Transaction, error)
	RecordTransaction(ctx context.Context, t Transaction) (Transaction, error)
	MemberBalance(ctx context.Context, orgID, memberID string) (int64, error)

	// Membership tiers
	ListTiers(ctx context.Context, orgID string) ([]Tier, error)
	CreateTier(ctx context.Context, t Tier) (Tier, error)

	// Incidents
	ListIncidents(ctx context.Context, orgID string) ([]Incident, error)
	CreateIncident(ctx context.Context, i Incident) (Incident, error)

	// Rides
	ListRides(ctx context.Context, orgID string) ([]Ride, error)
	CreateRide(ctx context.Context, r Ride) (Ride, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error

	Close()
}

// BalanceFromTransactions computes a member balance in cents from a ledger
// slice: charges and dues add, payments subtract.
func BalanceFromTransactions(txs []Transaction) int64 {
	var balance int64
	for _, tx := range txs {
		switch tx.Type {
		case "payment":
			balance -= tx.AmountCents
		default: // "charge", "dues"
			balance += tx.AmountCents
		}
	}
	return balance
}
