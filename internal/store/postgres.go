package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the PostgreSQL-backed Store. It holds a single pgxpool and
// is safe for concurrent use.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to the database at dsn, verifies the connection,
// and runs the schema migration.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres store: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: ping: %w", err)
	}
	if err := migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres store: migrate: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// migrate creates all tables if they do not exist yet.
func migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
CREATE TABLE IF NOT EXISTS members (
	id          TEXT PRIMARY KEY,
	org_id      TEXT NOT NULL,
	email       TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	role        TEXT NOT NULL DEFAULT 'member',
	tier        TEXT NOT NULL DEFAULT '',
	joined      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS members_org_idx ON members (org_id);

CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	org_id      TEXT NOT NULL,
	title       TEXT NOT NULL,
	start_time  TIMESTAMPTZ NOT NULL,
	end_time    TIMESTAMPTZ NOT NULL,
	location    TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS events_org_start_idx ON events (org_id, start_time);

CREATE TABLE IF NOT EXISTS announcements (
	id         TEXT PRIMARY KEY,
	org_id     TEXT NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	author_id  TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS announcements_org_idx ON announcements (org_id, created_at DESC);

CREATE TABLE IF NOT EXISTS transactions (
	id           TEXT PRIMARY KEY,
	org_id       TEXT NOT NULL,
	member_id    TEXT NOT NULL REFERENCES members (id),
	amount_cents BIGINT NOT NULL,
	type         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS transactions_org_member_idx ON transactions (org_id, member_id);

CREATE TABLE IF NOT EXISTS tiers (
	id          TEXT PRIMARY KEY,
	org_id      TEXT NOT NULL,
	name        TEXT NOT NULL,
	class_name  TEXT NOT NULL,
	dues_cents  BIGINT NOT NULL,
	frequency   TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS tiers_org_idx ON tiers (org_id);

CREATE TABLE IF NOT EXISTS incidents (
	id          TEXT PRIMARY KEY,
	org_id      TEXT NOT NULL,
	reporter_id TEXT NOT NULL DEFAULT '',
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL,
	severity    TEXT NOT NULL,
	location    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS incidents_org_idx ON incidents (org_id, occurred_at DESC);

CREATE TABLE IF NOT EXISTS rides (
	id           TEXT PRIMARY KEY,
	org_id       TEXT NOT NULL,
	requester_id TEXT NOT NULL DEFAULT '',
	pickup       TEXT NOT NULL,
	dropoff      TEXT NOT NULL,
	pickup_time  TIMESTAMPTZ,
	notes        TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'requested',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS rides_org_idx ON rides (org_id, created_at);
`
	_, err := pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) ListMembers(ctx context.Context, orgID string) ([]Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, org_id, email, name, role, tier, joined
		 FROM members WHERE org_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.OrgID, &m.Email, &m.Name, &m.Role, &m.Tier, &m.Joined); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetMember(ctx context.Context, orgID, memberID string) (Member, error) {
	var m Member
	err := s.pool.QueryRow(ctx,
		`SELECT id, org_id, email, name, role, tier, joined
		 FROM members WHERE org_id = $1 AND id = $2`, orgID, memberID).
		Scan(&m.ID, &m.OrgID, &m.Email, &m.Name, &m.Role, &m.Tier, &m.Joined)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	if err != nil {
		return Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) AddMember(ctx context.Context, m Member) (Member, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Joined.IsZero() {
		m.Joined = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO members (id, org_id, email, name, role, tier, joined)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.OrgID, m.Email, m.Name, m.Role, m.Tier, m.Joined)
	if err != nil {
		return Member{}, fmt.Errorf("add member: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) UpdateMemberRole(ctx context.Context, orgID, memberID, role string) (Member, error) {
	return s.updateMember(ctx, orgID, memberID, "role", role)
}

func (s *PostgresStore) UpdateMemberTier(ctx context.Context, orgID, memberID, tier string) (Member, error) {
	return s.updateMember(ctx, orgID, memberID, "tier", tier)
}

func (s *PostgresStore) updateMember(ctx context.Context, orgID, memberID, column, value string) (Member, error) {
	// column is one of the fixed names "role" / "tier", never user input.
	var m Member
	err := s.pool.QueryRow(ctx,
		`UPDATE members SET `+column+` = $3 WHERE org_id = $1 AND id = $2
		 RETURNING id, org_id, email, name, role, tier, joined`,
		orgID, memberID, value).
		Scan(&m.ID, &m.OrgID, &m.Email, &m.Name, &m.Role, &m.Tier, &m.Joined)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, fmt.Errorf("member %s: %w", memberID, ErrNotFound)
	}
	if err != nil {
		return Member{}, fmt.Errorf("update member %s: %w", column, err)
	}
	return m, nil
}

func (s *PostgresStore) ListEvents(ctx context.Context, orgID string, from time.Time) ([]Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, org_id, title, start_time, end_time, location, description
		 FROM events WHERE org_id = $1 AND end_time >= $2 ORDER BY start_time`, orgID, from)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.OrgID, &e.Title, &e.StartTime, &e.EndTime, &e.Location, &e.Description); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateEvent(ctx context.Context, e Event) (Event, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, org_id, title, start_time, end_time, location, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.OrgID, e.Title, e.StartTime, e.EndTime, e.Location, e.Description)
	if err != nil {
		return Event{}, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) ListAnnouncements(ctx context.Context, orgID string, limit int) ([]Announcement, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, org_id, title, message, author_id, created_at
		 FROM announcements WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2`, orgID, limit)
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var out []Announcement
	for rows.Next() {
		var a Announcement
		if err := rows.Scan(&a.ID, &a.OrgID, &a.Title, &a.Message, &a.AuthorID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO announcements (id, org_id, title, message, author_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.OrgID, a.Title, a.Message, a.AuthorID, a.CreatedAt)
	if err != nil {
		return Announcement{}, fmt.Errorf("create announcement: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, orgID, memberID string) ([]Transaction, error) {
	query := `SELECT id, org_id, member_id, amount_cents, type, description, created_at
	          FROM transactions WHERE org_id = $1`
	args := []any{orgID}
	if memberID != "" {
		query += ` AND member_id = $2`
		args = append(args, memberID)
	}
	query += ` ORDER BY created_at`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.OrgID, &t.MemberID, &t.AmountCents, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) RecordTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	if _, err := s.GetMember(ctx, t.OrgID, t.MemberID); err != nil {
		return Transaction{}, err
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO transactions (id, org_id, member_id, amount_cents, type, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.OrgID, t.MemberID, t.AmountCents, t.Type, t.Description, t.CreatedAt)
	if err != nil {
		return Transaction{}, fmt.Errorf("record transaction: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) MemberBalance(ctx context.Context, orgID, memberID string) (int64, error) {
	if _, err := s.GetMember(ctx, orgID, memberID); err != nil {
		return 0, err
	}
	var balance int64
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(CASE WHEN type = 'payment' THEN -amount_cents ELSE amount_cents END), 0)
		 FROM transactions WHERE org_id = $1 AND member_id = $2`, orgID, memberID).
		Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("member balance: %w", err)
	}
	return balance, nil
}

func (s *PostgresStore) ListTiers(ctx context.Context, orgID string) ([]Tier, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, org_id, name, class_name, dues_cents, frequency, description
		 FROM tiers WHERE org_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}
	defer rows.Close()

	var out []Tier
	for rows.Next() {
		var t Tier
		if err := rows.Scan(&t.ID, &t.OrgID, &t.Name, &t.ClassName, &t.DuesCents, &t.Frequency, &t.Description); err != nil {
			return nil, fmt.Errorf("scan tier: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateTier(ctx context.Context, t Tier) (Tier, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tiers (id, org_id, name, class_name, dues_cents, frequency, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.OrgID, t.Name, t.ClassName, t.DuesCents, t.Frequency, t.Description)
	if err != nil {
		return Tier{}, fmt.Errorf("create tier: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) ListIncidents(ctx context.Context, orgID string) ([]Incident, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, org_id, reporter_id, title, description, occurred_at, severity, location
		 FROM incidents WHERE org_id = $1 ORDER BY occurred_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []Incident
	for rows.Next() {
		var i Incident
		if err := rows.Scan(&i.ID, &i.OrgID, &i.ReporterID, &i.Title, &i.Description, &i.OccurredAt, &i.Severity, &i.Location); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateIncident(ctx context.Context, i Incident) (Incident, error) {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO incidents (id, org_id, reporter_id, title, description, occurred_at, severity, location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		i.ID, i.OrgID, i.ReporterID, i.Title, i.Description, i.OccurredAt, i.Severity, i.Location)
	if err != nil {
		return Incident{}, fmt.Errorf("create incident: %w", err)
	}
	return i, nil
}

func (s *PostgresStore) ListRides(ctx context.Context, orgID string) ([]Ride, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, org_id, requester_id, pickup, dropoff, pickup_time, notes, status, created_at
		 FROM rides WHERE org_id = $1 ORDER BY created_at`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list rides: %w", err)
	}
	defer rows.Close()

	var out []Ride
	for rows.Next() {
		var r Ride
		if err := rows.Scan(&r.ID, &r.OrgID, &r.RequesterID, &r.Pickup, &r.Dropoff, &r.PickupTime, &r.Notes, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ride: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateRide(ctx context.Context, r Ride) (Ride, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = "requested"
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO rides (id, org_id, requester_id, pickup, dropoff, pickup_time, notes, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		r.ID, r.OrgID, r.RequesterID, r.Pickup, r.Dropoff, r.PickupTime, r.Notes, r.Status, r.CreatedAt)
	if err != nil {
		return Ride{}, fmt.Errorf("create ride: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *PostgresStore) Close() { s.pool.Close() }
