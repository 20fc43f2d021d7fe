package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Store wraps the shared SQLite connection with typed queries for the
// convive domain tables.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an existing connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetDB returns the underlying database connection for sharing with other components
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// User is a registered host or guest account, keyed by phone number.
type User struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GetOrCreateUser returns the user for a phone number, creating one on first login.
func (s *Store) GetOrCreateUser(ctx context.Context, phone, name string) (*User, error) {
	u, err := s.GetUserByPhone(ctx, phone)
	if err == nil {
		if name != "" && name != u.Name {
			if _, err := s.db.ExecContext(ctx,
				`UPDATE users SET name = ?, updated_at = unixepoch() WHERE id = ?`, name, u.ID); err != nil {
				return nil, fmt.Errorf("update user name: %w", err)
			}
			u.Name = name
		}
		return u, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, phone, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, phone, name, now.Unix(), now.Unix()); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &User{ID: id, Phone: phone, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// GetUser returns a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, phone, name, created_at, updated_at FROM users WHERE id = ?`, id))
}

// GetUserByPhone returns a user by phone number.
func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, phone, name, created_at, updated_at FROM users WHERE phone = ?`, phone))
}

func (s *Store) scanUser(row *sql.Row) (*User, error) {
	var u User
	var created, updated int64
	if err := row.Scan(&u.ID, &u.Phone, &u.Name, &created, &updated); err != nil {
		return nil, err
	}
	u.CreatedAt = time.Unix(created, 0)
	u.UpdatedAt = time.Unix(updated, 0)
	return &u, nil
}

// Event is a dinner event owned by a host.
type Event struct {
	ID          string    `json:"id"`
	HostID      string    `json:"host_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at"`
	MaxGuests   int       `json:"max_guests"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateEvent inserts a new event and returns it with generated fields filled.
func (s *Store) CreateEvent(ctx context.Context, e *Event) (*Event, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (id, host_id, title, description, location, starts_at, max_guests, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.HostID, e.Title, e.Description, e.Location, e.StartsAt.Unix(), e.MaxGuests, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

// GetEvent returns an event by ID.
func (s *Store) GetEvent(ctx context.Context, id string) (*Event, error) {
	return s.scanEvent(s.db.QueryRowContext(ctx,
		`SELECT id, host_id, title, description, location, starts_at, max_guests, created_at, updated_at
		 FROM events WHERE id = ?`, id))
}

// ListEventsByHost returns all events owned by a host, soonest first.
func (s *Store) ListEventsByHost(ctx context.Context, hostID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, host_id, title, description, location, starts_at, max_guests, created_at, updated_at
		 FROM events WHERE host_id = ? ORDER BY starts_at ASC`, hostID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// ListEventsStartingBefore returns events whose start time falls between now
// and the deadline. Used by the reminder scheduler.
func (s *Store) ListEventsStartingBefore(ctx context.Context, deadline time.Time) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, host_id, title, description, location, starts_at, max_guests, created_at, updated_at
		 FROM events WHERE starts_at > unixepoch() AND starts_at <= ? ORDER BY starts_at ASC`, deadline.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// UpdateEvent applies the mutable fields of an event.
func (s *Store) UpdateEvent(ctx context.Context, e *Event) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, location = ?, starts_at = ?, max_guests = ?, updated_at = unixepoch()
		 WHERE id = ?`,
		e.Title, e.Description, e.Location, e.StartsAt.Unix(), e.MaxGuests, e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteEvent removes an event; invitations cascade.
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

func (s *Store) scanEvent(row *sql.Row) (*Event, error) {
	var e Event
	var starts, created, updated int64
	if err := row.Scan(&e.ID, &e.HostID, &e.Title, &e.Description, &e.Location, &starts, &e.MaxGuests, &created, &updated); err != nil {
		return nil, err
	}
	e.StartsAt = time.Unix(starts, 0)
	e.CreatedAt = time.Unix(created, 0)
	e.UpdatedAt = time.Unix(updated, 0)
	return &e, nil
}

func scanEventRow(rows *sql.Rows) (*Event, error) {
	var e Event
	var starts, created, updated int64
	if err := rows.Scan(&e.ID, &e.HostID, &e.Title, &e.Description, &e.Location, &starts, &e.MaxGuests, &created, &updated); err != nil {
		return nil, err
	}
	e.StartsAt = time.Unix(starts, 0)
	e.CreatedAt = time.Unix(created, 0)
	e.UpdatedAt = time.Unix(updated, 0)
	return &e, nil
}
