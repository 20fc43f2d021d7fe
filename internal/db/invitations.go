package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Invitation status values. These are the invitation-level vocabulary; the
// conversation pipeline speaks a separate lowercase vocabulary ("attending"/
// "declined") that is mapped to this one at the respond boundary.
const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusDeclined = "DECLINED"
)

// Invitation tracks SMS delivery and RSVP response for one guest of one event.
type Invitation struct {
	ID              string     `json:"id"`
	EventID         string     `json:"event_id"`
	Phone           string     `json:"phone"`
	GuestName       string     `json:"guest_name"`
	Token           string     `json:"token"`
	RoomID          string     `json:"room_id"`
	Status          string     `json:"status"`
	SMSSent         bool       `json:"sms_sent"`
	CalendarEventID string     `json:"calendar_event_id,omitempty"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// CreateInvitation inserts a new invitation row.
func (s *Store) CreateInvitation(ctx context.Context, inv *Invitation) (*Invitation, error) {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.Status == "" {
		inv.Status = StatusPending
	}
	inv.CreatedAt = time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invitations (id, event_id, phone, guest_name, token, room_id, status, sms_sent, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.EventID, inv.Phone, inv.GuestName, inv.Token, inv.RoomID, inv.Status,
		boolToInt(inv.SMSSent), inv.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return inv, nil
}

// GetInvitation returns an invitation by ID.
func (s *Store) GetInvitation(ctx context.Context, id string) (*Invitation, error) {
	return s.scanInvitation(s.db.QueryRowContext(ctx, invitationSelect+` WHERE id = ?`, id))
}

// GetInvitationByToken returns an invitation by its public token.
func (s *Store) GetInvitationByToken(ctx context.Context, token string) (*Invitation, error) {
	return s.scanInvitation(s.db.QueryRowContext(ctx, invitationSelect+` WHERE token = ?`, token))
}

// GetInvitationByRoom returns the invitation whose chat room matches roomID.
func (s *Store) GetInvitationByRoom(ctx context.Context, roomID string) (*Invitation, error) {
	return s.scanInvitation(s.db.QueryRowContext(ctx, invitationSelect+` WHERE room_id = ?`, roomID))
}

// ListInvitationsByEvent returns all invitations for an event.
func (s *Store) ListInvitationsByEvent(ctx context.Context, eventID string) ([]Invitation, error) {
	rows, err := s.db.QueryContext(ctx, invitationSelect+` WHERE event_id = ? ORDER BY created_at ASC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvitations(rows)
}

// ListUnsentInvitations returns invitations whose SMS has not gone out yet.
func (s *Store) ListUnsentInvitations(ctx context.Context) ([]Invitation, error) {
	rows, err := s.db.QueryContext(ctx, invitationSelect+` WHERE sms_sent = 0 ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvitations(rows)
}

// ListAcceptedInvitationsByEvent returns accepted invitations for an event.
func (s *Store) ListAcceptedInvitationsByEvent(ctx context.Context, eventID string) ([]Invitation, error) {
	rows, err := s.db.QueryContext(ctx,
		invitationSelect+` WHERE event_id = ? AND status = ? ORDER BY created_at ASC`, eventID, StatusAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvitations(rows)
}

// SetInvitationStatus records a guest's response.
func (s *Store) SetInvitationStatus(ctx context.Context, id, status string) error {
	if status != StatusPending && status != StatusAccepted && status != StatusDeclined {
		return fmt.Errorf("invalid invitation status %q", status)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE invitations SET status = ?, responded_at = unixepoch() WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set invitation status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkInvitationSMSSent flips the SMS delivery flag.
func (s *Store) MarkInvitationSMSSent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE invitations SET sms_sent = 1 WHERE id = ?`, id)
	return err
}

// SetInvitationCalendarEvent records the calendar event created for this guest.
func (s *Store) SetInvitationCalendarEvent(ctx context.Context, id, calendarEventID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE invitations SET calendar_event_id = ? WHERE id = ?`, calendarEventID, id)
	return err
}

// DeleteInvitation removes an invitation.
func (s *Store) DeleteInvitation(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	return err
}

const invitationSelect = `SELECT id, event_id, phone, guest_name, token, room_id, status, sms_sent, calendar_event_id, responded_at, created_at FROM invitations`

func (s *Store) scanInvitation(row *sql.Row) (*Invitation, error) {
	var inv Invitation
	var smsSent int
	var responded sql.NullInt64
	var created int64
	if err := row.Scan(&inv.ID, &inv.EventID, &inv.Phone, &inv.GuestName, &inv.Token, &inv.RoomID,
		&inv.Status, &smsSent, &inv.CalendarEventID, &responded, &created); err != nil {
		return nil, err
	}
	inv.SMSSent = smsSent != 0
	if responded.Valid {
		t := time.Unix(responded.Int64, 0)
		inv.RespondedAt = &t
	}
	inv.CreatedAt = time.Unix(created, 0)
	return &inv, nil
}

func scanInvitations(rows *sql.Rows) ([]Invitation, error) {
	var out []Invitation
	for rows.Next() {
		var inv Invitation
		var smsSent int
		var responded sql.NullInt64
		var created int64
		if err := rows.Scan(&inv.ID, &inv.EventID, &inv.Phone, &inv.GuestName, &inv.Token, &inv.RoomID,
			&inv.Status, &smsSent, &inv.CalendarEventID, &responded, &created); err != nil {
			return nil, err
		}
		inv.SMSSent = smsSent != 0
		if responded.Valid {
			t := time.Unix(responded.Int64, 0)
			inv.RespondedAt = &t
		}
		inv.CreatedAt = time.Unix(created, 0)
		out = append(out, inv)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
