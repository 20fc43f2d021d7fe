package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CalendarAccount holds a user's calendar OAuth token, serialized as JSON.
type CalendarAccount struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Provider  string    `json:"provider"`
	TokenJSON string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// UpsertCalendarAccount stores or replaces the calendar token for a user.
func (s *Store) UpsertCalendarAccount(ctx context.Context, userID, provider, tokenJSON string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO calendar_accounts (id, user_id, provider, token_json, created_at)
		 VALUES (?, ?, ?, ?, unixepoch())
		 ON CONFLICT(user_id) DO UPDATE SET provider = excluded.provider, token_json = excluded.token_json`,
		uuid.New().String(), userID, provider, tokenJSON)
	return err
}

// GetCalendarAccount returns the stored calendar token for a user.
func (s *Store) GetCalendarAccount(ctx context.Context, userID string) (*CalendarAccount, error) {
	var a CalendarAccount
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, provider, token_json, created_at FROM calendar_accounts WHERE user_id = ?`,
		userID).Scan(&a.ID, &a.UserID, &a.Provider, &a.TokenJSON, &created)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(created, 0)
	return &a, nil
}

// DeleteCalendarAccount disconnects a user's calendar.
func (s *Store) DeleteCalendarAccount(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM calendar_accounts WHERE user_id = ?`, userID)
	return err
}
