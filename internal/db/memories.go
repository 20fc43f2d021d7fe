package db

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Memory is one append-only record in a conversation room. The conversation
// pipeline stores its merged state as JSON in Content.
type Memory struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// GetMemories returns up to window most recent memories for a room, newest first.
func (s *Store) GetMemories(ctx context.Context, roomID string, window int) ([]Memory, error) {
	if window <= 0 {
		window = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_id, content, created_at FROM conversation_memories
		 WHERE room_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`, roomID, window)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Memory
	for rows.Next() {
		var m Memory
		var created int64
		if err := rows.Scan(&m.ID, &m.RoomID, &m.Content, &created); err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(created, 0)
		out = append(out, m)
	}
	return out, rows.Err()
}

// CreateMemory appends a memory record to a room.
func (s *Store) CreateMemory(ctx context.Context, m *Memory) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversation_memories (id, room_id, content, created_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.RoomID, m.Content, m.CreatedAt.Unix())
	return err
}

// RemoveMemory deletes a memory record by ID.
func (s *Store) RemoveMemory(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM conversation_memories WHERE id = ?`, id)
	return err
}
