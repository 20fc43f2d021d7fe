package convo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/convive/convive/internal/db"
)

// stateWindow is how many recent memories Load scans for a record.
const stateWindow = 10

// MemoryStore is the room-keyed, append-only storage the adapter runs over.
// *db.Store satisfies it.
type MemoryStore interface {
	GetMemories(ctx context.Context, roomID string, window int) ([]db.Memory, error)
	CreateMemory(ctx context.Context, m *db.Memory) error
	RemoveMemory(ctx context.Context, id string) error
}

// StateStore persists one Record per room as a JSON memory. The backing store
// is append-only, so an update removes the old records and inserts a new one.
type StateStore struct {
	mem MemoryStore
}

// NewStateStore creates a persistence adapter over a memory store.
func NewStateStore(mem MemoryStore) *StateStore {
	return &StateStore{mem: mem}
}

// Load returns the most recent record for a room, or nil if none exists yet.
func (s *StateStore) Load(ctx context.Context, roomID string) (*Record, error) {
	memories, err := s.mem.GetMemories(ctx, roomID, stateWindow)
	if err != nil {
		return nil, fmt.Errorf("load room state: %w", err)
	}
	for _, m := range memories {
		var rec Record
		if err := json.Unmarshal([]byte(m.Content), &rec); err != nil {
			continue // not a state record, skip
		}
		return &rec, nil
	}
	return nil, nil
}

// Save writes the record for a room, replacing any previous state memories.
func (s *StateStore) Save(ctx context.Context, roomID string, rec *Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode room state: %w", err)
	}

	// Drop old state records first; the store has no in-place update.
	memories, err := s.mem.GetMemories(ctx, roomID, stateWindow)
	if err != nil {
		return fmt.Errorf("scan room state: %w", err)
	}
	for _, m := range memories {
		var rec Record
		if json.Unmarshal([]byte(m.Content), &rec) != nil {
			continue
		}
		if err := s.mem.RemoveMemory(ctx, m.ID); err != nil {
			return fmt.Errorf("remove stale room state: %w", err)
		}
	}

	if err := s.mem.CreateMemory(ctx, &db.Memory{RoomID: roomID, Content: string(data)}); err != nil {
		return fmt.Errorf("save room state: %w", err)
	}
	return nil
}
