package convo

import (
	"context"
	"fmt"
	"strings"
)

// StateProvider is the read path: it combines the latest persisted record
// with the polled invitation status into a prompt fragment for the agent's
// next turn.
type StateProvider struct {
	store  *StateStore
	poller *StatusPoller
}

// NewStateProvider creates a provider over the state store and status poller.
func NewStateProvider(store *StateStore, poller *StatusPoller) *StateProvider {
	return &StateProvider{store: store, poller: poller}
}

// RoomState is what the read path knows about a room.
type RoomState struct {
	Record           *Record `json:"record,omitempty"`
	InvitationStatus string  `json:"invitation_status"`
	Prompt           string  `json:"prompt"`
}

// Get fetches the persisted record and the polled status for a room.
func (p *StateProvider) Get(ctx context.Context, roomID string) (*RoomState, error) {
	rec, err := p.store.Load(ctx, roomID)
	if err != nil {
		return nil, err
	}
	status := p.poller.Poll(ctx, roomID)

	return &RoomState{
		Record:           rec,
		InvitationStatus: status,
		Prompt:           buildPrompt(rec, status),
	}, nil
}

// buildPrompt renders the known guest state as a fragment the agent can fold
// into its next system prompt.
func buildPrompt(rec *Record, status string) string {
	var sb strings.Builder
	sb.WriteString("Guest profile so far:\n")

	if rec == nil {
		sb.WriteString("- nothing known yet\n")
	} else {
		writeKnown(&sb, "name", rec.Name)
		writeKnown(&sb, "location", rec.Location)
		writeKnown(&sb, "occupation", rec.Occupation)
		writeKnown(&sb, "RSVP", rec.RSVPStatus)
		if rec.IsComplete {
			sb.WriteString("- profile complete\n")
		}
	}

	fmt.Fprintf(&sb, "Invitation status on record: %s\n", status)
	return sb.String()
}

func writeKnown(sb *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		fmt.Fprintf(sb, "- %s: unknown\n", label)
		return
	}
	fmt.Fprintf(sb, "- %s: %s\n", label, value)
}
