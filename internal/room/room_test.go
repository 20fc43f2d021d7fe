package room

import (
	"testing"

	"github.com/google/uuid"
)

func TestForGuestDeterministic(t *testing.T) {
	a := ForGuest("event-1", "tok-abc")
	b := ForGuest("event-1", "tok-abc")
	if a != b {
		t.Errorf("same inputs should derive the same room: %s vs %s", a, b)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("room ID should be a valid UUID: %v", err)
	}
}

func TestForGuestDistinct(t *testing.T) {
	if ForGuest("event-1", "tok-a") == ForGuest("event-1", "tok-b") {
		t.Error("different tokens should derive different rooms")
	}
	if ForGuest("event-1", "tok-a") == ForGuest("event-2", "tok-a") {
		t.Error("different events should derive different rooms")
	}
}

func TestHostGuestNamespacesDisjoint(t *testing.T) {
	// A host ID equal to a token must not collide with the guest room.
	if ForHost("event-1", "x") == ForGuest("event-1", "x") {
		t.Error("host and guest rooms should never collide")
	}
}
