// Package room derives stable chat-room identifiers. A room keys one
// guest-agent or host-agent thread, so the same event and participant always
// map to the same UUID regardless of which server instance computes it.
package room

import "github.com/google/uuid"

// namespace salts room derivation so convive room UUIDs don't collide with
// other v5 UUIDs derived from the same strings.
var namespace = uuid.MustParse("9f2d61f4-3a07-4c7e-8f25-6bfb6ac0c24d")

// ForGuest derives the room ID for a guest thread from the event ID and the
// invitation token.
func ForGuest(eventID, invitationToken string) string {
	return uuid.NewSHA1(namespace, []byte("guest:"+eventID+":"+invitationToken)).String()
}

// ForHost derives the room ID for the host thread of an event.
func ForHost(eventID, hostID string) string {
	return uuid.NewSHA1(namespace, []byte("host:"+eventID+":"+hostID)).String()
}
