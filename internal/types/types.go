// Package types holds the request and response shapes of the HTTP API.
package types

import (
	"github.com/convive/convive/internal/convo"
	"github.com/convive/convive/internal/db"
)

// Auth

type RequestCodeRequest struct {
	Phone string `json:"phone"`
}

type RequestCodeResponse struct {
	Sent bool `json:"sent"`
	// DebugCode is only populated outside production mode so local setups
	// work without an SMS gateway.
	DebugCode string `json:"debug_code,omitempty"`
}

type VerifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
	Name  string `json:"name,omitempty"`
}

type AuthResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"` // unix millis
	User         *db.User `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

// Events

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"` // RFC3339
	MaxGuests   int    `json:"max_guests,omitempty"`
}

type UpdateEventRequest struct {
	ID          string `path:"id" json:"-"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location"`
	StartsAt    string `json:"starts_at"`
	MaxGuests   int    `json:"max_guests,omitempty"`
}

type EventListResponse struct {
	Events []db.Event `json:"events"`
}

// EventDetailResponse is a single event plus the host's chat room for it.
type EventDetailResponse struct {
	*db.Event
	RoomID string `json:"room_id"`
}

// Invitations

type CreateInviteRequest struct {
	EventID   string `path:"id" json:"-"`
	Phone     string `json:"phone"`
	GuestName string `json:"guest_name,omitempty"`
}

type InviteListResponse struct {
	Invitations []db.Invitation `json:"invitations"`
}

// InviteView is the public shape served on the token routes; it omits the
// other guests and the host's internal IDs.
type InviteView struct {
	GuestName string    `json:"guest_name,omitempty"`
	Status    string    `json:"status"`
	Event     *db.Event `json:"event"`
	HostName  string    `json:"host_name,omitempty"`
}

type RespondRequest struct {
	Status string `json:"status"`
}

type RespondResponse struct {
	Status string `json:"status"`
}

type RoomStatusResponse struct {
	Status string `json:"status"`
}

// Chat

type ChatMessageRequest struct {
	RoomID string `json:"roomId"`
	Sender string `json:"sender"`
	Origin string `json:"origin,omitempty"`
	Text   string `json:"text"`
}

type ChatMessageResponse struct {
	Handled bool          `json:"handled"`
	Record  *convo.Record `json:"record,omitempty"`
}

// Calendar

type CalendarConnectResponse struct {
	URL string `json:"url"`
}

type CalendarStatusResponse struct {
	Connected bool `json:"connected"`
}

// Health

type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}
