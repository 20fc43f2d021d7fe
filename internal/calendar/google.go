package calendar

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/convive/convive/internal/config"
	"github.com/convive/convive/internal/db"
)

// defaultDuration is assumed for events, which only carry a start time.
const defaultDuration = 2 * time.Hour

// ErrNotConnected is returned when a user has no calendar account on record.
var ErrNotConnected = fmt.Errorf("calendar not connected")

// Google manages per-user Google Calendar access. OAuth tokens are stored
// as JSON in the calendar_accounts table.
type Google struct {
	cfg     *oauth2.Config
	store   *db.Store
	enabled bool
}

// NewGoogle builds the calendar integration from config. When the client ID
// or secret is missing the integration is disabled and every call fails fast.
func NewGoogle(c config.Config, store *db.Store) *Google {
	redirect := c.Calendar.RedirectURL
	if redirect == "" {
		redirect = c.ServerBaseURL() + "/api/v1/calendar/callback"
	}
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     c.Calendar.GoogleClientID,
			ClientSecret: c.Calendar.GoogleClientSecret,
			RedirectURL:  redirect,
			Scopes:       []string{gcal.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
		store:   store,
		enabled: c.IsCalendarEnabled() && c.Calendar.GoogleClientID != "" && c.Calendar.GoogleClientSecret != "",
	}
}

// Enabled reports whether the integration is configured.
func (g *Google) Enabled() bool {
	return g.enabled
}

// AuthURL returns the consent page URL for the OAuth web flow. state is
// round-tripped through Google and checked again on callback.
func (g *Google) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the callback code for a token and stores it for the user.
func (g *Google) Exchange(ctx context.Context, userID, code string) error {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange auth code: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return g.store.UpsertCalendarAccount(ctx, userID, "google", string(data))
}

// Disconnect removes the stored token for a user.
func (g *Google) Disconnect(ctx context.Context, userID string) error {
	return g.store.DeleteCalendarAccount(ctx, userID)
}

// Connected reports whether a user has a token on record.
func (g *Google) Connected(ctx context.Context, userID string) bool {
	_, err := g.store.GetCalendarAccount(ctx, userID)
	return err == nil
}

// CreateEvent inserts a dinner event into the user's primary calendar and
// returns the created calendar event ID.
func (g *Google) CreateEvent(ctx context.Context, userID string, event *db.Event) (string, error) {
	service, err := g.service(ctx, userID)
	if err != nil {
		return "", err
	}

	end := event.StartsAt.Add(defaultDuration)
	created, err := service.Events.Insert("primary", &gcal.Event{
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
		Start:       &gcal.EventDateTime{DateTime: event.StartsAt.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}
	return created.Id, nil
}

// DeleteEvent removes a previously created calendar event. A missing event
// is not an error; the user may have deleted it themselves.
func (g *Google) DeleteEvent(ctx context.Context, userID, calendarEventID string) error {
	service, err := g.service(ctx, userID)
	if err != nil {
		return err
	}
	if err := service.Events.Delete("primary", calendarEventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

// service builds an authenticated calendar service for a user from the
// stored token. The oauth2 client refreshes expired tokens transparently.
func (g *Google) service(ctx context.Context, userID string) (*gcal.Service, error) {
	account, err := g.store.GetCalendarAccount(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotConnected
		}
		return nil, fmt.Errorf("load calendar account: %w", err)
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal([]byte(account.TokenJSON), token); err != nil {
		return nil, fmt.Errorf("decode stored token: %w", err)
	}

	client := g.cfg.Client(ctx, token)
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return service, nil
}
