package invite

import (
	"context"
	"fmt"
	"strings"

	"github.com/convive/convive/internal/convo"
	"github.com/convive/convive/internal/db"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/svc"
)

// normalizeStatus maps an incoming response value to the invitation enum.
// The chat pipeline speaks the conversation vocabulary ("attending"/"declined");
// API clients may send the enum values directly. This boundary owns the mapping.
func normalizeStatus(status string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case convo.RSVPAttending, "accepted", "yes":
		return db.StatusAccepted, nil
	case convo.RSVPDeclined, "no":
		return db.StatusDeclined, nil
	default:
		return "", fmt.Errorf("unknown status %q", status)
	}
}

// applyResponse records a guest's decision and, on acceptance, mirrors the
// event onto the guest's calendar when one is connected. Calendar failures
// are logged, not surfaced; the RSVP itself has already been recorded.
func applyResponse(ctx context.Context, svcCtx *svc.ServiceContext, inv *db.Invitation, status string) error {
	if err := svcCtx.DB.SetInvitationStatus(ctx, inv.ID, status); err != nil {
		return err
	}
	inv.Status = status

	if status != db.StatusAccepted || !svcCtx.Calendar.Enabled() || inv.CalendarEventID != "" {
		return nil
	}
	guest, err := svcCtx.DB.GetUserByPhone(ctx, inv.Phone)
	if err != nil {
		return nil // guest has no account, nothing to mirror onto
	}
	if !svcCtx.Calendar.Connected(ctx, guest.ID) {
		return nil
	}

	event, err := svcCtx.DB.GetEvent(ctx, inv.EventID)
	if err != nil {
		logging.Errorf("Invitation %s references missing event %s: %v", inv.ID, inv.EventID, err)
		return nil
	}
	calEventID, err := svcCtx.Calendar.CreateEvent(ctx, guest.ID, event)
	if err != nil {
		logging.Warnf("Calendar event creation failed for guest %s: %v", guest.ID, err)
		return nil
	}
	if err := svcCtx.DB.SetInvitationCalendarEvent(ctx, inv.ID, calEventID); err != nil {
		logging.Errorf("Failed to record calendar event for invitation %s: %v", inv.ID, err)
	}
	return nil
}
