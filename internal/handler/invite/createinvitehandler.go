package invite

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/convive/convive/internal/db"
	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/room"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

// CreateInviteHandler creates an invitation for an event and texts the guest
// their invite link. A failed SMS leaves the row with sms_sent unset; the
// reminder scheduler retries those.
func CreateInviteHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateInviteRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if req.Phone == "" {
			httputil.Error(w, fmt.Errorf("phone is required"))
			return
		}

		event, err := svcCtx.DB.GetEvent(r.Context(), req.EventID)
		if err != nil {
			if err == sql.ErrNoRows {
				httputil.NotFound(w, "event not found")
			} else {
				httputil.InternalError(w, "could not load event")
			}
			return
		}
		if event.HostID != middleware.GetUserID(r.Context()) {
			httputil.NotFound(w, "event not found")
			return
		}

		if event.MaxGuests > 0 {
			existing, err := svcCtx.DB.ListInvitationsByEvent(r.Context(), event.ID)
			if err != nil {
				httputil.InternalError(w, "could not list invitations")
				return
			}
			if len(existing) >= event.MaxGuests {
				httputil.Error(w, fmt.Errorf("event is full"))
				return
			}
		}

		token := uuid.New().String()
		inv, err := svcCtx.DB.CreateInvitation(r.Context(), &db.Invitation{
			EventID:   event.ID,
			Phone:     req.Phone,
			GuestName: req.GuestName,
			Token:     token,
			RoomID:    room.ForGuest(event.ID, token),
		})
		if err != nil {
			logging.Errorf("Failed to create invitation for event %s: %v", event.ID, err)
			httputil.InternalError(w, "could not create invitation")
			return
		}

		body := inviteSMSBody(svcCtx, event, inv)
		if err := svcCtx.SMS.Send(r.Context(), inv.Phone, body); err != nil {
			logging.Errorf("Failed to send invite SMS to %s: %v", inv.Phone, err)
		} else if err := svcCtx.DB.MarkInvitationSMSSent(r.Context(), inv.ID); err != nil {
			logging.Errorf("Failed to mark invitation %s sent: %v", inv.ID, err)
		} else {
			inv.SMSSent = true
		}

		httputil.CreatedJSON(w, inv)
	}
}

func inviteSMSBody(svcCtx *svc.ServiceContext, event *db.Event, inv *db.Invitation) string {
	link := fmt.Sprintf("%s/invite/%s", svcCtx.Config.ServerBaseURL(), inv.Token)
	return fmt.Sprintf("You're invited to %s on %s. RSVP: %s",
		event.Title, event.StartsAt.Format("Mon Jan 2 at 3:04 PM"), link)
}
