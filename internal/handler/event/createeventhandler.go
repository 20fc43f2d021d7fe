package event

import (
	"fmt"
	"net/http"
	"time"

	"github.com/convive/convive/internal/db"
	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

func CreateEventHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.CreateEventRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		if req.Title == "" || req.StartsAt == "" {
			httputil.Error(w, fmt.Errorf("title and starts_at are required"))
			return
		}
		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			httputil.Error(w, fmt.Errorf("starts_at must be RFC3339: %w", err))
			return
		}

		hostID := middleware.GetUserID(r.Context())
		created, err := svcCtx.DB.CreateEvent(r.Context(), &db.Event{
			HostID:      hostID,
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			StartsAt:    startsAt,
			MaxGuests:   req.MaxGuests,
		})
		if err != nil {
			logging.Errorf("Failed to create event for host %s: %v", hostID, err)
			httputil.InternalError(w, "could not create event")
			return
		}

		// Mirror the dinner onto the host's calendar when one is connected.
		if svcCtx.Calendar.Enabled() && svcCtx.Calendar.Connected(r.Context(), hostID) {
			if _, err := svcCtx.Calendar.CreateEvent(r.Context(), hostID, created); err != nil {
				logging.Warnf("Calendar event creation failed for host %s: %v", hostID, err)
			}
		}

		httputil.CreatedJSON(w, created)
	}
}
