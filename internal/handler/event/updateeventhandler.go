package event

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

func UpdateEventHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.UpdateEventRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		event, err := svcCtx.DB.GetEvent(r.Context(), req.ID)
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

		if req.Title != "" {
			event.Title = req.Title
		}
		if req.Description != "" {
			event.Description = req.Description
		}
		if req.Location != "" {
			event.Location = req.Location
		}
		if req.StartsAt != "" {
			startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
			if err != nil {
				httputil.Error(w, fmt.Errorf("starts_at must be RFC3339: %w", err))
				return
			}
			event.StartsAt = startsAt
		}
		if req.MaxGuests > 0 {
			event.MaxGuests = req.MaxGuests
		}

		if err := svcCtx.DB.UpdateEvent(r.Context(), event); err != nil {
			logging.Errorf("Failed to update event %s: %v", event.ID, err)
			httputil.InternalError(w, "could not update event")
			return
		}
		httputil.OkJSON(w, event)
	}
}
