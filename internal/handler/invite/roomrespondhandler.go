package invite

import (
	"database/sql"
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

// RoomRespondHandler records an RSVP decision pushed by the chat pipeline,
// addressed by room rather than token.
func RoomRespondHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := httputil.PathVar(r, "roomId")

		var req types.RespondRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		status, err := normalizeStatus(req.Status)
		if err != nil {
			httputil.Error(w, err)
			return
		}

		inv, err := svcCtx.DB.GetInvitationByRoom(r.Context(), roomID)
		if err != nil {
			if err == sql.ErrNoRows {
				httputil.NotFound(w, "room not found")
			} else {
				httputil.InternalError(w, "could not load invitation")
			}
			return
		}

		if err := applyResponse(r.Context(), svcCtx, inv, status); err != nil {
			logging.Errorf("Failed to record response for room %s: %v", roomID, err)
			httputil.InternalError(w, "could not record response")
			return
		}
		httputil.OkJSON(w, &types.RespondResponse{Status: inv.Status})
	}
}

// RoomStatusHandler reports the invitation status for a room. The chat
// pipeline polls this while waiting for the respond push to land.
func RoomStatusHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := httputil.PathVar(r, "roomId")

		inv, err := svcCtx.DB.GetInvitationByRoom(r.Context(), roomID)
		if err != nil {
			if err == sql.ErrNoRows {
				httputil.NotFound(w, "room not found")
			} else {
				httputil.InternalError(w, "could not load invitation")
			}
			return
		}
		httputil.OkJSON(w, &types.RoomStatusResponse{Status: inv.Status})
	}
}
