package chat

import (
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/svc"
)

// RoomStateHandler returns the merged record, polled invitation status, and
// prompt fragment for a room.
func RoomStateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svcCtx.Rooms == nil {
			httputil.ErrorWithCode(w, http.StatusServiceUnavailable, "chat pipeline not configured")
			return
		}

		state, err := svcCtx.Rooms.Get(r.Context(), httputil.PathVar(r, "roomId"))
		if err != nil {
			httputil.InternalError(w, "could not load room state")
			return
		}
		httputil.OkJSON(w, state)
	}
}
