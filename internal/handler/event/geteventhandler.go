package event

import (
	"database/sql"
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/room"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

func GetEventHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := httputil.PathVar(r, "id")

		event, err := svcCtx.DB.GetEvent(r.Context(), id)
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

		httputil.OkJSON(w, types.EventDetailResponse{
			Event:  event,
			RoomID: room.ForHost(event.ID, event.HostID),
		})
	}
}
