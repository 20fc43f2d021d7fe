package event

import (
	"database/sql"
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
)

func DeleteEventHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
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

		if err := svcCtx.DB.DeleteEvent(r.Context(), id); err != nil {
			logging.Errorf("Failed to delete event %s: %v", id, err)
			httputil.InternalError(w, "could not delete event")
			return
		}
		httputil.OkJSON(w, map[string]bool{"deleted": true})
	}
}
