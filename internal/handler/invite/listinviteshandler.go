package invite

import (
	"database/sql"
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

func ListInvitesHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := httputil.PathVar(r, "id")

		event, err := svcCtx.DB.GetEvent(r.Context(), eventID)
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

		invitations, err := svcCtx.DB.ListInvitationsByEvent(r.Context(), eventID)
		if err != nil {
			httputil.InternalError(w, "could not list invitations")
			return
		}
		httputil.OkJSON(w, &types.InviteListResponse{Invitations: invitations})
	}
}
