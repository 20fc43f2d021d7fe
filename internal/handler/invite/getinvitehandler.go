package invite

import (
	"database/sql"
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

// GetInviteHandler is the public token route a guest lands on from their SMS.
func GetInviteHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := httputil.PathVar(r, "token")

		inv, err := svcCtx.DB.GetInvitationByToken(r.Context(), token)
		if err != nil {
			if err == sql.ErrNoRows {
				httputil.NotFound(w, "invitation not found")
			} else {
				httputil.InternalError(w, "could not load invitation")
			}
			return
		}

		event, err := svcCtx.DB.GetEvent(r.Context(), inv.EventID)
		if err != nil {
			httputil.InternalError(w, "could not load event")
			return
		}

		view := &types.InviteView{
			GuestName: inv.GuestName,
			Status:    inv.Status,
			Event:     event,
		}
		if host, err := svcCtx.DB.GetUser(r.Context(), event.HostID); err == nil {
			view.HostName = host.Name
		}
		httputil.OkJSON(w, view)
	}
}
