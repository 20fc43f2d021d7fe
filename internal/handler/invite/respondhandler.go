package invite

import (
	"database/sql"
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

// RespondHandler records a guest's RSVP on the public token route.
func RespondHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := httputil.PathVar(r, "token")

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

		inv, err := svcCtx.DB.GetInvitationByToken(r.Context(), token)
		if err != nil {
			if err == sql.ErrNoRows {
				httputil.NotFound(w, "invitation not found")
			} else {
				httputil.InternalError(w, "could not load invitation")
			}
			return
		}

		if err := applyResponse(r.Context(), svcCtx, inv, status); err != nil {
			logging.Errorf("Failed to record response for invitation %s: %v", inv.ID, err)
			httputil.InternalError(w, "could not record response")
			return
		}
		httputil.OkJSON(w, &types.RespondResponse{Status: inv.Status})
	}
}
