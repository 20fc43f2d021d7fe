package invite

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/convive/convive/internal/calendar"
	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/svc"
)

// ICSHandler serves the event as an iCalendar file so guests without a
// connected calendar can still import the dinner.
func ICSHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
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

		host, _ := svcCtx.DB.GetUser(r.Context(), event.HostID)
		data, err := calendar.EncodeICS(event, host)
		if err != nil {
			httputil.InternalError(w, "could not encode event")
			return
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "event.ics"))
		w.Write(data)
	}
}
