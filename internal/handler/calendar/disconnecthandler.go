package calendar

import (
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
)

func DisconnectHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.GetUserID(r.Context())
		if err := svcCtx.Calendar.Disconnect(r.Context(), userID); err != nil {
			logging.Errorf("Failed to disconnect calendar for %s: %v", userID, err)
			httputil.InternalError(w, "could not disconnect calendar")
			return
		}
		httputil.OkJSON(w, map[string]bool{"connected": false})
	}
}
