package calendar

import (
	"net/http"
	"time"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

// stateTTL bounds how long a consent page can sit open before the callback
// state expires.
const stateTTL = 10 * time.Minute

// ConnectHandler starts the Google Calendar OAuth flow. The state parameter
// is a short-lived signed token carrying the user ID, so the public callback
// can tell whose token it is exchanging.
func ConnectHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !svcCtx.Calendar.Enabled() {
			httputil.ErrorWithCode(w, http.StatusServiceUnavailable, "calendar integration not configured")
			return
		}

		userID := middleware.GetUserID(r.Context())
		state, err := middleware.CreateToken(userID, "", "calstate", svcCtx.Config.Auth.AccessSecret, stateTTL)
		if err != nil {
			httputil.InternalError(w, "could not build state")
			return
		}

		httputil.OkJSON(w, &types.CalendarConnectResponse{URL: svcCtx.Calendar.AuthURL(state)})
	}
}

// StatusHandler reports whether the user has a connected calendar.
func StatusHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connected := svcCtx.Calendar.Enabled() &&
			svcCtx.Calendar.Connected(r.Context(), middleware.GetUserID(r.Context()))
		httputil.OkJSON(w, &types.CalendarStatusResponse{Connected: connected})
	}
}
