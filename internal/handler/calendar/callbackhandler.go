package calendar

import (
	"fmt"
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
)

// CallbackHandler completes the OAuth flow. Google redirects the browser
// here, so there is no Authorization header; the user is identified by the
// signed state parameter issued by ConnectHandler.
func CallbackHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !svcCtx.Calendar.Enabled() {
			httputil.ErrorWithCode(w, http.StatusServiceUnavailable, "calendar integration not configured")
			return
		}

		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")
		if code == "" || state == "" {
			httputil.Error(w, fmt.Errorf("code and state are required"))
			return
		}

		claims, err := middleware.ValidateToken(state, "calstate", svcCtx.Config.Auth.AccessSecret)
		if err != nil {
			httputil.Unauthorized(w, "invalid state")
			return
		}
		userID, _ := claims["userId"].(string)

		if err := svcCtx.Calendar.Exchange(r.Context(), userID, code); err != nil {
			logging.Errorf("Calendar token exchange failed for %s: %v", userID, err)
			httputil.InternalError(w, "could not connect calendar")
			return
		}

		logging.Infof("Calendar connected for user %s", userID)
		httputil.OkJSON(w, map[string]bool{"connected": true})
	}
}
