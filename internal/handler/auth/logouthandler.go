package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

// LogoutHandler blacklists the presented access token and, when supplied,
// the refresh token. Blacklist entries live as long as the tokens would.
func LogoutHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RefreshTokenRequest
		// Body is optional; a bare logout still revokes the access token.
		_ = httputil.Parse(r, &req)

		if auth := r.Header.Get("Authorization"); auth != "" {
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				ttl := time.Duration(svcCtx.Config.Auth.AccessExpire) * time.Second
				middleware.RevokeToken(svcCtx.KV, parts[1], ttl)
			}
		}
		if req.RefreshToken != "" {
			ttl := time.Duration(svcCtx.Config.Auth.RefreshTokenExpire) * time.Second
			middleware.RevokeToken(svcCtx.KV, req.RefreshToken, ttl)
		}

		httputil.OkJSON(w, &types.LogoutResponse{LoggedOut: true})
	}
}
