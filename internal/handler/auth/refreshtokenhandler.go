package auth

import (
	"fmt"
	"net/http"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

// RefreshTokenHandler trades a valid refresh token for a new token pair.
func RefreshTokenHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RefreshTokenRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}
		if req.RefreshToken == "" {
			httputil.Error(w, fmt.Errorf("refresh_token is required"))
			return
		}

		claims, err := middleware.ValidateToken(req.RefreshToken, "refresh", svcCtx.Config.Auth.AccessSecret)
		if err != nil {
			httputil.Unauthorized(w, "invalid refresh token")
			return
		}
		if middleware.IsTokenRevoked(svcCtx.KV, req.RefreshToken) {
			httputil.Unauthorized(w, "refresh token revoked")
			return
		}

		userID, _ := claims["userId"].(string)
		user, err := svcCtx.DB.GetUser(r.Context(), userID)
		if err != nil {
			httputil.Unauthorized(w, "unknown user")
			return
		}

		resp, err := issueTokens(svcCtx, user)
		if err != nil {
			logging.Errorf("Failed to refresh tokens for %s: %v", user.ID, err)
			httputil.InternalError(w, "could not issue tokens")
			return
		}
		httputil.OkJSON(w, resp)
	}
}
