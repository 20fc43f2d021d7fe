package auth

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/convive/convive/internal/db"
	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/middleware"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

// VerifyHandler checks a login code, upserts the user, and issues tokens.
func VerifyHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.VerifyRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		phone := NormalizePhone(req.Phone)
		if phone == "" || req.Code == "" {
			httputil.Error(w, fmt.Errorf("phone and code are required"))
			return
		}

		stored, ok := svcCtx.KV.Get(codeKey(phone))
		if !ok || subtle.ConstantTimeCompare([]byte(stored), []byte(req.Code)) != 1 {
			httputil.Unauthorized(w, "invalid or expired code")
			return
		}
		svcCtx.KV.Delete(codeKey(phone))

		user, err := svcCtx.DB.GetOrCreateUser(r.Context(), phone, req.Name)
		if err != nil {
			logging.Errorf("Failed to upsert user for %s: %v", phone, err)
			httputil.InternalError(w, "could not create account")
			return
		}

		resp, err := issueTokens(svcCtx, user)
		if err != nil {
			logging.Errorf("Failed to issue tokens for %s: %v", user.ID, err)
			httputil.InternalError(w, "could not issue tokens")
			return
		}

		logging.Infof("User logged in: %s", user.ID)
		httputil.OkJSON(w, resp)
	}
}

// issueTokens creates a fresh access+refresh token pair for a user.
func issueTokens(svcCtx *svc.ServiceContext, user *db.User) (*types.AuthResponse, error) {
	accessExpire := time.Duration(svcCtx.Config.Auth.AccessExpire) * time.Second
	refreshExpire := time.Duration(svcCtx.Config.Auth.RefreshTokenExpire) * time.Second
	secret := svcCtx.Config.Auth.AccessSecret

	access, err := middleware.CreateToken(user.ID, user.Phone, "access", secret, accessExpire)
	if err != nil {
		return nil, err
	}
	refresh, err := middleware.CreateToken(user.ID, user.Phone, "refresh", secret, refreshExpire)
	if err != nil {
		return nil, err
	}

	return &types.AuthResponse{
		Token:        access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(accessExpire).UnixMilli(),
		User:         user,
	}, nil
}
