package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/svc"
	"github.com/convive/convive/internal/types"
)

func codeKey(phone string) string {
	return "auth:code:" + phone
}

// RequestCodeHandler generates a login code, stores it with a TTL, and texts it.
func RequestCodeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.RequestCodeRequest
		if err := httputil.Parse(r, &req); err != nil {
			httputil.Error(w, err)
			return
		}

		phone := NormalizePhone(req.Phone)
		if phone == "" {
			httputil.Error(w, fmt.Errorf("phone is required"))
			return
		}

		code, err := generateCode()
		if err != nil {
			httputil.InternalError(w, "could not generate code")
			return
		}

		ttl := time.Duration(svcCtx.Config.Auth.CodeTTL) * time.Second
		svcCtx.KV.Set(codeKey(phone), code, ttl)

		body := fmt.Sprintf("Your %s login code is %s", svcCtx.Config.App.Name, code)
		if err := svcCtx.SMS.Send(r.Context(), phone, body); err != nil {
			logging.Errorf("Failed to send login code to %s: %v", phone, err)
			httputil.InternalError(w, "could not send code")
			return
		}

		resp := &types.RequestCodeResponse{Sent: true}
		if !svcCtx.Config.IsProductionMode() {
			resp.DebugCode = code
		}
		httputil.OkJSON(w, resp)
	}
}

// NormalizePhone strips spaces and dashes so lookups by phone are stable.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	return phone
}

// generateCode returns a 6-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
