package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/convive/convive/internal/httputil"
	"github.com/convive/convive/internal/kv"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for user ID
	UserIDKey ContextKey = "userId"
	// UserPhoneKey is the context key for the user's phone number
	UserPhoneKey ContextKey = "userPhone"
)

// ErrInvalidToken is returned when token parsing or validation fails
var ErrInvalidToken = errors.New("invalid token")

// CreateToken creates a signed HS256 token for a user. kind is "access" or
// "refresh" and is checked again on validation so the two cannot be swapped.
func CreateToken(userID, phone, kind, secret string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"phone":  phone,
		"kind":   kind,
		"iss":    "convive",
		"iat":    now.Unix(),
		"exp":    now.Add(expire).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken validates a signed token of the given kind and returns its claims.
func ValidateToken(tokenString, kind, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if k, _ := claims["kind"].(string); k != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// JWTMiddleware creates a chi middleware that validates access tokens.
// Tokens revoked by logout are tracked in the blacklist store.
func JWTMiddleware(secret string, blacklist kv.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Get token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.Unauthorized(w, "missing authorization header")
				return
			}

			// Extract Bearer token
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httputil.Unauthorized(w, "invalid authorization header format")
				return
			}
			tokenString := parts[1]

			claims, err := ValidateToken(tokenString, "access", secret)
			if err != nil {
				httputil.Unauthorized(w, "invalid token")
				return
			}

			if IsTokenRevoked(blacklist, tokenString) {
				httputil.Unauthorized(w, "token revoked")
				return
			}

			// Add claims to context
			ctx := r.Context()
			if userID, ok := claims["userId"].(string); ok {
				ctx = context.WithValue(ctx, UserIDKey, userID)
			}
			if phone, ok := claims["phone"].(string); ok {
				ctx = context.WithValue(ctx, UserPhoneKey, phone)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RevokeToken blacklists a token until it would have expired anyway.
func RevokeToken(blacklist kv.Store, tokenString string, ttl time.Duration) {
	if blacklist == nil || tokenString == "" {
		return
	}
	blacklist.Set(blacklistKey(tokenString), "revoked", ttl)
}

// IsTokenRevoked reports whether a token has been blacklisted by logout.
func IsTokenRevoked(blacklist kv.Store, token string) bool {
	if blacklist == nil {
		return false
	}
	_, revoked := blacklist.Get(blacklistKey(token))
	return revoked
}

func blacklistKey(token string) string {
	return "jwt:revoked:" + token
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetUserPhone extracts the authenticated user's phone number from context
func GetUserPhone(ctx context.Context) string {
	if phone, ok := ctx.Value(UserPhoneKey).(string); ok {
		return phone
	}
	return ""
}
