package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"riconnect/internal/adapters/auth"
	h "riconnect/internal/delivery/http/helpers"
	"riconnect/internal/domain"
)

type contextKey string

const (
	userEmailKey contextKey = "userEmail"
	tokenKey     contextKey = "accessToken"
)

// SetUser returns a context carrying the authenticated user's email and access token.
func SetUser(ctx context.Context, email, token string) context.Context {
	ctx = context.WithValue(ctx, userEmailKey, email)
	return context.WithValue(ctx, tokenKey, token)
}

// UserFromContext returns the authenticated user's email and access token, if present.
func UserFromContext(ctx context.Context) (email, token string, ok bool) {
	email, ok = ctx.Value(userEmailKey).(string)
	if !ok {
		return "", "", false
	}
	token, ok = ctx.Value(tokenKey).(string)
	return email, token, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and stores the user in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			token, err := auth.BearerToken(header)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			email, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetUser(r.Context(), email, token)))
		}
	}
}
