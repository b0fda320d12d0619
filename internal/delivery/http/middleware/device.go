package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	h "riconnect/internal/delivery/http/helpers"
)

// DeviceKeyHeader carries the per-process key that unlocks the device-session routes.
const DeviceKeyHeader = "X-Device-Key"

// RequireDeviceKey returns a wrapper for routes that read or replace the stored
// session. The request must present key in DeviceKeyHeader, and a browser request
// must come from an origin listed explicitly in trustedOrigins ("*" does not count).
// An empty key rejects every request.
func RequireDeviceKey(key string, trustedOrigins []string, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	trusted := make(map[string]struct{}, len(trustedOrigins))
	for _, o := range trustedOrigins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" && o != "*" {
			trusted[o] = struct{}{}
		}
	}
	want := []byte(key)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := trusted[origin]; !ok {
					logger.WarnContext(r.Context(), "device route called from untrusted origin", "origin", origin, "path", r.URL.Path)
					h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "origin not allowed")
					return
				}
			}
			got := r.Header.Get(DeviceKeyHeader)
			if len(want) == 0 || got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing or invalid device key")
				return
			}
			next(w, r)
		}
	}
}
