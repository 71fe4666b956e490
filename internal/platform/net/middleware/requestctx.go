package middleware

import (
	"net/http"

	"sdexindex/internal/platform/logger"
	pnet "sdexindex/internal/platform/net"
)

// RequestLogger copies the chi request id onto the logger context and echoes it
// in X-Request-ID; it must run after RequestID
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := pnet.RequestID(r.Context())
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-Request-ID", id)
			next.ServeHTTP(w, r.WithContext(logger.WithRequest(r.Context(), id)))
		})
	}
}
