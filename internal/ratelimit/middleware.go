package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/linkden/api/internal/auth"
)

// mutating methods are limited; reads pass through.
var limitedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Middleware enforces the limiter on mutating requests. A nil limiter
// disables limiting entirely.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limitedMethods[r.Method] {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow(callerKey(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]string{
						"code":    "RATE_LIMITED",
						"message": "Too many requests",
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func callerKey(r *http.Request) string {
	if userID := auth.GetUserID(r.Context()); userID != "" {
		return userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
