package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader carries the shared secret
const APIKeyHeader = "X-API-Key"

// Authentication rejects requests whose X-API-Key header does not match key.
// An empty key disables the check.
func Authentication(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid or missing API key"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
