package middleware

import (
	"crypto/subtle"
	"net/http"
)

// DeviceKeyHeader carries the shared device secret on write requests.
const DeviceKeyHeader = "X-API-Key"

// DeviceAuth rejects requests whose shared-secret header does not match the
// process-wide secret. Runs before any body parsing or storage; the
// comparison is constant-time.
func DeviceAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(DeviceKeyHeader)
			if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"invalid device key"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
