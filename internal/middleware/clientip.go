package middleware

import (
	"net"
	"net/http"
	"strings"
)

type contextKey string

// KeyFunc derives the client identity used for per-client limits.
type KeyFunc func(r *http.Request) string

// ClientIP returns a KeyFunc keyed on the caller's address. With trustXFF the
// first X-Forwarded-For entry wins; only enable it behind a proxy that sets it.
func ClientIP(trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}
