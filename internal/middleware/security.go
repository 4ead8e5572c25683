package middleware

import (
	"net/http"

	"github.com/AnshRaj112/saferplace/pkg/clientip"
)

const (
	headerXContentTypeOptions = "X-Content-Type-Options"
	headerXFrameOptions       = "X-Frame-Options"
	headerReferrerPolicy      = "Referrer-Policy"
	headerCacheControl        = "Cache-Control"
)

// SecurityHeaders sets security-related response headers. Responses carry
// personal data, so nothing is cached.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(headerXContentTypeOptions, "nosniff")
		w.Header().Set(headerXFrameOptions, "DENY")
		w.Header().Set(headerReferrerPolicy, "no-referrer")
		w.Header().Set(headerCacheControl, "no-store")
		next.ServeHTTP(w, r)
	})
}

// LoopbackOnly returns 403 for any peer that is not on this machine. The
// gateway holds the session token and must not be reachable from the network.
func LoopbackOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !clientip.IsLoopback(r) {
			writeJSON(w, http.StatusForbidden, `{"success":false,"message":"Forbidden"}`)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// OriginGuard returns 403 when a request carries an Origin that is not one
// of the shell's. Loopback is not enough: any page open in a local browser
// connects from 127.0.0.1 too.
func OriginGuard(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !clientip.OriginAllowed(r, allowed) {
				writeJSON(w, http.StatusForbidden, `{"success":false,"message":"Forbidden"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Gateway returns the standard chain: SecurityHeaders → LoopbackOnly → OriginGuard → RateLimit → LoginRateLimit.
func Gateway(limits *RateLimits, allowedOrigins []string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		LoopbackOnly,
		OriginGuard(allowedOrigins),
		limits.Global,
		limits.Login,
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}
