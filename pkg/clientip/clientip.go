package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP from the request.
// Uses r.RemoteAddr only (no proxy headers): the gateway listens on loopback
// and is never behind a proxy, so forwarded headers would only be spoofable.
func RealClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}

// IsLoopback reports whether the request came from the local device.
func IsLoopback(r *http.Request) bool {
	ip := net.ParseIP(RealClientIP(r))
	return ip != nil && ip.IsLoopback()
}

// OriginAllowed reports whether the request's Origin header is absent or one
// of allowed. Native shells and saferctl send no Origin; a browser page
// always does.
func OriginAllowed(r *http.Request, allowed []string) bool {
	origin := strings.TrimSuffix(strings.TrimSpace(r.Header.Get("Origin")), "/")
	if origin == "" {
		return true
	}
	for _, a := range allowed {
		if strings.EqualFold(origin, strings.TrimSuffix(a, "/")) {
			return true
		}
	}
	return false
}
