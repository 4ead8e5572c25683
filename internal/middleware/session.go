package middleware

import "net/http"

// SessionChecker reports whether a user is logged in.
type SessionChecker interface {
	IsAuthenticated() bool
}

// RequireSession rejects requests with 401 while nobody is logged in.
func RequireSession(s SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.IsAuthenticated() {
				writeJSON(w, http.StatusUnauthorized, `{"success":false,"message":"Please log in first"}`)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
