package middleware

import (
	"encoding/json"
	"net/http"
)

// SessionChecker reports the state of the current session.
// *session.Store satisfies it.
type SessionChecker interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// RequireSession rejects requests with 401 while nobody is logged in.
func RequireSession(s SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.IsAuthenticated() {
				writeError(w, http.StatusUnauthorized, "not_authenticated", "log in first")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects requests with 403 unless the logged-in user carries
// the server-issued admin flag. Wire it after RequireSession.
func RequireAdmin(s SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.IsAdmin() {
				writeError(w, http.StatusForbidden, "forbidden", "administrator access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes the server's standard error body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
