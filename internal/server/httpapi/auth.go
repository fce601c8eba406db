package httpapi

import (
	"net/http"
	"strconv"
)

// SessionHeader names the header carrying the login session id.
const SessionHeader = "Session-Id"

// withAuth authenticates a request from the Basic credentials
// (username:sessionProof) and the Session-Id header, then attaches the
// caller's identity to the context. The stored proof is checked but never
// rotated, so a session stays valid until the reaper removes it.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, proof, ok := r.BasicAuth()
		if !ok || username == "" || proof == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": false, "error": "missing credentials"})
			return
		}
		loginID, err := strconv.ParseInt(r.Header.Get(SessionHeader), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": false, "error": "missing session id"})
			return
		}

		if err := s.svc.Users.Authenticate(r.Context(), username, proof, loginID); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": false, "error": "authentication failed"})
			return
		}

		ctx := withIdentity(r.Context(), Identity{Username: username, LoginID: loginID})
		next(w, r.WithContext(ctx))
	}
}
