package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/finledger/finledger/internal/server/models"
)

type registerRequest struct {
	Username   string `json:"username"`
	Salt       string `json:"salt"`
	Verifier   string `json:"verifier"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.Username == "" || req.Salt == "" || req.Verifier == "" {
		writeBadRequest(w, "username, salt and verifier are required")
		return
	}

	err := s.svc.Users.Register(r.Context(), &models.User{
		Username:   req.Username,
		Salt:       req.Salt,
		Verifier:   req.Verifier,
		PublicKey:  req.PublicKey,
		PrivateKey: req.PrivateKey,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}

// loginRequest covers both handshake phases: a request without an id is
// phase 1, a request with one is phase 2.
type loginRequest struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Ephemeral    string `json:"ephemeral"`
	SessionProof string `json:"sessionProof"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}

	if req.ID == 0 {
		if req.Username == "" || req.Ephemeral == "" {
			writeBadRequest(w, "username and ephemeral are required")
			return
		}
		challenge, err := s.svc.Users.BeginLogin(r.Context(), req.Username, req.Ephemeral)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":          true,
			"loginId":         challenge.LoginID,
			"serverEphemeral": challenge.ServerEphemeral,
			"salt":            challenge.Salt,
		})
		return
	}

	if req.Username == "" || req.SessionProof == "" {
		writeBadRequest(w, "username and sessionProof are required")
		return
	}
	serverProof, err := s.svc.Users.FinishLogin(r.Context(), req.ID, req.Username, req.SessionProof)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       true,
		"loginId":      req.ID,
		"sessionProof": serverProof,
	})
}

type changeCredentialRequest struct {
	Salt     string `json:"salt"`
	Verifier string `json:"verifier"`
}

func (s *Server) handleChangeCredential(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req changeCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.Salt == "" || req.Verifier == "" {
		writeBadRequest(w, "salt and verifier are required")
		return
	}

	if err := s.svc.Users.ChangeCredential(r.Context(), id.Username, req.Salt, req.Verifier); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	if err := s.svc.Users.Delete(r.Context(), id.Username); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}
