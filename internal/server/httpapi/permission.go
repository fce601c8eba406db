package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/finledger/finledger/internal/server/models"
)

type setPermissionRequest struct {
	Username      string `json:"username"`
	CategoryID    int64  `json:"categoryId"`
	Permission    *int   `json:"permission"`
	EncryptionKey string `json:"encryptionKey"`
}

func (s *Server) handleSetPermission(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req setPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.Username == "" || req.CategoryID == 0 || req.Permission == nil || req.EncryptionKey == "" {
		writeBadRequest(w, "username, categoryId, permission and encryptionKey are required")
		return
	}

	err := s.svc.Permissions.Set(r.Context(), id.Username, &models.Permission{
		CategoryID:    req.CategoryID,
		Username:      req.Username,
		Level:         *req.Permission,
		EncryptionKey: req.EncryptionKey,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}

type revokePermissionRequest struct {
	Username   string `json:"username"`
	CategoryID int64  `json:"categoryId"`
}

func (s *Server) handleRevokePermission(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req revokePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.Username == "" || req.CategoryID == 0 {
		writeBadRequest(w, "username and categoryId are required")
		return
	}

	if err := s.svc.Permissions.Revoke(r.Context(), id.Username, req.Username, req.CategoryID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}
