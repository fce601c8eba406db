package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/finledger/finledger/internal/server/models"
)

type setSplitRequest struct {
	CategoryID     int64   `json:"categoryId"`
	Username       string  `json:"username"`
	Share          float64 `json:"share"`
	IsPlatformUser bool    `json:"isPlatformUser"`
}

func (s *Server) handleSetSplit(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req setSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.CategoryID == 0 || req.Username == "" {
		writeBadRequest(w, "categoryId and username are required")
		return
	}

	err := s.svc.Splits.Set(r.Context(), id.Username, &models.Split{
		CategoryID:     req.CategoryID,
		Username:       req.Username,
		Share:          req.Share,
		IsPlatformUser: req.IsPlatformUser,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}

type deleteSplitRequest struct {
	CategoryID int64  `json:"categoryId"`
	Username   string `json:"username"`
}

func (s *Server) handleDeleteSplit(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req deleteSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.CategoryID == 0 || req.Username == "" {
		writeBadRequest(w, "categoryId and username are required")
		return
	}

	if err := s.svc.Splits.Delete(r.Context(), id.Username, req.CategoryID, req.Username); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}
