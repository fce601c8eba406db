package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/finledger/finledger/internal/server/models"
)

type splitBody struct {
	Username       string  `json:"username"`
	Share          float64 `json:"share"`
	IsPlatformUser bool    `json:"isPlatformUser"`
}

type saveCategoryRequest struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	IsSplit       bool        `json:"isSplit"`
	EncryptionKey string      `json:"encryptionKey"`
	Splits        []splitBody `json:"splits"`
}

func (s *Server) handleSaveCategory(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req saveCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	if req.ID == 0 && req.EncryptionKey == "" {
		writeBadRequest(w, "encryptionKey is required for a new category")
		return
	}

	category := &models.Category{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		IsSplit:     req.IsSplit,
	}
	categorySplits := make([]*models.Split, 0, len(req.Splits))
	for _, split := range req.Splits {
		categorySplits = append(categorySplits, &models.Split{
			Username:       split.Username,
			Share:          split.Share,
			IsPlatformUser: split.IsPlatformUser,
		})
	}

	if err := s.svc.Categories.Save(r.Context(), id.Username, category, req.EncryptionKey, categorySplits); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": true, "id": category.ID})
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	categoryID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeBadRequest(w, "invalid category id")
		return
	}

	view, err := s.svc.Categories.Get(r.Context(), id.Username, categoryID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": true,
		"category": map[string]any{
			"id":          view.Category.ID,
			"name":        view.Category.Name,
			"description": view.Category.Description,
			"isSplit":     view.Category.IsSplit,
			"lastEdited":  view.Category.LastEdited.UnixMilli(),
		},
		"permission":    view.Level,
		"encryptionKey": view.EncryptionKey,
	})
}

type deleteCategoryRequest struct {
	ID int64 `json:"id"`
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req deleteCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.ID == 0 {
		writeBadRequest(w, "id is required")
		return
	}

	if err := s.svc.Categories.Delete(r.Context(), id.Username, req.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}
