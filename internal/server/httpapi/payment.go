package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/finledger/finledger/internal/server/models"
)

type savePaymentRequest struct {
	ID          int64   `json:"id"`
	CategoryID  int64   `json:"categoryId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        int64   `json:"date"`
	Payer       string  `json:"payer"`
	Payed       bool    `json:"payed"`
}

func (s *Server) handleSavePayment(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req savePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.CategoryID == 0 || req.Name == "" || req.Payer == "" {
		writeBadRequest(w, "categoryId, name and payer are required")
		return
	}

	payment := &models.Payment{
		ID:          req.ID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        time.UnixMilli(req.Date).UTC(),
		Payer:       req.Payer,
		Payed:       req.Payed,
	}
	if err := s.svc.Payments.Save(r.Context(), id.Username, payment); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": true, "id": payment.ID})
}

type markPayedRequest struct {
	Categories []int64 `json:"categories"`
}

func (s *Server) handleMarkPayed(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req markPayedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if len(req.Categories) == 0 {
		writeBadRequest(w, "categories are required")
		return
	}

	if err := s.svc.Payments.MarkPayed(r.Context(), id.Username, req.Categories); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}

type deletePaymentRequest struct {
	ID int64 `json:"id"`
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id, _ := identityFromContext(r.Context())

	var req deletePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	if req.ID == 0 {
		writeBadRequest(w, "id is required")
		return
	}

	if err := s.svc.Payments.Delete(r.Context(), id.Username, req.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	writeStatusOK(w)
}
