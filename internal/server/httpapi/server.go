// Package httpapi exposes the ledger over a JSON HTTP interface. Every
// response body carries a boolean "status" field; errors additionally carry
// an "error" message.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/finledger/finledger/internal/common"
	"github.com/finledger/finledger/internal/logging"
	"github.com/finledger/finledger/internal/server/services"
)

// Services bundles the business-logic dependencies of the HTTP layer.
type Services struct {
	Users       *services.UserService
	Permissions *services.PermissionService
	Categories  *services.CategoryService
	Payments    *services.PaymentService
	Splits      *services.SplitService
	Overview    *services.OverviewService
}

type Server struct {
	logger logging.Logger
	svc    Services
}

func NewServer(logger logging.Logger, svc Services) *Server {
	return &Server{logger: logger, svc: svc}
}

// Handler builds the route table. Registration and the login handshake are
// the only routes reachable without a completed session.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("PUT /user", s.handleRegister)
	mux.HandleFunc("POST /user/login", s.handleLogin)

	mux.HandleFunc("POST /user", s.withAuth(s.handleChangeCredential))
	mux.HandleFunc("DELETE /user", s.withAuth(s.handleDeleteUser))

	mux.HandleFunc("POST /permission", s.withAuth(s.handleSetPermission))
	mux.HandleFunc("DELETE /permission", s.withAuth(s.handleRevokePermission))

	mux.HandleFunc("POST /category", s.withAuth(s.handleSaveCategory))
	mux.HandleFunc("GET /category/{id}", s.withAuth(s.handleGetCategory))
	mux.HandleFunc("DELETE /category", s.withAuth(s.handleDeleteCategory))

	mux.HandleFunc("POST /payment", s.withAuth(s.handleSavePayment))
	mux.HandleFunc("POST /payment/payed", s.withAuth(s.handleMarkPayed))
	mux.HandleFunc("DELETE /payment", s.withAuth(s.handleDeletePayment))

	mux.HandleFunc("POST /split", s.withAuth(s.handleSetSplit))
	mux.HandleFunc("DELETE /split", s.withAuth(s.handleDeleteSplit))

	mux.HandleFunc("GET /overview", s.withAuth(s.handleOverview))

	return s.withRequestLog(s.withRecover(mux))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeStatusOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{"status": true})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"status": false, "error": msg})
}

// writeError maps the service error taxonomy onto HTTP statuses. Unknown
// referenced entities read as conflicts, matching the wire contract clients
// already rely on.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidProof):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorConflict),
		errors.Is(err, common.ErrInvalidLevel),
		errors.Is(err, common.ErrSelfOwnerProtected):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		s.logger.Error(r.Context(), "request failed", "error", err)
	}
	writeJSON(w, status, map[string]any{"status": false, "error": err.Error()})
}
