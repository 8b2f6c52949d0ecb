// Package server exposes a ledger.Store over JSON REST. It is the serving
// side of the wire contract the rest package's client consumes.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitledger/internal/ledger"
	"splitledger/internal/models"
)

// Server routes REST requests to a ledger store.
type Server struct {
	store ledger.Store
	log   *slog.Logger
}

// New creates a Server over the given store.
func New(store ledger.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, log: log}
}

// Handler returns the full route table wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /friends/{$}", s.listPeople)
	mux.HandleFunc("POST /friends/{$}", s.createPerson)
	mux.HandleFunc("GET /friends/{id}", s.getPerson)
	mux.HandleFunc("DELETE /friends/{id}", s.deletePerson)
	mux.HandleFunc("GET /friends/{id}/expenses", s.listPersonShares)

	mux.HandleFunc("GET /expenses/{$}", s.listExpenses)
	mux.HandleFunc("POST /expenses/{$}", s.createExpense)
	mux.HandleFunc("PUT /expenses/{id}", s.updateExpense)
	mux.HandleFunc("DELETE /expenses/{id}", s.deleteExpense)

	mux.HandleFunc("GET /expenses/{id}/friends", s.listParticipants)
	mux.HandleFunc("POST /expenses/{id}/friends", s.addParticipant)
	mux.HandleFunc("GET /expenses/{id}/friends/{fid}", s.getShare)
	mux.HandleFunc("PUT /expenses/{id}/friends/{fid}", s.putShare)
	mux.HandleFunc("DELETE /expenses/{id}/friends/{fid}", s.removeParticipant)

	mux.Handle("GET /metrics", promhttp.Handler())

	return s.logRequests(mux)
}

func (s *Server) listPeople(w http.ResponseWriter, r *http.Request) {
	people, err := s.store.ListPeople(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	dtos := make([]models.PersonDTO, 0, len(people))
	for _, p := range people {
		dtos = append(dtos, p.DTO())
	}
	s.writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) createPerson(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		s.writeStatus(w, http.StatusBadRequest, "name is required")
		return
	}
	p, err := s.store.CreatePerson(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p.DTO())
}

func (s *Server) getPerson(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetPerson(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p.DTO())
}

func (s *Server) deletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeletePerson(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPersonShares(w http.ResponseWriter, r *http.Request) {
	shares, err := s.store.ListPersonShares(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	dtos := make([]models.PersonShareDTO, 0, len(shares))
	for _, sh := range shares {
		dtos = append(dtos, sh.DTO())
	}
	s.writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	dtos := make([]models.ExpenseDTO, 0, len(expenses))
	for _, e := range expenses {
		dtos = append(dtos, e.DTO())
	}
	s.writeJSON(w, http.StatusOK, dtos)
}

type expenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Description == "" || req.Amount <= 0 {
		s.writeStatus(w, http.StatusBadRequest, "description and a positive amount are required")
		return
	}
	e, err := s.store.CreateExpense(r.Context(), req.Description, req.Amount, req.Date)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, e.DTO())
}

func (s *Server) updateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Description == "" || req.Amount <= 0 {
		s.writeStatus(w, http.StatusBadRequest, "description and a positive amount are required")
		return
	}
	if err := s.store.UpdateExpense(r.Context(), r.PathValue("id"), req.Description, req.Amount, req.Date); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listParticipants(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.ListParticipants(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

func (s *Server) addParticipant(w http.ResponseWriter, r *http.Request) {
	personID := r.URL.Query().Get("friend_id")
	if personID == "" {
		s.writeStatus(w, http.StatusBadRequest, "friend_id is required")
		return
	}
	if err := s.store.AddParticipant(r.Context(), r.PathValue("id"), personID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) removeParticipant(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveParticipant(r.Context(), r.PathValue("id"), r.PathValue("fid")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getShare(w http.ResponseWriter, r *http.Request) {
	sh, err := s.store.GetShare(r.Context(), r.PathValue("id"), r.PathValue("fid"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sh.DTO())
}

// putShare handles both share modes: "set" assigns the signed amount,
// "credit" increments the credit side.
func (s *Server) putShare(w http.ResponseWriter, r *http.Request) {
	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		s.writeStatus(w, http.StatusBadRequest, "amount must be a number")
		return
	}
	expenseID, personID := r.PathValue("id"), r.PathValue("fid")

	switch mode := r.URL.Query().Get("mode"); mode {
	case "", "set":
		err = s.store.SetShare(r.Context(), expenseID, personID, amount)
	case "credit":
		err = s.store.AddShareCredit(r.Context(), expenseID, personID, amount)
	default:
		s.writeStatus(w, http.StatusBadRequest, "mode must be set or credit")
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeStatus(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps store errors onto HTTP statuses. A RemoteError keeps its
// status; everything else is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var re *ledger.RemoteError
	if errors.As(err, &re) {
		s.writeStatus(w, re.Status, http.StatusText(re.Status))
		return
	}
	s.log.Error("store operation failed", "error", err)
	s.writeStatus(w, http.StatusInternalServerError, "internal error")
}
