package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/paisatrack/paisatrack/internal/middleware"
	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/service"
	"github.com/paisatrack/paisatrack/internal/storage"
)

type transactionRequest struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant"`
}

// parseDate accepts the two formats clients send: a plain calendar day or
// a full RFC 3339 timestamp.
func parseDate(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.Unix(), true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Unix(), true
	}
	return 0, false
}

func (req transactionRequest) toInput() (service.TransactionInput, error) {
	date, ok := parseDate(req.Date)
	if !ok {
		return service.TransactionInput{}, &service.ValidationError{Field: "date", Message: "date must be YYYY-MM-DD or RFC 3339"}
	}
	return service.TransactionInput{
		Title:       req.Title,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
		Type:        models.TransactionType(req.Type),
		Description: req.Description,
		Merchant:    req.Merchant,
	}, nil
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.transactions.Add(r.Context(), userID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	q := r.URL.Query()

	filter := service.ListFilter{
		Type:     models.TransactionType(q.Get("type")),
		Category: q.Get("category"),
		Search:   q.Get("search"),
		SortBy:   storage.SortKey(q.Get("sortBy")),
		SortAsc:  q.Get("sortOrder") == "asc",
	}
	if start, ok := parseDate(q.Get("startDate")); ok {
		filter.StartDate = &start
	}
	if end, ok := parseDate(q.Get("endDate")); ok {
		filter.EndDate = &end
	}

	txs, err := s.transactions.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}

	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id := mux.Vars(r)["id"]

	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid request body"})
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.transactions.Update(r.Context(), userID, id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id := mux.Vars(r)["id"]

	if err := s.transactions.Delete(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "transaction deleted"})
}
