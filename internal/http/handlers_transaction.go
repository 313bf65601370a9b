package http

import (
	"net/http"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
)

type createTransactionRequest struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleCreateTransaction(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTransactionRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		date, err := parseDate(req.Date)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid date, want YYYY-MM-DD")
			return
		}

		amount, err := core.ParseAmount(req.Amount)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}

		t := core.Transaction{
			Date:        date,
			Description: core.NormalizeDescription(req.Description),
			Category:    req.Category,
			Amount:      amount,
		}

		id, err := s.transactions.Create(r.Context(), kind, t)
		if err != nil {
			s.respondServiceError(r, w, err)
			return
		}

		t.ID = id
		s.logger.InfoContext(r.Context(), "Transaction created via API",
			log.FieldKind, kind,
			"id", id,
			log.FieldCategory, t.Category)
		respondJSON(w, http.StatusCreated, toTransactionJSON(t))
	}
}

func (s *Server) handleListTransactions(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := s.transactions.List(r.Context(), kind)
		if err != nil {
			s.respondServiceError(r, w, err)
			return
		}
		respondJSON(w, http.StatusOK, toTransactionListJSON(items))
	}
}

func (s *Server) handleListByCategory(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.PathValue("category")

		items, err := s.aggregator.ListByCategory(r.Context(), kind, category)
		if err != nil {
			s.respondServiceError(r, w, err)
			return
		}

		total, err := s.sumByCategory(r, kind, category)
		if err != nil {
			s.respondServiceError(r, w, err)
			return
		}

		respondJSON(w, http.StatusOK, struct {
			Category string            `json:"category"`
			Total    string            `json:"total"`
			Items    []transactionJSON `json:"items"`
		}{
			Category: category,
			Total:    total,
			Items:    toTransactionListJSON(items),
		})
	}
}

func (s *Server) sumByCategory(r *http.Request, kind core.Kind, category string) (string, error) {
	if kind == core.Income {
		total, err := s.aggregator.SumIncomeByCategory(r.Context(), category)
		if err != nil {
			return "", err
		}
		return total.String(), nil
	}
	total, err := s.aggregator.SumExpensesByCategory(r.Context(), category)
	if err != nil {
		return "", err
	}
	return total.String(), nil
}

func (s *Server) handleUpdateTransactionAmount(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		var req amountRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		amount, err := core.ParseAmount(req.Amount)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}

		// Read first, then apply: once the update has succeeded the
		// response is built from state we already hold, so a concurrent
		// delete cannot turn a completed update into a 404.
		t, err := s.transactions.Get(r.Context(), kind, id)
		if err != nil {
			s.respondServiceError(r, w, err)
			return
		}

		if err := s.transactions.UpdateAmount(r.Context(), kind, id, amount); err != nil {
			s.respondServiceError(r, w, err)
			return
		}

		t.Amount = amount
		respondJSON(w, http.StatusOK, toTransactionJSON(t))
	}
}

func (s *Server) handleDeleteTransaction(kind core.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if err := s.transactions.Delete(r.Context(), kind, id); err != nil {
			s.respondServiceError(r, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
