package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondServiceError maps the error taxonomy onto HTTP statuses. The
// undefined-percentage case is not mapped here: the progress read
// reports it as data, and goal mutations reject it as a constraint.
func (s *Server) respondServiceError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrConstraintViolation),
		errors.Is(err, core.ErrArithmeticUndefined),
		errors.Is(err, core.ErrInvalidAmount):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrInsufficientFunds):
		respondError(w, http.StatusConflict, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "Request failed",
			log.FieldError, err,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// pathID reads the {id} path segment.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// parseDate reads an optional YYYY-MM-DD date, defaulting to today.
func parseDate(raw string) (core.Date, error) {
	if raw == "" {
		now := time.Now()
		return core.NewDate(now.Year(), int(now.Month()), now.Day()), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return core.Date{}, err
	}
	return core.Date{Time: t}, nil
}

type transactionJSON struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Date:        t.Date.Format(dateLayout),
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount.String(),
	}
}

func toTransactionListJSON(items []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(items))
	for _, t := range items {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

type goalJSON struct {
	ID              int64  `json:"id"`
	Date            string `json:"date"`
	Description     string `json:"description"`
	GoalAmount      string `json:"goal_amount"`
	AllottedAmount  string `json:"allotted_amount"`
	RequiredAmount  string `json:"required_amount"`
	ProgressPercent string `json:"progress_percent"`
}

func toGoalJSON(g core.Goal) goalJSON {
	return goalJSON{
		ID:              g.ID,
		Date:            g.Date.Format(dateLayout),
		Description:     g.Description,
		GoalAmount:      g.GoalAmount.String(),
		AllottedAmount:  g.AllottedAmount.String(),
		RequiredAmount:  g.RequiredAmount.String(),
		ProgressPercent: g.ProgressPercent.String(),
	}
}

type budgetEntryJSON struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

func toBudgetEntryJSON(e core.BudgetEntry) budgetEntryJSON {
	return budgetEntryJSON{
		ID:       e.ID,
		Date:     e.Date.Format(dateLayout),
		Category: e.Category,
		Amount:   e.Amount.String(),
	}
}
