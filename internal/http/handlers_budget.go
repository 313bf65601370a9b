package http

import (
	"net/http"

	"budgetbook/internal/core"
)

type setBudgetRequest struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
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

	entry := core.BudgetEntry{
		Date:     date,
		Category: req.Category,
		Amount:   amount,
	}

	id, err := s.budgets.SetBudget(r.Context(), entry)
	if err != nil {
		s.respondServiceError(r, w, err)
		return
	}

	entry.ID = id
	respondJSON(w, http.StatusCreated, toBudgetEntryJSON(entry))
}

func (s *Server) handleListBudgetEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.budgets.ListEntries(r.Context())
	if err != nil {
		s.respondServiceError(r, w, err)
		return
	}

	out := make([]budgetEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toBudgetEntryJSON(e))
	}
	respondJSON(w, http.StatusOK, out)
}

type budgetReportJSON struct {
	Category   string `json:"category"`
	Budget     string `json:"budget"`
	Expenses   string `json:"expenses"`
	Available  string `json:"available"`
	OverBudget bool   `json:"over_budget"`
	Overrun    string `json:"overrun,omitempty"`
}

func (s *Server) handleEvaluateBudget(w http.ResponseWriter, r *http.Request) {
	report, err := s.budgets.Evaluate(r.Context(), r.PathValue("category"))
	if err != nil {
		s.respondServiceError(r, w, err)
		return
	}

	out := budgetReportJSON{
		Category:   report.Category,
		Budget:     report.Budget.String(),
		Expenses:   report.Expenses.String(),
		Available:  report.Available.String(),
		OverBudget: report.OverBudget(),
	}
	if report.OverBudget() {
		out.Overrun = report.Overrun().String()
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleAvailableFunds(w http.ResponseWriter, r *http.Request) {
	available, err := s.funds.AvailableFunds(r.Context())
	if err != nil {
		s.respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, struct {
		AvailableFunds string `json:"available_funds"`
	}{AvailableFunds: available.String()})
}
