package http

import (
	"errors"
	"net/http"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
)

type createGoalRequest struct {
	Date           string `json:"date"`
	Description    string `json:"description"`
	GoalAmount     string `json:"goal_amount"`
	AllottedAmount string `json:"allotted_amount"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid date, want YYYY-MM-DD")
		return
	}

	goalAmount, err := core.ParseAmount(req.GoalAmount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid goal amount")
		return
	}

	allotted, err := core.ParseAmount(req.AllottedAmount)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid allotted amount")
		return
	}

	g := core.Goal{
		Date:           date,
		Description:    core.NormalizeDescription(req.Description),
		GoalAmount:     goalAmount,
		AllottedAmount: allotted,
	}

	id, err := s.goals.Create(r.Context(), g)
	if err != nil {
		s.respondServiceError(r, w, err)
		return
	}

	g.ID = id
	s.logger.InfoContext(r.Context(), "Goal created via API",
		log.FieldGoalID, id,
		log.FieldAmount, g.GoalAmount)
	respondJSON(w, http.StatusCreated, toGoalJSON(g))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context())
	if err != nil {
		s.respondServiceError(r, w, err)
		return
	}

	out := make([]goalJSON, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalJSON(g))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateGoalAmount(w http.ResponseWriter, r *http.Request) {
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

	g, err := s.goals.UpdateGoalAmount(r.Context(), id, amount)
	if err != nil {
		s.respondServiceError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(g))
}

func (s *Server) handleUpdateGoalAllotment(w http.ResponseWriter, r *http.Request) {
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

	g, err := s.goals.UpdateAllottedAmount(r.Context(), id, amount)
	if err != nil {
		s.respondServiceError(r, w, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.goals.Remove(r.Context(), id); err != nil {
		s.respondServiceError(r, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type progressResponse struct {
	Defined         bool   `json:"defined"`
	ProgressPercent string `json:"progress_percent,omitempty"`
}

// handleOverallProgress reports total allotments against total goal
// amounts. With no goals the figure is undefined and reported as such,
// not raised.
func (s *Server) handleOverallProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.goals.OverallProgress(r.Context())
	if err != nil {
		if errors.Is(err, core.ErrArithmeticUndefined) {
			respondJSON(w, http.StatusOK, progressResponse{Defined: false})
			return
		}
		s.respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, progressResponse{
		Defined:         true,
		ProgressPercent: progress.String(),
	})
}
