// Package http exposes the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/log"
	"budgetbook/internal/services"
)

type Server struct {
	http.Server

	transactions *services.TransactionService
	aggregator   *services.Aggregator
	budgets      *services.BudgetService
	funds        *services.FundsCalculator
	goals        *services.GoalTracker

	logger      *log.Logger
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, logger *log.Logger,
	transactions *services.TransactionService,
	aggregator *services.Aggregator,
	budgets *services.BudgetService,
	funds *services.FundsCalculator,
	goals *services.GoalTracker,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           log.RequestLogger(logger)(mux),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		transactions: transactions,
		aggregator:   aggregator,
		budgets:      budgets,
		funds:        funds,
		goals:        goals,
		logger:       logger,
		rateLimiter:  newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	for _, route := range []struct {
		base string
		kind core.Kind
	}{
		{"/api/expenses", core.Expense},
		{"/api/income", core.Income},
	} {
		mux.HandleFunc("POST "+route.base, s.limited(s.handleCreateTransaction(route.kind)))
		mux.HandleFunc("GET "+route.base, s.handleListTransactions(route.kind))
		mux.HandleFunc("GET "+route.base+"/category/{category}", s.handleListByCategory(route.kind))
		mux.HandleFunc("PATCH "+route.base+"/{id}/amount", s.limited(s.handleUpdateTransactionAmount(route.kind)))
		mux.HandleFunc("DELETE "+route.base+"/{id}", s.limited(s.handleDeleteTransaction(route.kind)))
	}

	mux.HandleFunc("POST /api/budgets", s.limited(s.handleSetBudget))
	mux.HandleFunc("GET /api/budgets", s.handleListBudgetEntries)
	mux.HandleFunc("GET /api/budgets/{category}", s.handleEvaluateBudget)

	mux.HandleFunc("GET /api/funds", s.handleAvailableFunds)

	mux.HandleFunc("POST /api/goals", s.limited(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals", s.handleListGoals)
	mux.HandleFunc("GET /api/goals/progress", s.handleOverallProgress)
	mux.HandleFunc("PATCH /api/goals/{id}/amount", s.limited(s.handleUpdateGoalAmount))
	mux.HandleFunc("PATCH /api/goals/{id}/allotment", s.limited(s.handleUpdateGoalAllotment))
	mux.HandleFunc("DELETE /api/goals/{id}", s.limited(s.handleDeleteGoal))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// limited applies the write rate limit to a handler.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		if !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		next(w, r)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
