package services

import (
	"context"
	"fmt"
	"log/slog"

	"budgetbook/internal/core"
)

// BudgetService owns category budget entries and evaluates headroom.
// Budgets are per expense category; each Set appends an entry and the
// effective budget is the accumulated sum.
type BudgetService struct {
	store      BudgetStore
	aggregator *Aggregator
}

func NewBudgetService(store BudgetStore, aggregator *Aggregator) *BudgetService {
	return &BudgetService{store: store, aggregator: aggregator}
}

// SetBudget appends a budget entry for a category.
func (s *BudgetService) SetBudget(ctx context.Context, e core.BudgetEntry) (int64, error) {
	if err := core.ValidateCategory(core.Expense, e.Category); err != nil {
		return 0, err
	}
	if err := e.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrConstraintViolation, err)
	}

	id, err := s.store.InsertBudgetEntry(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("insert budget entry: %w", err)
	}

	slog.InfoContext(ctx, "Budget set for category",
		"id", id,
		"category", e.Category,
		"amount", e.Amount)

	return id, nil
}

// Evaluate reports the cumulative budget, cumulative expenses and the
// headroom between them for one category. Pure read; a negative
// Available is reported, not raised.
func (s *BudgetService) Evaluate(ctx context.Context, category string) (core.BudgetReport, error) {
	if err := core.ValidateCategory(core.Expense, category); err != nil {
		return core.BudgetReport{}, err
	}

	budget, err := coerceSum(s.store.SumBudgetByCategory(ctx, category))
	if err != nil {
		return core.BudgetReport{}, fmt.Errorf("sum budget for category: %w", err)
	}

	expenses, err := s.aggregator.SumExpensesByCategory(ctx, category)
	if err != nil {
		return core.BudgetReport{}, err
	}

	return core.BudgetReport{
		Category:  category,
		Budget:    budget,
		Expenses:  expenses,
		Available: budget.Sub(expenses),
	}, nil
}

// ListEntries returns every budget entry.
func (s *BudgetService) ListEntries(ctx context.Context) ([]core.BudgetEntry, error) {
	entries, err := s.store.ListBudgetEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budget entries: %w", err)
	}
	return entries, nil
}
