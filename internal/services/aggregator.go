package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
)

// Aggregator computes sums and listings over the ledger. It holds no
// state of its own; every call is a fresh read of the store.
type Aggregator struct {
	store TransactionStore
}

func NewAggregator(store TransactionStore) *Aggregator {
	return &Aggregator{store: store}
}

// coerceSum applies the null-to-zero contract: an aggregate over no
// matching rows is the additive identity, never an error or an absent
// value. Applied uniformly to every total in the system.
func coerceSum(n decimal.NullDecimal, err error) (decimal.Decimal, error) {
	if err != nil {
		return decimal.Zero, err
	}
	if !n.Valid {
		return decimal.Zero, nil
	}
	return n.Decimal, nil
}

// SumExpenses returns the sum of all expense amounts, zero when the
// collection is empty.
func (a *Aggregator) SumExpenses(ctx context.Context) (decimal.Decimal, error) {
	total, err := coerceSum(a.store.SumTransactions(ctx, core.Expense))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses: %w", err)
	}
	return total, nil
}

// SumExpensesByCategory returns the expense total for one category,
// zero when none match.
func (a *Aggregator) SumExpensesByCategory(ctx context.Context, category string) (decimal.Decimal, error) {
	if err := core.ValidateCategory(core.Expense, category); err != nil {
		return decimal.Zero, err
	}
	total, err := coerceSum(a.store.SumTransactionsByCategory(ctx, core.Expense, category))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum expenses by category: %w", err)
	}
	return total, nil
}

// SumIncome returns the sum of all income amounts, zero when the
// collection is empty.
func (a *Aggregator) SumIncome(ctx context.Context) (decimal.Decimal, error) {
	total, err := coerceSum(a.store.SumTransactions(ctx, core.Income))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum income: %w", err)
	}
	return total, nil
}

// SumIncomeByCategory returns the income total for one category, zero
// when none match.
func (a *Aggregator) SumIncomeByCategory(ctx context.Context, category string) (decimal.Decimal, error) {
	if err := core.ValidateCategory(core.Income, category); err != nil {
		return decimal.Zero, err
	}
	total, err := coerceSum(a.store.SumTransactionsByCategory(ctx, core.Income, category))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum income by category: %w", err)
	}
	return total, nil
}

// ListByCategory returns transactions of the given kind and category,
// date descending, insertion order on ties.
func (a *Aggregator) ListByCategory(ctx context.Context, kind core.Kind, category string) ([]core.Transaction, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if err := core.ValidateCategory(kind, category); err != nil {
		return nil, err
	}
	items, err := a.store.ListTransactionsByCategory(ctx, kind, category)
	if err != nil {
		return nil, fmt.Errorf("list %s by category: %w", kind, err)
	}
	return items, nil
}
