// Package services implements the derived-state computation engine:
// aggregation over the ledger, budget evaluation, the available-funds
// figure, and the goal tracker with its recomputation contract.
package services

import (
	"context"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
)

// Ports for the record store. Aggregate reads surface an absent SQL SUM
// as an invalid NullDecimal; coercing that to zero is the engine's job.
type (
	TransactionStore interface {
		InsertTransaction(ctx context.Context, kind core.Kind, t core.Transaction) (int64, error)
		GetTransaction(ctx context.Context, kind core.Kind, id int64) (core.Transaction, error)
		UpdateTransactionAmount(ctx context.Context, kind core.Kind, id int64, amount decimal.Decimal) error
		DeleteTransaction(ctx context.Context, kind core.Kind, id int64) error
		ListTransactions(ctx context.Context, kind core.Kind) ([]core.Transaction, error)
		// ListTransactionsByCategory returns rows ordered by date
		// descending, ties by insertion order.
		ListTransactionsByCategory(ctx context.Context, kind core.Kind, category string) ([]core.Transaction, error)
		SumTransactions(ctx context.Context, kind core.Kind) (decimal.NullDecimal, error)
		SumTransactionsByCategory(ctx context.Context, kind core.Kind, category string) (decimal.NullDecimal, error)
	}

	BudgetStore interface {
		InsertBudgetEntry(ctx context.Context, e core.BudgetEntry) (int64, error)
		ListBudgetEntries(ctx context.Context) ([]core.BudgetEntry, error)
		SumBudgetByCategory(ctx context.Context, category string) (decimal.NullDecimal, error)
	}

	GoalStore interface {
		InsertGoal(ctx context.Context, g core.Goal) (int64, error)
		GetGoal(ctx context.Context, id int64) (core.Goal, error)
		// UpdateGoal persists the goal's amounts together with its
		// derived fields in a single write.
		UpdateGoal(ctx context.Context, g core.Goal) error
		DeleteGoal(ctx context.Context, id int64) error
		ListGoals(ctx context.Context) ([]core.Goal, error)
		SumGoalAmounts(ctx context.Context) (decimal.NullDecimal, error)
		SumAllottedAmounts(ctx context.Context) (decimal.NullDecimal, error)
	}

	// Store is the full record store contract.
	Store interface {
		TransactionStore
		BudgetStore
		GoalStore
		Close() error
	}
)
