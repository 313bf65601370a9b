package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// FundsCalculator derives the available-funds figure: income minus
// expenses minus total goal allotments. Recomputed fresh on every call;
// caching would let the figure drift from the ledger as transactions
// and goals mutate independently.
type FundsCalculator struct {
	aggregator *Aggregator
	goals      GoalStore
}

func NewFundsCalculator(aggregator *Aggregator, goals GoalStore) *FundsCalculator {
	return &FundsCalculator{aggregator: aggregator, goals: goals}
}

// AvailableFunds returns money not yet committed to expenses or goal
// funding at this point in time.
func (f *FundsCalculator) AvailableFunds(ctx context.Context) (decimal.Decimal, error) {
	income, err := f.aggregator.SumIncome(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	expenses, err := f.aggregator.SumExpenses(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	allotted, err := coerceSum(f.goals.SumAllottedAmounts(ctx))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum allotted amounts: %w", err)
	}

	return income.Sub(expenses).Sub(allotted), nil
}
