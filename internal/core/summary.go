package core

import "github.com/shopspring/decimal"

// BudgetReport is the evaluation of a single category: its cumulative
// budget, cumulative expenses, and the headroom between them. Available
// may be negative; the caller flags overrun.
type BudgetReport struct {
	Category  string
	Budget    decimal.Decimal
	Expenses  decimal.Decimal
	Available decimal.Decimal
}

// OverBudget reports whether expenses exceed the cumulative budget.
func (r BudgetReport) OverBudget() bool {
	return r.Available.IsNegative()
}

// Overrun returns the amount by which the budget is exceeded, zero when
// within budget.
func (r BudgetReport) Overrun() decimal.Decimal {
	if !r.OverBudget() {
		return decimal.Zero
	}
	return r.Available.Neg()
}
