package services

import (
	"context"
	"testing"

	"budgetbook/internal/core"
	"budgetbook/internal/storage/memory"
)

type fundsFixture struct {
	store        *memory.Store
	transactions *TransactionService
	goals        *GoalTracker
	funds        *FundsCalculator
}

func newFundsFixture() *fundsFixture {
	store := memory.New()
	agg := NewAggregator(store)
	funds := NewFundsCalculator(agg, store)
	return &fundsFixture{
		store:        store,
		transactions: NewTransactionService(store, nil),
		goals:        NewGoalTracker(store, funds),
		funds:        funds,
	}
}

func (f *fundsFixture) addIncome(t *testing.T, amount string) {
	t.Helper()
	_, err := f.transactions.Create(context.Background(), core.Income, core.Transaction{
		Date:        core.NewDate(2024, 1, 1),
		Category:    "Salary",
		Description: "salary",
		Amount:      amt(amount),
	})
	if err != nil {
		t.Fatalf("add income: %v", err)
	}
}

func (f *fundsFixture) addExpense(t *testing.T, amount string) {
	t.Helper()
	_, err := f.transactions.Create(context.Background(), core.Expense, core.Transaction{
		Date:        core.NewDate(2024, 1, 2),
		Category:    "Household",
		Description: "spending",
		Amount:      amt(amount),
	})
	if err != nil {
		t.Fatalf("add expense: %v", err)
	}
}

func TestAvailableFundsEmptyLedger(t *testing.T) {
	f := newFundsFixture()

	got, err := f.funds.AvailableFunds(context.Background())
	if err != nil {
		t.Fatalf("AvailableFunds() error = %v", err)
	}
	if !got.IsZero() {
		t.Errorf("AvailableFunds() = %s, want 0", got)
	}
}

func TestAvailableFundsDeductsExpensesAndAllotments(t *testing.T) {
	f := newFundsFixture()
	ctx := context.Background()

	f.addIncome(t, "3000")
	f.addExpense(t, "1200")

	got, err := f.funds.AvailableFunds(ctx)
	if err != nil {
		t.Fatalf("AvailableFunds() error = %v", err)
	}
	if got.String() != "1800" {
		t.Errorf("AvailableFunds() = %s, want 1800", got)
	}

	// A goal's allotment is deducted from subsequent reads.
	if _, err := f.goals.Create(ctx, core.Goal{
		Date:           core.NewDate(2024, 12, 31),
		Description:    "Emergency fund",
		GoalAmount:     amt("1000"),
		AllottedAmount: amt("250"),
	}); err != nil {
		t.Fatalf("Create goal: %v", err)
	}

	got, _ = f.funds.AvailableFunds(ctx)
	if got.String() != "1550" {
		t.Errorf("AvailableFunds() after goal = %s, want 1550", got)
	}
}

func TestAvailableFundsRecomputedFresh(t *testing.T) {
	f := newFundsFixture()
	ctx := context.Background()

	f.addIncome(t, "1000")

	first, _ := f.funds.AvailableFunds(ctx)
	if first.String() != "1000" {
		t.Fatalf("AvailableFunds() = %s, want 1000", first)
	}

	// A later expense must show up on the next read; no caching.
	f.addExpense(t, "400")
	second, _ := f.funds.AvailableFunds(ctx)
	if second.String() != "600" {
		t.Errorf("AvailableFunds() after expense = %s, want 600", second)
	}
}
