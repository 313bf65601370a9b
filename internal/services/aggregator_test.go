package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
	"budgetbook/internal/storage/memory"
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregatorEmptyLedgerSumsToZero(t *testing.T) {
	agg := NewAggregator(memory.New())
	ctx := context.Background()

	checks := []struct {
		name string
		sum  func() (decimal.Decimal, error)
	}{
		{"all expenses", func() (decimal.Decimal, error) { return agg.SumExpenses(ctx) }},
		{"all income", func() (decimal.Decimal, error) { return agg.SumIncome(ctx) }},
		{"expenses by category", func() (decimal.Decimal, error) { return agg.SumExpensesByCategory(ctx, "Household") }},
		{"income by category", func() (decimal.Decimal, error) { return agg.SumIncomeByCategory(ctx, "Salary") }},
	}

	for _, c := range checks {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.sum()
			if err != nil {
				t.Fatalf("sum error = %v", err)
			}
			if !got.IsZero() {
				t.Errorf("sum over empty ledger = %s, want 0", got)
			}
		})
	}
}

func TestAggregatorCategorySumFollowsMutations(t *testing.T) {
	store := memory.New()
	agg := NewAggregator(store)
	svc := NewTransactionService(store, nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, core.Expense, core.Transaction{
		Date:        core.NewDate(2024, 1, 1),
		Category:    "Household",
		Description: "Groceries",
		Amount:      amt("500"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := agg.SumExpensesByCategory(ctx, "Household")
	if err != nil {
		t.Fatalf("SumExpensesByCategory() error = %v", err)
	}
	if got.String() != "500" {
		t.Errorf("after insert sum = %s, want 500", got)
	}

	if err := svc.UpdateAmount(ctx, core.Expense, id, amt("650")); err != nil {
		t.Fatalf("UpdateAmount() error = %v", err)
	}
	got, _ = agg.SumExpensesByCategory(ctx, "Household")
	if got.String() != "650" {
		t.Errorf("after update sum = %s, want 650", got)
	}

	if err := svc.Delete(ctx, core.Expense, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	got, _ = agg.SumExpensesByCategory(ctx, "Household")
	if !got.IsZero() {
		t.Errorf("after delete sum = %s, want 0", got)
	}
}

func TestAggregatorRejectsUnknownCategory(t *testing.T) {
	agg := NewAggregator(memory.New())
	ctx := context.Background()

	if _, err := agg.SumExpensesByCategory(ctx, "Salary"); !errors.Is(err, core.ErrInvalidCategory) {
		t.Errorf("SumExpensesByCategory(income label) error = %v, want ErrInvalidCategory", err)
	}
	if _, err := agg.ListByCategory(ctx, core.Income, "Household"); !errors.Is(err, core.ErrInvalidCategory) {
		t.Errorf("ListByCategory(expense label) error = %v, want ErrInvalidCategory", err)
	}
}

func TestAggregatorListByCategoryOrdering(t *testing.T) {
	store := memory.New()
	agg := NewAggregator(store)
	svc := NewTransactionService(store, nil)
	ctx := context.Background()

	// Two dates, two rows sharing the later date.
	rows := []core.Transaction{
		{Date: core.NewDate(2024, 1, 1), Category: "Household", Description: "early", Amount: amt("10")},
		{Date: core.NewDate(2024, 3, 1), Category: "Household", Description: "late first", Amount: amt("20")},
		{Date: core.NewDate(2024, 3, 1), Category: "Household", Description: "late second", Amount: amt("30")},
		{Date: core.NewDate(2024, 2, 1), Category: "Insurance", Description: "other category", Amount: amt("40")},
	}
	for _, r := range rows {
		if _, err := svc.Create(ctx, core.Expense, r); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := agg.ListByCategory(ctx, core.Expense, "Household")
	if err != nil {
		t.Fatalf("ListByCategory() error = %v", err)
	}

	want := []string{"late first", "late second", "early"}
	if len(got) != len(want) {
		t.Fatalf("ListByCategory() returned %d rows, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Description != w {
			t.Errorf("row %d = %q, want %q", i, got[i].Description, w)
		}
	}
}
