package services

import (
	"context"
	"errors"
	"testing"

	"budgetbook/internal/core"
	"budgetbook/internal/storage/memory"
)

func TestTransactionCreateValidation(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		kind    core.Kind
		tx      core.Transaction
		wantErr error
	}{
		{
			name: "unknown category",
			kind: core.Expense,
			tx: core.Transaction{
				Date:        core.NewDate(2024, 1, 1),
				Category:    "Gambling",
				Description: "nope",
				Amount:      amt("10"),
			},
			wantErr: core.ErrInvalidCategory,
		},
		{
			name: "missing description",
			kind: core.Expense,
			tx: core.Transaction{
				Date:     core.NewDate(2024, 1, 1),
				Category: "Household",
				Amount:   amt("10"),
			},
			wantErr: core.ErrConstraintViolation,
		},
		{
			name: "missing date",
			kind: core.Income,
			tx: core.Transaction{
				Category:    "Salary",
				Description: "pay",
				Amount:      amt("10"),
			},
			wantErr: core.ErrConstraintViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.kind, tt.tx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Rejected inserts leave the collection empty.
	items, err := svc.List(ctx, core.Expense)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expense collection has %d rows after rejected inserts, want 0", len(items))
	}
}

func TestTransactionNegativeAmountStoredAsGiven(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	id, err := svc.Create(ctx, core.Expense, core.Transaction{
		Date:        core.NewDate(2024, 1, 1),
		Category:    "Other",
		Description: "refund",
		Amount:      amt("-25.50"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get(ctx, core.Expense, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Amount.String() != "-25.5" {
		t.Errorf("Amount = %s, want -25.5", got.Amount)
	}
}

func TestIncomeUpdateAndDeleteHitIncomeCollection(t *testing.T) {
	store := memory.New()
	svc := NewTransactionService(store, nil)
	agg := NewAggregator(store)
	ctx := context.Background()

	incomeID, err := svc.Create(ctx, core.Income, core.Transaction{
		Date:        core.NewDate(2024, 1, 1),
		Category:    "Salary",
		Description: "pay",
		Amount:      amt("3000"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	expenseID, err := svc.Create(ctx, core.Expense, core.Transaction{
		Date:        core.NewDate(2024, 1, 1),
		Category:    "Household",
		Description: "groceries",
		Amount:      amt("100"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.UpdateAmount(ctx, core.Income, incomeID, amt("3500")); err != nil {
		t.Fatalf("UpdateAmount() error = %v", err)
	}

	incomeTotal, _ := agg.SumIncome(ctx)
	if incomeTotal.String() != "3500" {
		t.Errorf("income total = %s, want 3500", incomeTotal)
	}
	expenseTotal, _ := agg.SumExpenses(ctx)
	if expenseTotal.String() != "100" {
		t.Errorf("expense total = %s, want 100 (expense row must be untouched)", expenseTotal)
	}

	if err := svc.Delete(ctx, core.Income, incomeID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get(ctx, core.Income, incomeID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(ctx, core.Expense, expenseID); err != nil {
		t.Errorf("expense row should survive income delete, got %v", err)
	}
}

func TestTransactionMutationsOnMissingID(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	ctx := context.Background()

	if err := svc.UpdateAmount(ctx, core.Expense, 42, amt("10")); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateAmount() error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, core.Income, 42); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
