package services

import (
	"context"
	"errors"
	"testing"

	"budgetbook/internal/core"
)

func TestGoalCreateComputesDerivedFields(t *testing.T) {
	f := newFundsFixture()
	ctx := context.Background()
	f.addIncome(t, "5000")

	id, err := f.goals.Create(ctx, core.Goal{
		Date:           core.NewDate(2025, 6, 30),
		Description:    "New car",
		GoalAmount:     amt("1000"),
		AllottedAmount: amt("250"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	g, err := f.store.GetGoal(ctx, id)
	if err != nil {
		t.Fatalf("GetGoal() error = %v", err)
	}
	if g.RequiredAmount.String() != "750" {
		t.Errorf("RequiredAmount = %s, want 750", g.RequiredAmount)
	}
	if g.ProgressPercent.String() != "25" {
		t.Errorf("ProgressPercent = %s, want 25", g.ProgressPercent)
	}
}

func TestGoalCreateRefusedWithoutFunds(t *testing.T) {
	tests := []struct {
		name    string
		income  string
		expense string
	}{
		{"empty ledger", "", ""},
		{"funds exactly zero", "500", "500"},
		{"funds negative", "500", "800"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFundsFixture()
			ctx := context.Background()
			if tt.income != "" {
				f.addIncome(t, tt.income)
			}
			if tt.expense != "" {
				f.addExpense(t, tt.expense)
			}

			_, err := f.goals.Create(ctx, core.Goal{
				Date:           core.NewDate(2025, 1, 1),
				Description:    "Holiday",
				GoalAmount:     amt("1000"),
				AllottedAmount: amt("100"),
			})
			if !errors.Is(err, core.ErrInsufficientFunds) {
				t.Fatalf("Create() error = %v, want ErrInsufficientFunds", err)
			}

			// Refused creation leaves the collection unchanged.
			goals, err := f.goals.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(goals) != 0 {
				t.Errorf("goal collection has %d records after refusal, want 0", len(goals))
			}
		})
	}
}

func TestGoalCreateDoesNotCheckAllotmentAgainstFunds(t *testing.T) {
	// Only available_funds > 0 gates creation; the allotment itself is
	// not validated against the balance, so funds can go negative.
	f := newFundsFixture()
	ctx := context.Background()
	f.addIncome(t, "100")

	if _, err := f.goals.Create(ctx, core.Goal{
		Date:           core.NewDate(2025, 1, 1),
		Description:    "Ambitious",
		GoalAmount:     amt("10000"),
		AllottedAmount: amt("900"),
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	funds, _ := f.funds.AvailableFunds(ctx)
	if funds.String() != "-800" {
		t.Errorf("AvailableFunds() = %s, want -800", funds)
	}
}

func TestGoalUpdateAllottedAmount(t *testing.T) {
	f := newFundsFixture()
	ctx := context.Background()
	f.addIncome(t, "5000")

	id, err := f.goals.Create(ctx, core.Goal{
		Date:           core.NewDate(2025, 6, 30),
		Description:    "New car",
		GoalAmount:     amt("1000"),
		AllottedAmount: amt("250"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	g, err := f.goals.UpdateAllottedAmount(ctx, id, amt("500"))
	if err != nil {
		t.Fatalf("UpdateAllottedAmount() error = %v", err)
	}
	if g.RequiredAmount.String() != "500" {
		t.Errorf("RequiredAmount = %s, want 500", g.RequiredAmount)
	}
	if g.ProgressPercent.String() != "50" {
		t.Errorf("ProgressPercent = %s, want 50", g.ProgressPercent)
	}

	// The stored record matches what the update returned.
	stored, _ := f.store.GetGoal(ctx, id)
	if !stored.RequiredAmount.Equal(g.RequiredAmount) || !stored.ProgressPercent.Equal(g.ProgressPercent) {
		t.Errorf("stored derived fields %s/%s differ from returned %s/%s",
			stored.RequiredAmount, stored.ProgressPercent, g.RequiredAmount, g.ProgressPercent)
	}
	if !stored.RequiredAmount.Add(stored.AllottedAmount).Equal(stored.GoalAmount) {
		t.Error("required + allotted != goal after update")
	}
}

func TestGoalUpdateGoalAmount(t *testing.T) {
	f := newFundsFixture()
	ctx := context.Background()
	f.addIncome(t, "5000")

	id, err := f.goals.Create(ctx, core.Goal{
		Date:           core.NewDate(2025, 6, 30),
		Description:    "New car",
		GoalAmount:     amt("1000"),
		AllottedAmount: amt("250"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	g, err := f.goals.UpdateGoalAmount(ctx, id, amt("2000"))
	if err != nil {
		t.Fatalf("UpdateGoalAmount() error = %v", err)
	}
	if g.RequiredAmount.String() != "1750" {
		t.Errorf("RequiredAmount = %s, want 1750", g.RequiredAmount)
	}
	if g.ProgressPercent.String() != "12.5" {
		t.Errorf("ProgressPercent = %s, want 12.5", g.ProgressPercent)
	}

	if _, err := f.goals.UpdateGoalAmount(ctx, id, amt("0")); !errors.Is(err, core.ErrArithmeticUndefined) {
		t.Errorf("UpdateGoalAmount(0) error = %v, want ErrArithmeticUndefined", err)
	}
}

func TestGoalMutationsOnMissingID(t *testing.T) {
	f := newFundsFixture()
	ctx := context.Background()

	if _, err := f.goals.UpdateGoalAmount(ctx, 99, amt("1000")); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateGoalAmount() error = %v, want ErrNotFound", err)
	}
	if _, err := f.goals.UpdateAllottedAmount(ctx, 99, amt("100")); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("UpdateAllottedAmount() error = %v, want ErrNotFound", err)
	}
	if err := f.goals.Remove(ctx, 99); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Remove() error = %v, want ErrNotFound", err)
	}
}

func TestGoalRemove(t *testing.T) {
	f := newFundsFixture()
	ctx := context.Background()
	f.addIncome(t, "1000")

	id, err := f.goals.Create(ctx, core.Goal{
		Date:           core.NewDate(2025, 1, 1),
		Description:    "Holiday",
		GoalAmount:     amt("500"),
		AllottedAmount: amt("100"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := f.goals.Remove(ctx, id); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	goals, _ := f.goals.List(ctx)
	if len(goals) != 0 {
		t.Errorf("List() has %d goals after removal, want 0", len(goals))
	}

	// The allotment no longer counts against available funds.
	funds, _ := f.funds.AvailableFunds(ctx)
	if funds.String() != "1000" {
		t.Errorf("AvailableFunds() after removal = %s, want 1000", funds)
	}
}

func TestOverallProgress(t *testing.T) {
	f := newFundsFixture()
	ctx := context.Background()
	f.addIncome(t, "10000")

	// No goals: undefined, reported not raised.
	if _, err := f.goals.OverallProgress(ctx); !errors.Is(err, core.ErrArithmeticUndefined) {
		t.Fatalf("OverallProgress() on empty collection error = %v, want ErrArithmeticUndefined", err)
	}

	for _, g := range []core.Goal{
		{Date: core.NewDate(2025, 1, 1), Description: "A", GoalAmount: amt("1000"), AllottedAmount: amt("250")},
		{Date: core.NewDate(2025, 1, 1), Description: "B", GoalAmount: amt("3000"), AllottedAmount: amt("750")},
	} {
		if _, err := f.goals.Create(ctx, g); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := f.goals.OverallProgress(ctx)
	if err != nil {
		t.Fatalf("OverallProgress() error = %v", err)
	}
	// 1000 allotted of 4000 total.
	if got.String() != "25" {
		t.Errorf("OverallProgress() = %s, want 25", got)
	}
}
