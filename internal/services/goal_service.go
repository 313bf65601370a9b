package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
)

// GoalTracker owns financial goal records. Every mutation of a goal's
// amount or allotment recomputes and persists the stored derived
// fields, so no read observes a stale required/progress pair. The
// read-recompute-write sequence is serialized under mu; contention on a
// single-user ledger is low enough that a tracker-wide lock is fine.
type GoalTracker struct {
	store GoalStore
	funds *FundsCalculator

	mu sync.Mutex
}

func NewGoalTracker(store GoalStore, funds *FundsCalculator) *GoalTracker {
	return &GoalTracker{store: store, funds: funds}
}

// Create records a new goal. Creation requires available funds to be
// positive; it does NOT require them to cover the requested allotment,
// so a large allotment can drive available funds negative afterwards.
// That asymmetry is deliberate and kept.
func (t *GoalTracker) Create(ctx context.Context, g core.Goal) (int64, error) {
	if err := g.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrConstraintViolation, err)
	}
	if g.GoalAmount.IsZero() {
		return 0, fmt.Errorf("%w: goal amount is zero", core.ErrArithmeticUndefined)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	available, err := t.funds.AvailableFunds(ctx)
	if err != nil {
		return 0, err
	}
	if !available.IsPositive() {
		return 0, fmt.Errorf("%w: available funds %s", core.ErrInsufficientFunds, available)
	}

	if err := g.Recompute(); err != nil {
		return 0, err
	}

	id, err := t.store.InsertGoal(ctx, g)
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}

	slog.InfoContext(ctx, "Financial goal created",
		"id", id,
		"description", g.Description,
		"goal_amount", g.GoalAmount,
		"allotted_amount", g.AllottedAmount,
		"funds_after", available.Sub(g.AllottedAmount))

	return id, nil
}

// UpdateGoalAmount sets a new goal amount and recomputes the stored
// derived fields against the existing allotment.
func (t *GoalTracker) UpdateGoalAmount(ctx context.Context, id int64, goalAmount decimal.Decimal) (core.Goal, error) {
	if goalAmount.IsZero() {
		return core.Goal{}, fmt.Errorf("%w: goal amount is zero", core.ErrArithmeticUndefined)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	g, err := t.store.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal %d: %w", id, err)
	}

	g.GoalAmount = goalAmount
	if err := g.Recompute(); err != nil {
		return core.Goal{}, err
	}

	if err := t.store.UpdateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("update goal %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Goal amount updated",
		"id", id,
		"goal_amount", g.GoalAmount,
		"required_amount", g.RequiredAmount,
		"progress_percent", g.ProgressPercent)

	return g, nil
}

// UpdateAllottedAmount sets a new allotted amount and recomputes the
// stored derived fields against the existing goal amount.
func (t *GoalTracker) UpdateAllottedAmount(ctx context.Context, id int64, allotted decimal.Decimal) (core.Goal, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	g, err := t.store.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal %d: %w", id, err)
	}

	g.AllottedAmount = allotted
	if err := g.Recompute(); err != nil {
		return core.Goal{}, err
	}

	if err := t.store.UpdateGoal(ctx, g); err != nil {
		return core.Goal{}, fmt.Errorf("update goal %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Allotted amount updated",
		"id", id,
		"allotted_amount", g.AllottedAmount,
		"required_amount", g.RequiredAmount,
		"progress_percent", g.ProgressPercent)

	return g, nil
}

// Remove deletes a goal. Goals stay active until removed; reaching 100%
// progress does not close them.
func (t *GoalTracker) Remove(ctx context.Context, id int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Financial goal removed", "id", id)
	return nil
}

// List returns all goals.
func (t *GoalTracker) List(ctx context.Context) ([]core.Goal, error) {
	goals, err := t.store.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// OverallProgress reports total allotments as a percentage of total
// goal amounts, rounded to 2 decimals. With no goals (or a zero total
// goal amount) the figure is undefined and reported as such.
func (t *GoalTracker) OverallProgress(ctx context.Context) (decimal.Decimal, error) {
	goalsTotal, err := coerceSum(t.store.SumGoalAmounts(ctx))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum goal amounts: %w", err)
	}

	allottedTotal, err := coerceSum(t.store.SumAllottedAmounts(ctx))
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum allotted amounts: %w", err)
	}

	return core.Percentage(allottedTotal, goalsTotal)
}
