// Package memory provides an in-memory record store. It backs the
// "memory" data backend and the engine tests; semantics match the
// sqlite repository, including absent aggregates surfacing as invalid
// NullDecimals.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"
)

type Store struct {
	mu sync.Mutex

	transactions map[core.Kind]map[int64]core.Transaction
	budgets      map[int64]core.BudgetEntry
	goals        map[int64]core.Goal

	// Per-collection id counters; ids are never reused after deletion.
	nextTxID     map[core.Kind]int64
	nextBudgetID int64
	nextGoalID   int64
}

func New() *Store {
	return &Store{
		transactions: map[core.Kind]map[int64]core.Transaction{
			core.Expense: {},
			core.Income:  {},
		},
		budgets: map[int64]core.BudgetEntry{},
		goals:   map[int64]core.Goal{},
		nextTxID: map[core.Kind]int64{
			core.Expense: 0,
			core.Income:  0,
		},
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) InsertTransaction(_ context.Context, kind core.Kind, t core.Transaction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTxID[kind]++
	t.ID = s.nextTxID[kind]
	s.transactions[kind][t.ID] = t
	return t.ID, nil
}

func (s *Store) GetTransaction(_ context.Context, kind core.Kind, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[kind][id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (s *Store) UpdateTransactionAmount(_ context.Context, kind core.Kind, id int64, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.transactions[kind][id]
	if !ok {
		return core.ErrNotFound
	}
	t.Amount = amount
	s.transactions[kind][id] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, kind core.Kind, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[kind][id]; !ok {
		return core.ErrNotFound
	}
	delete(s.transactions[kind], id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, kind core.Kind) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]core.Transaction, 0, len(s.transactions[kind]))
	for _, t := range s.transactions[kind] {
		items = append(items, t)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) ListTransactionsByCategory(_ context.Context, kind core.Kind, category string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []core.Transaction
	for _, t := range s.transactions[kind] {
		if t.Category == category {
			items = append(items, t)
		}
	}
	// Date descending; equal dates keep insertion order (id ascending).
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date.Time) {
			return items[i].Date.After(items[j].Date.Time)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *Store) SumTransactions(_ context.Context, kind core.Kind) (decimal.NullDecimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum decimal.NullDecimal
	for _, t := range s.transactions[kind] {
		sum.Decimal = sum.Decimal.Add(t.Amount)
		sum.Valid = true
	}
	return sum, nil
}

func (s *Store) SumTransactionsByCategory(_ context.Context, kind core.Kind, category string) (decimal.NullDecimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum decimal.NullDecimal
	for _, t := range s.transactions[kind] {
		if t.Category == category {
			sum.Decimal = sum.Decimal.Add(t.Amount)
			sum.Valid = true
		}
	}
	return sum, nil
}

func (s *Store) InsertBudgetEntry(_ context.Context, e core.BudgetEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextBudgetID++
	e.ID = s.nextBudgetID
	s.budgets[e.ID] = e
	return e.ID, nil
}

func (s *Store) ListBudgetEntries(_ context.Context) ([]core.BudgetEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]core.BudgetEntry, 0, len(s.budgets))
	for _, e := range s.budgets {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func (s *Store) SumBudgetByCategory(_ context.Context, category string) (decimal.NullDecimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum decimal.NullDecimal
	for _, e := range s.budgets {
		if e.Category == category {
			sum.Decimal = sum.Decimal.Add(e.Amount)
			sum.Valid = true
		}
	}
	return sum, nil
}

func (s *Store) InsertGoal(_ context.Context, g core.Goal) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextGoalID++
	g.ID = s.nextGoalID
	s.goals[g.ID] = g
	return g.ID, nil
}

func (s *Store) GetGoal(_ context.Context, id int64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return core.Goal{}, core.ErrNotFound
	}
	return g, nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[g.ID]; !ok {
		return core.ErrNotFound
	}
	s.goals[g.ID] = g
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := make([]core.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

func (s *Store) SumGoalAmounts(_ context.Context) (decimal.NullDecimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum decimal.NullDecimal
	for _, g := range s.goals {
		sum.Decimal = sum.Decimal.Add(g.GoalAmount)
		sum.Valid = true
	}
	return sum, nil
}

func (s *Store) SumAllottedAmounts(_ context.Context) (decimal.NullDecimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sum decimal.NullDecimal
	for _, g := range s.goals {
		sum.Decimal = sum.Decimal.Add(g.AllottedAmount)
		sum.Valid = true
	}
	return sum, nil
}
