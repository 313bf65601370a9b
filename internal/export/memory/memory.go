// Package memory provides an in-process export target, mainly for
// tests and local runs without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"budgetbook/internal/core"
	"budgetbook/internal/export"
)

type Row struct {
	Kind        core.Kind
	ID          int64
	Transaction core.Transaction
}

type Store struct {
	mu   sync.Mutex
	rows []Row

	// FailNext makes the next Append return an error, for testing the
	// sync-error path.
	FailNext bool
}

var _ export.LedgerWriter = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Append stores the row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, kind core.Kind, id int64, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailNext {
		s.FailNext = false
		return "", fmt.Errorf("append %s %d: simulated failure", kind, id)
	}
	s.rows = append(s.rows, Row{Kind: kind, ID: id, Transaction: t})
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}
