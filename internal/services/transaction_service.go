package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
)

// TransactionService handles expense and income writes. Mutations hit
// the store first, then publish a ledger event for the export worker;
// a failed publish is logged and does not fail the request, the
// periodic catch-up pass picks the row up later.
type TransactionService struct {
	store      TransactionStore
	amqpClient *amqp.Client
}

func NewTransactionService(store TransactionStore, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      store,
		amqpClient: amqpClient,
	}
}

// Create inserts a transaction of the given kind. The category must
// belong to the kind's fixed set; a malformed record is rejected in
// full.
func (s *TransactionService) Create(ctx context.Context, kind core.Kind, t core.Transaction) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrConstraintViolation, err)
	}
	if err := core.ValidateCategory(kind, t.Category); err != nil {
		return 0, err
	}
	if err := t.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrConstraintViolation, err)
	}

	id, err := s.store.InsertTransaction(ctx, kind, t)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", kind, err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"kind", kind,
		"id", id,
		"category", t.Category,
		"description", t.Description,
		"amount", t.Amount)

	s.publishEvent(ctx, kind, id, amqp.ActionCreated)
	return id, nil
}

// Get returns one transaction by id.
func (s *TransactionService) Get(ctx context.Context, kind core.Kind, id int64) (core.Transaction, error) {
	t, err := s.store.GetTransaction(ctx, kind, id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get %s %d: %w", kind, id, err)
	}
	return t, nil
}

// UpdateAmount updates a transaction's amount in place. Amount is the
// only mutable field.
func (s *TransactionService) UpdateAmount(ctx context.Context, kind core.Kind, id int64, amount decimal.Decimal) error {
	if err := s.store.UpdateTransactionAmount(ctx, kind, id, amount); err != nil {
		return fmt.Errorf("update %s %d amount: %w", kind, id, err)
	}

	slog.InfoContext(ctx, "Transaction amount updated",
		"kind", kind,
		"id", id,
		"amount", amount)

	s.publishEvent(ctx, kind, id, amqp.ActionAmountUpdated)
	return nil
}

// Delete removes a transaction by id.
func (s *TransactionService) Delete(ctx context.Context, kind core.Kind, id int64) error {
	if err := s.store.DeleteTransaction(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "kind", kind, "id", id)

	s.publishEvent(ctx, kind, id, amqp.ActionDeleted)
	return nil
}

// List returns all transactions of a kind.
func (s *TransactionService) List(ctx context.Context, kind core.Kind) ([]core.Transaction, error) {
	items, err := s.store.ListTransactions(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	return items, nil
}

func (s *TransactionService) publishEvent(ctx context.Context, kind core.Kind, id int64, action string) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping ledger event",
			"kind", kind, "id", id, "action", action)
		return
	}
	if err := s.amqpClient.PublishLedgerEvent(ctx, kind, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"error", err, "kind", kind, "id", id, "action", action)
	}
}
