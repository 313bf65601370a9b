// Package worker mirrors saved ledger rows to the configured export
// target. Events arrive over AMQP; a periodic pass over rows still
// marked pending covers lost messages and worker downtime.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	"budgetbook/internal/export"
	"budgetbook/internal/storage"
)

// ExportStore is the slice of the repository the worker needs.
type ExportStore interface {
	GetTransaction(ctx context.Context, kind core.Kind, id int64) (core.Transaction, error)
	GetPendingSync(ctx context.Context, kind core.Kind, limit int) ([]storage.PendingSyncRow, error)
	MarkSynced(ctx context.Context, kind core.Kind, id int64) error
	MarkSyncError(ctx context.Context, kind core.Kind, id int64) error
}

var _ ExportStore = (*storage.SQLiteRepository)(nil)

// ExportWorker handles synchronization of ledger rows to the export target.
type ExportWorker struct {
	store     ExportStore
	writer    export.LedgerWriter
	batchSize int
}

func NewExportWorker(store ExportStore, writer export.LedgerWriter, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		writer:    writer,
		batchSize: batchSize,
	}
}

// HandleLedgerEvent processes a single ledger event from AMQP.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"kind", msg.Kind,
		"id", msg.ID,
		"action", msg.Action)

	switch msg.Action {
	case amqp.ActionCreated, amqp.ActionAmountUpdated:
		return w.exportRow(ctx, msg.Kind, msg.ID)
	case amqp.ActionDeleted:
		// The row is gone locally; the export keeps its history.
		slog.InfoContext(ctx, "Skipping export for deleted row",
			"kind", msg.Kind,
			"id", msg.ID)
		return nil
	default:
		return fmt.Errorf("unknown ledger event action %q", msg.Action)
	}
}

// ProcessPending exports rows that are still marked pending.
// This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	for _, kind := range []core.Kind{core.Expense, core.Income} {
		pending, err := w.store.GetPendingSync(ctx, kind, w.batchSize)
		if err != nil {
			return fmt.Errorf("get pending %s rows: %w", kind, err)
		}

		if len(pending) == 0 {
			continue
		}

		slog.InfoContext(ctx, "Processing pending rows",
			"kind", kind,
			"count", len(pending))

		for _, p := range pending {
			if err := w.exportRow(ctx, p.Kind, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to export pending row",
					"kind", p.Kind, "id", p.ID, "error", err)
			}
		}
	}
	return nil
}

// StartupSyncCheck exports any backlog of pending rows at worker
// startup, with a larger batch than the periodic pass.
func (w *ExportWorker) StartupSyncCheck(ctx context.Context) error {
	total := 0
	errorCount := 0

	for _, kind := range []core.Kind{core.Expense, core.Income} {
		pending, err := w.store.GetPendingSync(ctx, kind, w.batchSize*5)
		if err != nil {
			return fmt.Errorf("get pending %s rows for startup check: %w", kind, err)
		}

		total += len(pending)
		for _, p := range pending {
			if err := w.exportRow(ctx, p.Kind, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to export row during startup",
					"kind", p.Kind, "id", p.ID, "error", err)
				errorCount++
			}
		}
	}

	if total == 0 {
		slog.InfoContext(ctx, "No pending rows found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", total,
		"synced", total-errorCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportRow(ctx context.Context, kind core.Kind, id int64) error {
	t, err := w.store.GetTransaction(ctx, kind, id)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, kind, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"kind", kind, "id", id, "error", markErr)
		}
		return fmt.Errorf("get %s %d from storage: %w", kind, id, err)
	}

	ref, err := w.writer.Append(ctx, kind, id, t)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, kind, id); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"kind", kind, "id", id, "error", markErr)
		}
		return fmt.Errorf("append to export target: %w", err)
	}

	if err := w.store.MarkSynced(ctx, kind, id); err != nil {
		// The export itself worked, so do not fail the message.
		slog.ErrorContext(ctx, "Failed to mark as synced",
			"kind", kind, "id", id, "error", err)
	}

	slog.InfoContext(ctx, "Exported ledger row",
		"kind", kind,
		"id", id,
		"ref", ref,
		"description", t.Description)

	return nil
}
