package worker

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"budgetbook/internal/amqp"
	"budgetbook/internal/core"
	memexport "budgetbook/internal/export/memory"
	"budgetbook/internal/storage"
)

type fakeStore struct {
	rows   map[core.Kind]map[int64]core.Transaction
	status map[core.Kind]map[int64]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rows: map[core.Kind]map[int64]core.Transaction{
			core.Expense: {},
			core.Income:  {},
		},
		status: map[core.Kind]map[int64]string{
			core.Expense: {},
			core.Income:  {},
		},
	}
}

func (f *fakeStore) add(kind core.Kind, id int64, t core.Transaction) {
	t.ID = id
	f.rows[kind][id] = t
	f.status[kind][id] = storage.SyncPending
}

func (f *fakeStore) GetTransaction(_ context.Context, kind core.Kind, id int64) (core.Transaction, error) {
	t, ok := f.rows[kind][id]
	if !ok {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) GetPendingSync(_ context.Context, kind core.Kind, limit int) ([]storage.PendingSyncRow, error) {
	var out []storage.PendingSyncRow
	for id, st := range f.status[kind] {
		if st == storage.SyncPending && len(out) < limit {
			out = append(out, storage.PendingSyncRow{Kind: kind, ID: id})
		}
	}
	return out, nil
}

func (f *fakeStore) MarkSynced(_ context.Context, kind core.Kind, id int64) error {
	f.status[kind][id] = storage.SyncDone
	return nil
}

func (f *fakeStore) MarkSyncError(_ context.Context, kind core.Kind, id int64) error {
	f.status[kind][id] = storage.SyncError
	return nil
}

func testTransaction(desc string) core.Transaction {
	return core.Transaction{
		Date:        core.Date{Time: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		Description: desc,
		Category:    "Groceries",
		Amount:      decimal.NewFromInt(42),
	}
}

func TestHandleLedgerEventCreated(t *testing.T) {
	store := newFakeStore()
	store.add(core.Expense, 1, testTransaction("weekly shop"))
	writer := memexport.New()
	w := NewExportWorker(store, writer, 10)

	msg := &amqp.LedgerEventMessage{Kind: core.Expense, ID: 1, Action: amqp.ActionCreated}
	if err := w.HandleLedgerEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleLedgerEvent() error = %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 {
		t.Fatalf("exported %d rows, want 1", len(rows))
	}
	if rows[0].Kind != core.Expense || rows[0].ID != 1 {
		t.Errorf("exported row = %v/%d, want expense/1", rows[0].Kind, rows[0].ID)
	}
	if got := store.status[core.Expense][1]; got != storage.SyncDone {
		t.Errorf("sync status = %s, want %s", got, storage.SyncDone)
	}
}

func TestHandleLedgerEventDeletedIsSkipped(t *testing.T) {
	store := newFakeStore()
	writer := memexport.New()
	w := NewExportWorker(store, writer, 10)

	msg := &amqp.LedgerEventMessage{Kind: core.Income, ID: 7, Action: amqp.ActionDeleted}
	if err := w.HandleLedgerEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleLedgerEvent() error = %v", err)
	}
	if len(writer.Rows()) != 0 {
		t.Errorf("deleted event must not export rows")
	}
}

func TestHandleLedgerEventUnknownAction(t *testing.T) {
	w := NewExportWorker(newFakeStore(), memexport.New(), 10)

	msg := &amqp.LedgerEventMessage{Kind: core.Expense, ID: 1, Action: "renamed"}
	if err := w.HandleLedgerEvent(context.Background(), msg); err == nil {
		t.Fatal("HandleLedgerEvent() expected error for unknown action")
	}
}

func TestExportFailureMarksError(t *testing.T) {
	store := newFakeStore()
	store.add(core.Expense, 3, testTransaction("rent"))
	writer := memexport.New()
	writer.FailNext = true
	w := NewExportWorker(store, writer, 10)

	msg := &amqp.LedgerEventMessage{Kind: core.Expense, ID: 3, Action: amqp.ActionCreated}
	if err := w.HandleLedgerEvent(context.Background(), msg); err == nil {
		t.Fatal("HandleLedgerEvent() expected error when export fails")
	}
	if got := store.status[core.Expense][3]; got != storage.SyncError {
		t.Errorf("sync status = %s, want %s", got, storage.SyncError)
	}
}

func TestProcessPendingExportsBothKinds(t *testing.T) {
	store := newFakeStore()
	store.add(core.Expense, 1, testTransaction("groceries"))
	store.add(core.Income, 1, testTransaction("salary"))
	writer := memexport.New()
	w := NewExportWorker(store, writer, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending() error = %v", err)
	}

	if len(writer.Rows()) != 2 {
		t.Fatalf("exported %d rows, want 2", len(writer.Rows()))
	}
	if store.status[core.Expense][1] != storage.SyncDone || store.status[core.Income][1] != storage.SyncDone {
		t.Error("pending rows were not marked synced")
	}

	// A second pass finds nothing left to do.
	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("ProcessPending() second pass error = %v", err)
	}
	if len(writer.Rows()) != 2 {
		t.Errorf("second pass exported extra rows: %d", len(writer.Rows()))
	}
}
