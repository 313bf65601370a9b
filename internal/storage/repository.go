// Package storage implements the record store over SQLite. Four
// collections back the ledger: expenses, income, category_budget and
// financial_goals, each with an auto-assigned integer id that is never
// reused after deletion.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"budgetbook/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// Sync states for the export pipeline.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// tableFor maps a transaction kind to its collection.
func tableFor(kind core.Kind) (string, error) {
	switch kind {
	case core.Expense:
		return "expenses", nil
	case core.Income:
		return "income", nil
	}
	return "", fmt.Errorf("unknown transaction kind %q", kind)
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, kind core.Kind, t core.Transaction) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO `+table+` (date, description, category, amount) VALUES (?, ?, ?, ?)`,
		t.Date.Format(dateLayout), t.Description, t.Category, t.Amount.String())
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", table, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"table", table,
		"id", id,
		"description", t.Description,
		"category", t.Category,
		"amount", t.Amount)

	return id, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, kind core.Kind, id int64) (core.Transaction, error) {
	table, err := tableFor(kind)
	if err != nil {
		return core.Transaction{}, err
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, description, category, amount FROM `+table+` WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get from %s: %w", table, err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTransactionAmount(ctx context.Context, kind core.Kind, id int64, amount decimal.Decimal) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET amount = ?, sync_status = ? WHERE id = ?`,
		amount.String(), SyncPending, id)
	if err != nil {
		return fmt.Errorf("update %s amount: %w", table, err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, kind core.Kind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, kind core.Kind) ([]core.Transaction, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, category, amount FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *SQLiteRepository) ListTransactionsByCategory(ctx context.Context, kind core.Kind, category string) ([]core.Transaction, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	// Ties on equal dates keep insertion order via the id.
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, category, amount FROM `+table+`
		 WHERE category = ? ORDER BY date DESC, id ASC`, category)
	if err != nil {
		return nil, fmt.Errorf("list %s by category: %w", table, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *SQLiteRepository) SumTransactions(ctx context.Context, kind core.Kind) (decimal.NullDecimal, error) {
	table, err := tableFor(kind)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	var sum decimal.NullDecimal
	err = r.db.QueryRowContext(ctx, `SELECT SUM(amount) FROM `+table).Scan(&sum)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sum %s: %w", table, err)
	}
	return sum, nil
}

func (r *SQLiteRepository) SumTransactionsByCategory(ctx context.Context, kind core.Kind, category string) (decimal.NullDecimal, error) {
	table, err := tableFor(kind)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	var sum decimal.NullDecimal
	err = r.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM `+table+` WHERE category = ?`, category).Scan(&sum)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sum %s by category: %w", table, err)
	}
	return sum, nil
}

func (r *SQLiteRepository) InsertBudgetEntry(ctx context.Context, e core.BudgetEntry) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO category_budget (date, category, amount) VALUES (?, ?, ?)`,
		e.Date.Format(dateLayout), e.Category, e.Amount.String())
	if err != nil {
		return 0, fmt.Errorf("insert budget entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListBudgetEntries(ctx context.Context) ([]core.BudgetEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, category, amount FROM category_budget ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list budget entries: %w", err)
	}
	defer rows.Close()

	var entries []core.BudgetEntry
	for rows.Next() {
		var (
			e       core.BudgetEntry
			rawDate string
		)
		if err := rows.Scan(&e.ID, &rawDate, &e.Category, &e.Amount); err != nil {
			return nil, fmt.Errorf("scan budget entry: %w", err)
		}
		e.Date, err = parseDate(rawDate)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) SumBudgetByCategory(ctx context.Context, category string) (decimal.NullDecimal, error) {
	var sum decimal.NullDecimal
	err := r.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM category_budget WHERE category = ?`, category).Scan(&sum)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sum budget by category: %w", err)
	}
	return sum, nil
}

func (r *SQLiteRepository) InsertGoal(ctx context.Context, g core.Goal) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO financial_goals (date, description, goal_amount, allotted_amount, required_amount, progress_percent)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.Date.Format(dateLayout), g.Description,
		g.GoalAmount.String(), g.AllottedAmount.String(),
		g.RequiredAmount.String(), g.ProgressPercent.String())
	if err != nil {
		return 0, fmt.Errorf("insert goal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, description, goal_amount, allotted_amount, required_amount, progress_percent
		 FROM financial_goals WHERE id = ?`, id)

	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, core.ErrNotFound
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

// UpdateGoal writes the goal's amounts and derived fields together, so
// no read can observe a stale required/progress pair.
func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE financial_goals
		 SET goal_amount = ?, allotted_amount = ?, required_amount = ?, progress_percent = ?
		 WHERE id = ?`,
		g.GoalAmount.String(), g.AllottedAmount.String(),
		g.RequiredAmount.String(), g.ProgressPercent.String(), g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM financial_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, goal_amount, allotted_amount, required_amount, progress_percent
		 FROM financial_goals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (r *SQLiteRepository) SumGoalAmounts(ctx context.Context) (decimal.NullDecimal, error) {
	var sum decimal.NullDecimal
	err := r.db.QueryRowContext(ctx, `SELECT SUM(goal_amount) FROM financial_goals`).Scan(&sum)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sum goal amounts: %w", err)
	}
	return sum, nil
}

func (r *SQLiteRepository) SumAllottedAmounts(ctx context.Context) (decimal.NullDecimal, error) {
	var sum decimal.NullDecimal
	err := r.db.QueryRowContext(ctx, `SELECT SUM(allotted_amount) FROM financial_goals`).Scan(&sum)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sum allotted amounts: %w", err)
	}
	return sum, nil
}

// PendingSyncRow identifies a transaction awaiting export.
type PendingSyncRow struct {
	Kind      core.Kind
	ID        int64
	CreatedAt time.Time
}

// GetPendingSync returns transactions of the given kind that still
// need to be exported.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, kind core.Kind, limit int) ([]PendingSyncRow, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at FROM `+table+` WHERE sync_status = ? ORDER BY id LIMIT ?`,
		SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync rows: %w", err)
	}
	defer rows.Close()

	var pending []PendingSyncRow
	for rows.Next() {
		p := PendingSyncRow{Kind: kind}
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync row: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkSynced marks a transaction as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, kind core.Kind, id int64) error {
	return r.setSyncStatus(ctx, kind, id, SyncDone)
}

// MarkSyncError marks a transaction as having export errors.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, kind core.Kind, id int64) error {
	return r.setSyncStatus(ctx, kind, id, SyncError)
}

func (r *SQLiteRepository) setSyncStatus(ctx context.Context, kind core.Kind, id int64, status string) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE `+table+` SET sync_status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	return requireRow(res)
}

// requireRow maps "zero rows affected" onto the not-found error, so
// update/delete on a missing id aborts without partial mutation.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		t       core.Transaction
		rawDate string
	)
	if err := row.Scan(&t.ID, &rawDate, &t.Description, &t.Category, &t.Amount); err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Date = date
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var items []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func scanGoal(row scanner) (core.Goal, error) {
	var (
		g       core.Goal
		rawDate string
	)
	err := row.Scan(&g.ID, &rawDate, &g.Description,
		&g.GoalAmount, &g.AllottedAmount, &g.RequiredAmount, &g.ProgressPercent)
	if err != nil {
		return core.Goal{}, err
	}
	date, err := parseDate(rawDate)
	if err != nil {
		return core.Goal{}, err
	}
	g.Date = date
	return g, nil
}

func parseDate(raw string) (core.Date, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse stored date %q: %w", raw, err)
	}
	return core.Date{Time: t}, nil
}
