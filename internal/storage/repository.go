// Package storage persists the fixed-expense book and the ledger in
// SQLite. Amounts are stored as decimal strings so nothing is lost to
// binary floating point on the round trip.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"fluxo/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
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

// AddFixedExpense appends one record and returns its row ID.
func (r *SQLiteRepository) AddFixedExpense(ctx context.Context, rec core.FixedExpenseRecord) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO fixed_expenses (day, description, amount) VALUES (?, ?, ?)`,
		rec.Day, rec.Description, rec.Amount.String())
	if err != nil {
		return 0, fmt.Errorf("insert fixed expense: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("fixed expense id: %w", err)
	}

	slog.InfoContext(ctx, "Fixed expense saved",
		"id", id,
		"day", rec.Day,
		"description", rec.Description,
		"amount", rec.Amount.String())
	return id, nil
}

// ListFixedExpenses returns every record ordered by day, then insertion.
func (r *SQLiteRepository) ListFixedExpenses(ctx context.Context) ([]core.FixedExpenseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day, description, amount FROM fixed_expenses ORDER BY day, id`)
	if err != nil {
		return nil, fmt.Errorf("list fixed expenses: %w", err)
	}
	defer rows.Close()

	var out []core.FixedExpenseRecord
	for rows.Next() {
		var rec core.FixedExpenseRecord
		var amount string
		if err := rows.Scan(&rec.Day, &rec.Description, &amount); err != nil {
			return nil, fmt.Errorf("scan fixed expense: %w", err)
		}
		if rec.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("fixed expense amount %q: %w", amount, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fixed expenses: %w", err)
	}
	return out, nil
}

// ReplaceLedger swaps the persisted ledger for the given entries in one
// transaction. The ledger is at most a year of rows, so a full rewrite
// after each mutation stays cheap and keeps the table consistent with
// the in-memory store.
func (r *SQLiteRepository) ReplaceLedger(ctx context.Context, entries []core.LedgerEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_entries`); err != nil {
		return fmt.Errorf("clear ledger: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_entries (date, income, expense, daily_allowance, balance, actions, allowance_marker)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare ledger insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		actions, err := json.Marshal(e.Actions)
		if err != nil {
			return fmt.Errorf("encode actions for %s: %w", e.Date.Key(), err)
		}
		_, err = stmt.ExecContext(ctx,
			e.Date.Key(),
			e.Income.String(),
			e.Expense.String(),
			e.DailyAllowance.String(),
			e.Balance.String(),
			string(actions),
			boolToInt(e.AllowanceMarker))
		if err != nil {
			return fmt.Errorf("insert ledger entry %s: %w", e.Date.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger tx: %w", err)
	}

	slog.InfoContext(ctx, "Ledger persisted", "entries", len(entries))
	return nil
}

// ListLedger returns the persisted ledger in chronological order.
func (r *SQLiteRepository) ListLedger(ctx context.Context) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, income, expense, daily_allowance, balance, actions, allowance_marker
		FROM ledger_entries ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	var out []core.LedgerEntry
	for rows.Next() {
		var (
			dateKey, income, expense, allowance, balance, actions string
			marker                                                int
		)
		if err := rows.Scan(&dateKey, &income, &expense, &allowance, &balance, &actions, &marker); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}

		var e core.LedgerEntry
		if e.Date, err = core.ParseDate(dateKey); err != nil {
			return nil, fmt.Errorf("ledger date %q: %w", dateKey, err)
		}
		if e.Income, err = decimal.NewFromString(income); err != nil {
			return nil, fmt.Errorf("ledger income %q: %w", income, err)
		}
		if e.Expense, err = decimal.NewFromString(expense); err != nil {
			return nil, fmt.Errorf("ledger expense %q: %w", expense, err)
		}
		if e.DailyAllowance, err = decimal.NewFromString(allowance); err != nil {
			return nil, fmt.Errorf("ledger allowance %q: %w", allowance, err)
		}
		if e.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("ledger balance %q: %w", balance, err)
		}
		if err := json.Unmarshal([]byte(actions), &e.Actions); err != nil {
			return nil, fmt.Errorf("ledger actions %q: %w", actions, err)
		}
		e.AllowanceMarker = marker != 0
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
