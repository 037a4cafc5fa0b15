// Package csvfile exports ledger and fixed-expense snapshots as flat CSV
// files, column for column the spreadsheet layout this service replaces.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"fluxo/internal/core"
	"fluxo/internal/sheets"
)

const (
	LedgerFile        = "transacoes.csv"
	FixedExpensesFile = "gastos_fixos.csv"
)

var (
	ledgerHeader        = []string{"Dia", "Entrada", "Saída", "Diário", "Saldo", "Descrição"}
	fixedExpensesHeader = []string{"Dia", "Descrição", "Valor"}
)

type Writer struct {
	dir string
}

var _ sheets.SnapshotWriter = (*Writer)(nil)

// NewWriter creates a snapshot writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// WriteLedger replaces transacoes.csv with the given entries. Dates use
// the DD/MM/YYYY display form.
func (w *Writer) WriteLedger(_ context.Context, entries []core.LedgerEntry) error {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, ledgerHeader)
	for _, e := range entries {
		rows = append(rows, []string{
			e.Date.Display(),
			e.Income.String(),
			e.Expense.String(),
			e.DailyAllowance.String(),
			e.Balance.String(),
			e.Description(),
		})
	}
	return w.writeFile(LedgerFile, rows)
}

// WriteFixedExpenses replaces gastos_fixos.csv with the given records.
func (w *Writer) WriteFixedExpenses(_ context.Context, records []core.FixedExpenseRecord) error {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, fixedExpensesHeader)
	for _, rec := range records {
		rows = append(rows, []string{
			fmt.Sprintf("%d", rec.Day),
			rec.Description,
			rec.Amount.String(),
		})
	}
	return w.writeFile(FixedExpensesFile, rows)
}

// writeFile writes rows to a temp file and renames it into place so a
// concurrent reader never sees a half-written snapshot.
func (w *Writer) writeFile(name string, rows [][]string) error {
	tmp, err := os.CreateTemp(w.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	if err := cw.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(w.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
