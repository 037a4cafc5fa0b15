package csvfile

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestWriteLedger(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	entries := []core.LedgerEntry{
		{
			Date:            core.NewDate(2024, 1, 5),
			Income:          decimal.RequireFromString("1500"),
			DailyAllowance:  decimal.RequireFromString("30"),
			Balance:         decimal.RequireFromString("2440"),
			Actions:         []string{core.SalaryLabel},
			AllowanceMarker: true,
		},
	}
	if err := w.WriteLedger(context.Background(), entries); err != nil {
		t.Fatalf("WriteLedger: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, LedgerFile))
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	wantHeader := []string{"Dia", "Entrada", "Saída", "Diário", "Saldo", "Descrição"}
	for i, col := range wantHeader {
		if rows[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], col)
		}
	}
	want := []string{"05/01/2024", "1500", "0", "30", "2440", "Salário + Gasto diário"}
	for i, col := range want {
		if rows[1][i] != col {
			t.Errorf("row[%d] = %q, want %q", i, rows[1][i], col)
		}
	}
}

func TestWriteFixedExpenses(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	records := []core.FixedExpenseRecord{
		{Day: 10, Description: "Aluguel", Amount: decimal.RequireFromString("850.5")},
		{Day: 25, Description: "Academia", Amount: decimal.RequireFromString("120")},
	}
	if err := w.WriteFixedExpenses(context.Background(), records); err != nil {
		t.Fatalf("WriteFixedExpenses: %v", err)
	}

	rows := readCSV(t, filepath.Join(dir, FixedExpensesFile))
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[1][0] != "10" || rows[1][1] != "Aluguel" || rows[1][2] != "850.5" {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestWriteReplacesPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	ctx := context.Background()

	two := []core.FixedExpenseRecord{
		{Day: 1, Description: "A", Amount: decimal.NewFromInt(1)},
		{Day: 2, Description: "B", Amount: decimal.NewFromInt(2)},
	}
	if err := w.WriteFixedExpenses(ctx, two); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteFixedExpenses(ctx, two[:1]); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, filepath.Join(dir, FixedExpensesFile))
	if len(rows) != 2 {
		t.Fatalf("snapshot not replaced, got %d rows", len(rows))
	}
}
