package worker

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fluxo/internal/amqp"
	"fluxo/internal/core"
	"fluxo/internal/sheets/csvfile"
	"fluxo/internal/storage"
)

func TestHandleSyncMessageExportsSnapshot(t *testing.T) {
	dir := t.TempDir()
	repo, err := storage.NewSQLiteRepository(filepath.Join(dir, "fluxo.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	defer repo.Close()
	ctx := context.Background()

	if _, err := repo.AddFixedExpense(ctx, core.FixedExpenseRecord{
		Day: 10, Description: "Aluguel", Amount: decimal.NewFromInt(200),
	}); err != nil {
		t.Fatal(err)
	}
	if err := repo.ReplaceLedger(ctx, []core.LedgerEntry{{
		Date:            core.NewDate(2024, 1, 1),
		DailyAllowance:  decimal.NewFromInt(30),
		Balance:         decimal.NewFromInt(970),
		AllowanceMarker: true,
	}}); err != nil {
		t.Fatal(err)
	}

	exportDir := filepath.Join(dir, "export")
	writer, err := csvfile.NewWriter(exportDir)
	if err != nil {
		t.Fatal(err)
	}

	w := NewExportWorker(repo, writer)
	if err := w.HandleSyncMessage(ctx, amqp.NewLedgerSyncMessage(amqp.ReasonTransactionApplied)); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	for _, name := range []string{csvfile.LedgerFile, csvfile.FixedExpensesFile} {
		f, err := os.Open(filepath.Join(exportDir, name))
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		rows, err := csv.NewReader(f).ReadAll()
		f.Close()
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(rows) != 2 {
			t.Errorf("%s has %d rows, want header + 1", name, len(rows))
		}
	}
}
