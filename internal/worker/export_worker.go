// Package worker turns ledger-sync messages into snapshot exports.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fluxo/internal/amqp"
	"fluxo/internal/sheets"
	"fluxo/internal/storage"
)

// ExportWorker reads the current state from SQLite on every sync message
// and pushes it to each configured snapshot target. Messages carry no row
// data, so replays and stale deliveries are harmless.
type ExportWorker struct {
	storage *storage.SQLiteRepository
	targets []sheets.SnapshotWriter
}

func NewExportWorker(storage *storage.SQLiteRepository, targets ...sheets.SnapshotWriter) *ExportWorker {
	return &ExportWorker{storage: storage, targets: targets}
}

// HandleSyncMessage exports a full snapshot. An error on any target
// fails the message so the broker redelivers it.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"reason", msg.Reason)

	return w.Export(ctx)
}

// Export pushes the persisted state to every target. Also called once at
// startup so targets catch up on messages missed while the worker was down.
func (w *ExportWorker) Export(ctx context.Context) error {
	entries, err := w.storage.ListLedger(ctx)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	records, err := w.storage.ListFixedExpenses(ctx)
	if err != nil {
		return fmt.Errorf("read fixed expenses: %w", err)
	}

	for _, target := range w.targets {
		if err := target.WriteLedger(ctx, entries); err != nil {
			return fmt.Errorf("export ledger: %w", err)
		}
		if err := target.WriteFixedExpenses(ctx, records); err != nil {
			return fmt.Errorf("export fixed expenses: %w", err)
		}
	}

	slog.InfoContext(ctx, "Snapshot exported",
		"ledger_entries", len(entries),
		"fixed_expenses", len(records),
		"targets", len(w.targets))
	return nil
}
