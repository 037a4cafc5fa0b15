package sheets

import (
	"context"

	"fluxo/internal/core"
)

// Ports for outbound snapshot adapters.
type (
	// LedgerWriter replaces a ledger snapshot on the target surface.
	LedgerWriter interface {
		WriteLedger(ctx context.Context, entries []core.LedgerEntry) error
	}

	// FixedExpenseWriter replaces a fixed-expense snapshot on the target surface.
	FixedExpenseWriter interface {
		WriteFixedExpenses(ctx context.Context, records []core.FixedExpenseRecord) error
	}

	// SnapshotWriter exports both tables.
	SnapshotWriter interface {
		LedgerWriter
		FixedExpenseWriter
	}
)
