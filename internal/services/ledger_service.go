// Package services orchestrates the projection engine, persistence and
// the sync pipeline behind one explicit service object. No ambient state:
// the service is built once at process start, loaded from storage, and
// passed to whatever surface needs it.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/amqp"
	"fluxo/internal/core"
	"fluxo/internal/expr"
	"fluxo/internal/ledger"
	"fluxo/internal/storage"
)

// LedgerService owns the in-memory ledger store and fixed-expense book.
// Every mutating call persists the new state before returning and then
// publishes a sync message best-effort; a broker failure never fails the
// request, the snapshot just lags until the next mutation.
type LedgerService struct {
	mu         sync.Mutex
	store      *ledger.Store
	book       *core.FixedExpenseBook
	repo       *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewLedgerService(repo *storage.SQLiteRepository, amqpClient *amqp.Client) *LedgerService {
	return &LedgerService{
		store:      ledger.NewStore(),
		book:       core.NewFixedExpenseBook(),
		repo:       repo,
		amqpClient: amqpClient,
	}
}

// Load seeds the store and book from persistence. Called once at boot.
func (s *LedgerService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.ListFixedExpenses(ctx)
	if err != nil {
		return fmt.Errorf("load fixed expenses: %w", err)
	}
	book := core.NewFixedExpenseBook()
	for _, rec := range records {
		if err := book.Add(rec.Day, rec.Description, rec.Amount); err != nil {
			return fmt.Errorf("load fixed expense (day %d, %q): %w", rec.Day, rec.Description, err)
		}
	}
	s.book = book

	entries, err := s.repo.ListLedger(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	s.store.LoadFrom(entries)

	slog.InfoContext(ctx, "Ledger state loaded",
		"fixed_expenses", book.Len(),
		"ledger_entries", len(entries))
	return nil
}

// RebuildProjection replaces the ledger with a fresh full-range build.
// Free-text amounts go through the expression parser first.
func (s *LedgerService) RebuildProjection(ctx context.Context, openingBalance, salaryAmount, dailyAllowance string, scheme core.SalaryScheme, salaryDay int, now time.Time) (int, error) {
	opening, err := parseAmount(openingBalance)
	if err != nil {
		return 0, err
	}
	salary, err := parseAmount(salaryAmount)
	if err != nil {
		return 0, err
	}
	allowance, err := parseAmount(dailyAllowance)
	if err != nil {
		return 0, err
	}
	if opening.Sign() < 0 || allowance.Sign() < 0 {
		return 0, fmt.Errorf("%w: negative balance or allowance", core.ErrInvalidAmount)
	}

	rule := core.SalaryRule{Scheme: scheme, DayOfMonth: salaryDay, Amount: salary}
	if err := rule.Validate(); err != nil {
		return 0, fmt.Errorf("salary rule: %w", err)
	}

	from, until := ledger.YearEndRange(now)
	params := ledger.ProjectionParameters{
		OpeningBalance: opening,
		Salary:         rule,
		DailyAllowance: allowance,
		From:           from,
		Until:          until,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := ledger.BuildProjection(params, s.book)
	s.store.LoadFrom(entries)

	if err := s.repo.ReplaceLedger(ctx, entries); err != nil {
		return 0, fmt.Errorf("persist projection: %w", err)
	}
	s.publishSync(ctx, amqp.ReasonProjectionRebuilt)

	slog.InfoContext(ctx, "Projection rebuilt",
		"from", from.Key(),
		"until", until.Key(),
		"entries", len(entries))
	return len(entries), nil
}

// ApplyTransaction merges one ad-hoc transaction into the ledger. The
// amount is free text and goes through the expression parser; negative
// results are rejected here, not in the parser.
func (s *LedgerService) ApplyTransaction(ctx context.Context, date core.Date, rawAmount string, kind core.TransactionKind, description string) (core.LedgerEntry, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	if amount.Sign() < 0 {
		return core.LedgerEntry{}, fmt.Errorf("%w: %s evaluates to %s", core.ErrInvalidAmount, rawAmount, amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ApplyTransaction(date, amount, kind, description); err != nil {
		return core.LedgerEntry{}, err
	}

	if err := s.repo.ReplaceLedger(ctx, s.store.Entries()); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("persist ledger: %w", err)
	}
	s.publishSync(ctx, amqp.ReasonTransactionApplied)

	entry, _ := s.store.Entry(date)
	slog.InfoContext(ctx, "Transaction applied",
		"date", date.Key(),
		"kind", string(kind),
		"amount", amount.String(),
		"balance", entry.Balance.String())
	return entry, nil
}

// AddFixedExpense records a recurring expense. It deliberately does not
// touch an existing ledger; the expense shows up after the next rebuild.
func (s *LedgerService) AddFixedExpense(ctx context.Context, day int, description, rawAmount string) (core.FixedExpenseRecord, error) {
	// Trim before both the book and the repository see it, so the
	// persisted record matches the in-memory one exactly.
	description = strings.TrimSpace(description)

	amount, err := parseAmount(rawAmount)
	if err != nil {
		return core.FixedExpenseRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.book.Add(day, description, amount); err != nil {
		return core.FixedExpenseRecord{}, err
	}
	rec := core.FixedExpenseRecord{Day: day, Description: description, Amount: amount}
	if _, err := s.repo.AddFixedExpense(ctx, rec); err != nil {
		return core.FixedExpenseRecord{}, fmt.Errorf("persist fixed expense: %w", err)
	}
	s.publishSync(ctx, amqp.ReasonFixedExpenseAdded)
	return rec, nil
}

// FixedExpenses returns the book's records ordered by day.
func (s *LedgerService) FixedExpenses() []core.FixedExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.All()
}

// Ledger returns the chronological ledger.
func (s *LedgerService) Ledger() []core.LedgerEntry {
	return s.store.Entries()
}

// Entry returns the ledger entry for one date.
func (s *LedgerService) Entry(date core.Date) (core.LedgerEntry, bool) {
	return s.store.Entry(date)
}

func (s *LedgerService) publishSync(ctx context.Context, reason string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishLedgerSync(ctx, reason); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"reason", reason, "error", err)
	}
}

// Close releases storage and broker connections.
func (s *LedgerService) Close() error {
	var errs []error
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	v, err := expr.Parse(raw)
	if err != nil {
		return decimal.Zero, err
	}
	return v, nil
}
