package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

// Store owns the ledger entries, keyed by date. It is seeded wholesale
// from a projection build and thereafter mutated one ad-hoc transaction
// at a time, repairing every downstream balance on each mutation.
//
// The mutex only guards against concurrent HTTP handlers; every operation
// runs to completion within one request.
type Store struct {
	mu      sync.Mutex
	entries map[string]*core.LedgerEntry
}

func NewStore() *Store {
	return &Store{entries: make(map[string]*core.LedgerEntry)}
}

// LoadFrom replaces the store's contents with the given entries.
func (s *Store) LoadFrom(entries []core.LedgerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*core.LedgerEntry, len(entries))
	for _, e := range entries {
		e := e
		s.entries[e.Date.Key()] = &e
	}
}

// ApplyTransaction merges one ad-hoc transaction into the ledger.
//
// The amount overwrites the field selected by kind: last write wins per
// kind per date, it does not accumulate. A non-empty description is
// appended to the day's actions; an empty description clears the
// allowance marker and leaves the actions alone. Afterwards every balance
// from the edit date forward is recomputed in chronological order. The
// entry preceding the earliest date has no predecessor, so the earliest
// balance is computed from the entry's own movements alone.
func (s *Store) ApplyTransaction(date core.Date, amount decimal.Decimal, kind core.TransactionKind, description string) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("%w: %s", core.ErrInvalidAmount, amount)
	}
	if err := date.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := date.Key()
	entry, ok := s.entries[key]
	if !ok {
		entry = &core.LedgerEntry{Date: date}
		s.entries[key] = entry
	}

	switch kind {
	case core.KindIncome:
		entry.Income = amount
	case core.KindExpense:
		entry.Expense = amount
	case core.KindDailyAllowance:
		entry.DailyAllowance = amount
	}

	if desc := strings.TrimSpace(description); desc != "" {
		entry.Actions = append(entry.Actions, desc)
	} else {
		entry.AllowanceMarker = false
	}

	return s.repropagateFrom(key)
}

// repropagateFrom recomputes every balance at or after key. Callers hold
// the mutex and have already inserted the entry for key.
func (s *Store) repropagateFrom(key string) error {
	keys := s.sortedKeys()
	idx := sort.SearchStrings(keys, key)
	if idx >= len(keys) || keys[idx] != key {
		return fmt.Errorf("%w: ledger entry for %s", core.ErrNotFound, key)
	}

	prev := decimal.Zero
	if idx > 0 {
		prev = s.entries[keys[idx-1]].Balance
	}
	for _, k := range keys[idx:] {
		e := s.entries[k]
		prev = prev.Add(e.Net())
		e.Balance = prev
	}
	return nil
}

// Entry returns a copy of the entry for the given date.
func (s *Store) Entry(date core.Date) (core.LedgerEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[date.Key()]
	if !ok {
		return core.LedgerEntry{}, false
	}
	return copyEntry(e), true
}

// Entries returns a chronologically ordered copy of the ledger.
func (s *Store) Entries() []core.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.LedgerEntry, 0, len(s.entries))
	for _, k := range s.sortedKeys() {
		out = append(out, copyEntry(s.entries[k]))
	}
	return out
}

// Len returns the number of entries in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) sortedKeys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyEntry(e *core.LedgerEntry) core.LedgerEntry {
	out := *e
	out.Actions = append([]string(nil), e.Actions...)
	return out
}
