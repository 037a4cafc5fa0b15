// Package core holds the domain model of the cash-flow projector:
// calendar dates, ledger entries, salary rules and the fixed-expense book.
package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// FixedExpenseRecord is one recurring expense attached to a day of the month.
type FixedExpenseRecord struct {
	Day         int
	Description string
	Amount      decimal.Decimal
}

func (r FixedExpenseRecord) Validate() error {
	if r.Day < 1 || r.Day > 31 {
		return ErrInvalidDay
	}
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if r.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// FixedExpenseBook holds the recurring expenses keyed by day of the month.
// Records for the same day keep their insertion order; that order drives
// both display and the combined descriptions in a built projection.
//
// The book never touches an existing ledger: adding an expense only shows
// up after the next projection rebuild. That asymmetry is a contract, not
// an oversight.
type FixedExpenseBook struct {
	byDay map[int][]FixedExpenseRecord
}

func NewFixedExpenseBook() *FixedExpenseBook {
	return &FixedExpenseBook{byDay: make(map[int][]FixedExpenseRecord)}
}

// Add appends a record under its day of the month.
func (b *FixedExpenseBook) Add(day int, description string, amount decimal.Decimal) error {
	rec := FixedExpenseRecord{Day: day, Description: strings.TrimSpace(description), Amount: amount}
	if err := rec.Validate(); err != nil {
		return err
	}
	b.byDay[day] = append(b.byDay[day], rec)
	return nil
}

// TotalsByDay aggregates the record amounts per day. Days without records
// are absent from the result.
func (b *FixedExpenseBook) TotalsByDay() map[int]decimal.Decimal {
	totals := make(map[int]decimal.Decimal, len(b.byDay))
	for day, recs := range b.byDay {
		sum := decimal.Zero
		for _, rec := range recs {
			sum = sum.Add(rec.Amount)
		}
		totals[day] = sum
	}
	return totals
}

// RecordsForDay returns the records for one day in insertion order.
func (b *FixedExpenseBook) RecordsForDay(day int) []FixedExpenseRecord {
	return append([]FixedExpenseRecord(nil), b.byDay[day]...)
}

// All returns every record ordered by day, insertion order within a day.
func (b *FixedExpenseBook) All() []FixedExpenseRecord {
	days := make([]int, 0, len(b.byDay))
	for day := range b.byDay {
		days = append(days, day)
	}
	sort.Ints(days)

	var out []FixedExpenseRecord
	for _, day := range days {
		out = append(out, b.byDay[day]...)
	}
	return out
}

// Len returns the total number of records in the book.
func (b *FixedExpenseBook) Len() int {
	n := 0
	for _, recs := range b.byDay {
		n += len(recs)
	}
	return n
}
