// Package ledger implements the projection engine: building the day-by-day
// ledger from the recurring rules, and the store that merges ad-hoc
// transactions and repairs downstream balances.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/calendar"
	"fluxo/internal/core"
)

// ProjectionParameters are the inputs of a full projection build. They are
// assumed pre-validated; BuildProjection itself never fails.
type ProjectionParameters struct {
	OpeningBalance decimal.Decimal
	Salary         core.SalaryRule
	DailyAllowance decimal.Decimal
	From           core.Date
	Until          core.Date
}

// YearEndRange returns the default projection range: the given day through
// December 31 of the same year.
func YearEndRange(now time.Time) (from, until core.Date) {
	from = core.DateOf(now)
	until = core.NewDate(from.Year(), 12, 31)
	return from, until
}

// BuildProjection produces one entry per calendar day in [From, Until],
// in chronological order. Per day: the salary credit when the rule
// triggers, the fixed-expense total for that day of the month, and the
// flat daily allowance. The running balance is seeded by OpeningBalance.
//
// The build reads the book once; fixed expenses added afterwards only
// show up in the next build.
func BuildProjection(params ProjectionParameters, book *core.FixedExpenseBook) []core.LedgerEntry {
	totals := book.TotalsByDay()

	var entries []core.LedgerEntry
	running := params.OpeningBalance
	for d := params.From; !d.After(params.Until.Time); d = d.Next() {
		entry := core.LedgerEntry{
			Date:            d,
			DailyAllowance:  params.DailyAllowance,
			AllowanceMarker: true,
		}

		if salaryTriggersOn(params.Salary, d) {
			entry.Income = params.Salary.Amount
			entry.Actions = append(entry.Actions, core.SalaryLabel)
		}

		if total, ok := totals[d.Day()]; ok {
			entry.Expense = total
			for _, rec := range book.RecordsForDay(d.Day()) {
				entry.Actions = append(entry.Actions, rec.Description)
			}
		}

		running = running.Add(entry.Net())
		entry.Balance = running
		entries = append(entries, entry)
	}
	return entries
}

// salaryTriggersOn reports whether the rule credits the salary on d.
// A month has exactly one 5th and one last business day, so at most one
// day per month triggers under the business-day schemes.
func salaryTriggersOn(rule core.SalaryRule, d core.Date) bool {
	switch rule.Scheme {
	case core.SchemeFixedDay:
		return d.Day() == rule.DayOfMonth
	case core.SchemeFifthBusinessDay:
		t, ok, err := calendar.NthBusinessDay(d.Year(), d.Month(), 5)
		return err == nil && ok && t.Equal(d.Time)
	case core.SchemeLastBusinessDay:
		t, ok, err := calendar.LastBusinessDay(d.Year(), d.Month())
		return err == nil && ok && t.Equal(d.Time)
	default:
		return false
	}
}
