package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fluxo/internal/core"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func janParams(rule core.SalaryRule) ProjectionParameters {
	return ProjectionParameters{
		OpeningBalance: decimal.NewFromInt(1000),
		Salary:         rule,
		DailyAllowance: decimal.NewFromInt(30),
		From:           core.NewDate(2024, 1, 1),
		Until:          core.NewDate(2024, 12, 31),
	}
}

func TestYearEndRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 17, 30, 0, 0, time.Local)
	from, until := YearEndRange(now)
	if from != core.NewDate(2024, 6, 15) {
		t.Errorf("from = %v, want 2024-06-15", from)
	}
	if until != core.NewDate(2024, 12, 31) {
		t.Errorf("until = %v, want 2024-12-31", until)
	}
}

func TestBuildProjectionDateCoverage(t *testing.T) {
	rule := core.SalaryRule{Scheme: core.SchemeFixedDay, DayOfMonth: 5, Amount: decimal.NewFromInt(1500)}
	entries := BuildProjection(janParams(rule), core.NewFixedExpenseBook())

	if len(entries) != 366 {
		t.Fatalf("2024 full-year projection has %d entries, want 366", len(entries))
	}
	for i, e := range entries {
		want := core.NewDate(2024, 1, 1).Time.AddDate(0, 0, i)
		if !e.Date.Equal(want) {
			t.Fatalf("entries[%d].Date = %v, want %v", i, e.Date, want)
		}
	}
}

func TestBuildProjectionBalanceRecurrence(t *testing.T) {
	book := core.NewFixedExpenseBook()
	if err := book.Add(10, "Aluguel", dec("200")); err != nil {
		t.Fatal(err)
	}
	rule := core.SalaryRule{Scheme: core.SchemeFixedDay, DayOfMonth: 5, Amount: decimal.NewFromInt(1500)}
	params := janParams(rule)
	entries := BuildProjection(params, book)

	prev := params.OpeningBalance
	for i, e := range entries {
		want := prev.Add(e.Net())
		if !e.Balance.Equal(want) {
			t.Fatalf("entries[%d] balance = %s, want %s", i, e.Balance, want)
		}
		prev = e.Balance
	}
}

func TestBuildProjectionEndToEnd(t *testing.T) {
	// Opening 1000, salary 1500 on day 5, fixed expense 200 on day 10,
	// allowance 30, starting 2024-01-01.
	book := core.NewFixedExpenseBook()
	if err := book.Add(10, "Aluguel", dec("200")); err != nil {
		t.Fatal(err)
	}
	rule := core.SalaryRule{Scheme: core.SchemeFixedDay, DayOfMonth: 5, Amount: decimal.NewFromInt(1500)}
	entries := BuildProjection(janParams(rule), book)

	byDate := make(map[string]core.LedgerEntry, len(entries))
	for _, e := range entries {
		byDate[e.Date.Key()] = e
	}

	first := byDate["2024-01-01"]
	if !first.Balance.Equal(dec("970")) {
		t.Errorf("jan 1 balance = %s, want 970", first.Balance)
	}
	if first.Description() != core.AllowanceLabel {
		t.Errorf("jan 1 description = %q, want only the allowance marker", first.Description())
	}

	payday := byDate["2024-01-05"]
	if !payday.Income.Equal(dec("1500")) {
		t.Errorf("jan 5 income = %s, want 1500", payday.Income)
	}
	if payday.Description() != "Salário + Gasto diário" {
		t.Errorf("jan 5 description = %q", payday.Description())
	}

	rent := byDate["2024-01-10"]
	if !rent.Expense.Equal(dec("200")) {
		t.Errorf("jan 10 expense = %s, want 200", rent.Expense)
	}
	if rent.Description() != "Aluguel + Gasto diário" {
		t.Errorf("jan 10 description = %q", rent.Description())
	}
}

func TestBuildProjectionSalaryTriggerExclusivity(t *testing.T) {
	schemes := []core.SalaryScheme{core.SchemeFifthBusinessDay, core.SchemeLastBusinessDay}
	for _, scheme := range schemes {
		t.Run(string(scheme), func(t *testing.T) {
			rule := core.SalaryRule{Scheme: scheme, Amount: decimal.NewFromInt(2000)}
			entries := BuildProjection(janParams(rule), core.NewFixedExpenseBook())

			perMonth := make(map[int]int)
			for _, e := range entries {
				if e.Income.Sign() > 0 {
					perMonth[e.Date.Month()]++
				}
			}
			for month := 1; month <= 12; month++ {
				if perMonth[month] != 1 {
					t.Errorf("month %d has %d salary credits, want exactly 1", month, perMonth[month])
				}
			}
		})
	}
}

func TestBuildProjectionFifthBusinessDayDates(t *testing.T) {
	rule := core.SalaryRule{Scheme: core.SchemeFifthBusinessDay, Amount: decimal.NewFromInt(2000)}
	params := janParams(rule)
	params.From = core.NewDate(2024, 2, 1)
	params.Until = core.NewDate(2024, 2, 29)
	entries := BuildProjection(params, core.NewFixedExpenseBook())

	// February 2024's 5th business day is Wednesday the 7th.
	for _, e := range entries {
		wantIncome := e.Date.Day() == 7
		if (e.Income.Sign() > 0) != wantIncome {
			t.Errorf("%s income = %s", e.Date.Key(), e.Income)
		}
	}
}

func TestBuildProjectionCombinedFixedExpenseDescriptions(t *testing.T) {
	book := core.NewFixedExpenseBook()
	if err := book.Add(10, "Aluguel", dec("850")); err != nil {
		t.Fatal(err)
	}
	if err := book.Add(10, "Internet", dec("99.90")); err != nil {
		t.Fatal(err)
	}
	rule := core.SalaryRule{Scheme: core.SchemeFixedDay, DayOfMonth: 10, Amount: decimal.NewFromInt(1500)}
	entries := BuildProjection(janParams(rule), book)

	for _, e := range entries {
		if e.Date.Day() != 10 {
			continue
		}
		if !e.Expense.Equal(dec("949.90")) {
			t.Errorf("%s expense = %s, want 949.90", e.Date.Key(), e.Expense)
		}
		want := "Salário + Aluguel + Internet + Gasto diário"
		if e.Description() != want {
			t.Errorf("%s description = %q, want %q", e.Date.Key(), e.Description(), want)
		}
	}
}
