package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// SchemeFixedDay credits the salary on a fixed calendar day of each month.
	SchemeFixedDay SalaryScheme = "fixed_day"
	// SchemeFifthBusinessDay credits the salary on the 5th weekday of each month.
	SchemeFifthBusinessDay SalaryScheme = "fifth_business_day"
	// SchemeLastBusinessDay credits the salary on the last weekday of each month.
	SchemeLastBusinessDay SalaryScheme = "last_business_day"
)

const (
	KindIncome         TransactionKind = "income"
	KindExpense        TransactionKind = "expense"
	KindDailyAllowance TransactionKind = "daily_allowance"
)

// Ledger description literals, kept in the language of the spreadsheet
// this service replaces.
const (
	SalaryLabel    = "Salário"
	AllowanceLabel = "Gasto diário"
)

type (
	SalaryScheme    string
	TransactionKind string

	// Date is a calendar day. The embedded time is always midnight UTC so
	// two Dates built for the same day compare equal.
	Date struct {
		time.Time
	}

	// LedgerEntry holds one day's movements and the running balance after
	// them. The daily allowance is tracked separately from Expense, and the
	// allowance description is a flag rather than free text so that ad-hoc
	// descriptions can be merged without string surgery.
	LedgerEntry struct {
		Date            Date
		Income          decimal.Decimal
		Expense         decimal.Decimal
		DailyAllowance  decimal.Decimal
		Balance         decimal.Decimal
		Actions         []string
		AllowanceMarker bool
	}

	// SalaryRule selects which day of each month triggers the salary credit.
	// DayOfMonth is only meaningful for SchemeFixedDay.
	SalaryRule struct {
		Scheme     SalaryScheme
		DayOfMonth int
		Amount     decimal.Decimal
	}
)

var (
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrNotFound         = errors.New("not found")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a date in ISO form (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Key returns the ISO form used as the ledger map and storage key.
// Lexicographic order on keys equals chronological order.
func (d Date) Key() string {
	return d.Format("2006-01-02")
}

// Display returns the DD/MM/YYYY form used on the export surface.
func (d Date) Display() string {
	return d.Format("02/01/2006")
}

// Next returns the following calendar day.
func (d Date) Next() Date {
	return Date{Time: d.AddDate(0, 0, 1)}
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int in 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// ParseTransactionKind maps free-form input onto the closed kind set.
func ParseTransactionKind(s string) (TransactionKind, error) {
	k := TransactionKind(strings.ToLower(strings.TrimSpace(s)))
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k TransactionKind) Validate() error {
	switch k {
	case KindIncome, KindExpense, KindDailyAllowance:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (r SalaryRule) Validate() error {
	switch r.Scheme {
	case SchemeFixedDay:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return ErrInvalidDay
		}
	case SchemeFifthBusinessDay, SchemeLastBusinessDay:
		// DayOfMonth is ignored for business-day schemes.
	default:
		return errors.New("invalid salary scheme")
	}
	if r.Amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Net returns the day's movement: income minus expense minus allowance.
func (e LedgerEntry) Net() decimal.Decimal {
	return e.Income.Sub(e.Expense).Sub(e.DailyAllowance)
}

// Description joins the day's actions for display, with the allowance
// marker rendered last when set.
func (e LedgerEntry) Description() string {
	parts := e.Actions
	if e.AllowanceMarker {
		parts = append(append([]string(nil), e.Actions...), AllowanceLabel)
	}
	return strings.Join(parts, " + ")
}
