package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 5 {
		t.Fatalf("unexpected date: %v", d)
	}
	if d.Key() != "2024-01-05" {
		t.Errorf("Key() = %q, want 2024-01-05", d.Key())
	}
	if d.Display() != "05/01/2024" {
		t.Errorf("Display() = %q, want 05/01/2024", d.Display())
	}

	if _, err := ParseDate("05/01/2024"); err == nil {
		t.Fatal("expected error for non-ISO input")
	}
}

func TestDateNext(t *testing.T) {
	d := NewDate(2024, 2, 29).Next()
	if d != NewDate(2024, 3, 1) {
		t.Fatalf("Next() = %v, want 2024-03-01", d)
	}
}

func TestParseTransactionKind(t *testing.T) {
	tests := []struct {
		in      string
		want    TransactionKind
		wantErr bool
	}{
		{"income", KindIncome, false},
		{" Expense ", KindExpense, false},
		{"daily_allowance", KindDailyAllowance, false},
		{"transfer", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTransactionKind(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidKind) {
				t.Errorf("ParseTransactionKind(%q) err = %v, want ErrInvalidKind", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseTransactionKind(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestSalaryRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    SalaryRule
		wantErr bool
	}{
		{"fixed day ok", SalaryRule{Scheme: SchemeFixedDay, DayOfMonth: 5, Amount: decimal.NewFromInt(1500)}, false},
		{"fixed day out of range", SalaryRule{Scheme: SchemeFixedDay, DayOfMonth: 32, Amount: decimal.NewFromInt(1500)}, true},
		{"fixed day zero", SalaryRule{Scheme: SchemeFixedDay, DayOfMonth: 0, Amount: decimal.NewFromInt(1500)}, true},
		{"fifth business day ignores day", SalaryRule{Scheme: SchemeFifthBusinessDay, Amount: decimal.NewFromInt(1500)}, false},
		{"last business day", SalaryRule{Scheme: SchemeLastBusinessDay, Amount: decimal.NewFromInt(1500)}, false},
		{"negative amount", SalaryRule{Scheme: SchemeLastBusinessDay, Amount: decimal.NewFromInt(-1)}, true},
		{"unknown scheme", SalaryRule{Scheme: "biweekly", Amount: decimal.NewFromInt(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLedgerEntryDescription(t *testing.T) {
	e := LedgerEntry{Actions: []string{SalaryLabel, "Aluguel"}, AllowanceMarker: true}
	if got := e.Description(); got != "Salário + Aluguel + Gasto diário" {
		t.Fatalf("Description() = %q", got)
	}

	e.AllowanceMarker = false
	if got := e.Description(); got != "Salário + Aluguel" {
		t.Fatalf("Description() without marker = %q", got)
	}

	empty := LedgerEntry{AllowanceMarker: true}
	if got := empty.Description(); got != AllowanceLabel {
		t.Fatalf("Description() marker only = %q", got)
	}
}

func TestLedgerEntryNet(t *testing.T) {
	e := LedgerEntry{
		Income:         decimal.NewFromInt(1500),
		Expense:        decimal.NewFromInt(200),
		DailyAllowance: decimal.NewFromInt(30),
	}
	if !e.Net().Equal(decimal.NewFromInt(1270)) {
		t.Fatalf("Net() = %s, want 1270", e.Net())
	}
}
