package http

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequestBodyParserForm(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader("amount=10%2B15&description=+Bonus+&day=12"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	p := NewRequestBodyParser(r)

	amount, err := p.GetString("amount")
	if err != nil || amount != "10+15" {
		t.Fatalf("amount = %q, %v", amount, err)
	}
	description, err := p.GetString("description")
	if err != nil || description != "Bonus" {
		t.Fatalf("description = %q, %v (want trimmed)", description, err)
	}
	day, err := p.GetInt("day", 0)
	if err != nil || day != 12 {
		t.Fatalf("day = %d, %v", day, err)
	}
	if missing, err := p.GetInt("absent", 7); err != nil || missing != 7 {
		t.Fatalf("fallback = %d, %v", missing, err)
	}
}

func TestRequestBodyParserJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"amount":"30","day":15,"description":"Café"}`))
	r.Header.Set("Content-Type", "application/json")
	p := NewRequestBodyParser(r)

	amount, err := p.GetString("amount")
	if err != nil || amount != "30" {
		t.Fatalf("amount = %q, %v", amount, err)
	}
	day, err := p.GetInt("day", 0)
	if err != nil || day != 15 {
		t.Fatalf("day = %d, %v", day, err)
	}
	description, err := p.GetString("description")
	if err != nil || description != "Café" {
		t.Fatalf("description = %q, %v", description, err)
	}
}

func TestRequestBodyParserBadInput(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"broken`))
	r.Header.Set("Content-Type", "application/json")
	p := NewRequestBodyParser(r)
	if _, err := p.GetString("amount"); err == nil {
		t.Fatal("expected error for truncated JSON")
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader("day=abc"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	p = NewRequestBodyParser(r)
	if _, err := p.GetInt("day", 0); err == nil {
		t.Fatal("expected error for non-numeric int field")
	}
}
