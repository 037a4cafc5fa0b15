package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"fluxo/internal/core"
	"fluxo/internal/expr"
	"fluxo/internal/services"
)

type handlers struct {
	svc *services.LedgerService
}

type ledgerEntryView struct {
	Date           string `json:"date"`
	Income         string `json:"income"`
	Expense        string `json:"expense"`
	DailyAllowance string `json:"daily_allowance"`
	Balance        string `json:"balance"`
	Description    string `json:"description"`
}

type fixedExpenseView struct {
	Day         int    `json:"day"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func entryView(e core.LedgerEntry) ledgerEntryView {
	return ledgerEntryView{
		Date:           e.Date.Key(),
		Income:         e.Income.String(),
		Expense:        e.Expense.String(),
		DailyAllowance: e.DailyAllowance.String(),
		Balance:        e.Balance.String(),
		Description:    e.Description(),
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) listLedger(w http.ResponseWriter, r *http.Request) {
	entries := h.svc.Ledger()
	views := make([]ledgerEntryView, len(entries))
	for i, e := range entries {
		views[i] = entryView(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": views})
}

func (h *handlers) rebuildProjection(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)

	opening, err := p.GetString("opening_balance")
	if err != nil {
		writeError(w, err)
		return
	}
	salaryAmount, err := p.GetString("salary_amount")
	if err != nil {
		writeError(w, err)
		return
	}
	allowance, err := p.GetString("daily_allowance")
	if err != nil {
		writeError(w, err)
		return
	}
	scheme, err := p.GetString("salary_scheme")
	if err != nil {
		writeError(w, err)
		return
	}
	salaryDay, err := p.GetInt("salary_day", 0)
	if err != nil {
		writeError(w, err)
		return
	}

	n, err := h.svc.RebuildProjection(r.Context(), opening, salaryAmount, allowance, core.SalaryScheme(scheme), salaryDay, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entries": n})
}

func (h *handlers) applyTransaction(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)

	rawDate, err := p.GetString("date")
	if err != nil {
		writeError(w, err)
		return
	}
	date, err := core.ParseDate(rawDate)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid date, expected YYYY-MM-DD"))
		return
	}
	rawKind, err := p.GetString("kind")
	if err != nil {
		writeError(w, err)
		return
	}
	kind, err := core.ParseTransactionKind(rawKind)
	if err != nil {
		writeError(w, err)
		return
	}
	amount, err := p.GetString("amount")
	if err != nil {
		writeError(w, err)
		return
	}
	description, err := p.GetString("description")
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.svc.ApplyTransaction(r.Context(), date, amount, kind, description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entryView(entry)})
}

func (h *handlers) listFixedExpenses(w http.ResponseWriter, r *http.Request) {
	records := h.svc.FixedExpenses()
	views := make([]fixedExpenseView, len(records))
	for i, rec := range records {
		views[i] = fixedExpenseView{Day: rec.Day, Description: rec.Description, Amount: rec.Amount.String()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"fixed_expenses": views})
}

func (h *handlers) addFixedExpense(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)

	day, err := p.GetInt("day", 0)
	if err != nil {
		writeError(w, err)
		return
	}
	description, err := p.GetString("description")
	if err != nil {
		writeError(w, err)
		return
	}
	amount, err := p.GetString("amount")
	if err != nil {
		writeError(w, err)
		return
	}

	rec, err := h.svc.AddFixedExpense(r.Context(), day, description, amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"fixed_expense": fixedExpenseView{Day: rec.Day, Description: rec.Description, Amount: rec.Amount.String()},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps domain errors onto status codes. Validation and parse
// failures are the caller's fault; everything else is ours.
func writeError(w http.ResponseWriter, err error) {
	var perr *expr.ParseError
	switch {
	case errors.As(err, &perr),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDay),
		errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrEmptyDescription):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, core.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
