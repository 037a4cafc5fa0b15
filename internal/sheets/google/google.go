// Package google exports ledger snapshots to a Google Sheets spreadsheet.
// Authentication is service-account only.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fluxo/internal/core"
	ports "fluxo/internal/sheets"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	ledgerSheet   string
	expensesSheet string
}

var _ ports.SnapshotWriter = (*Client)(nil)

// New creates a Sheets client for the given spreadsheet and sheet
// names; callers pass values already loaded and validated by the
// config layer. Service-account credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS (secret material never lands in the
// config struct).
func New(ctx context.Context, spreadsheetID, ledgerSheet, expensesSheet string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(ledgerSheet) == "" || strings.TrimSpace(expensesSheet) == "" {
		return nil, errors.New("missing sheet names")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   ledgerSheet,
		expensesSheet: expensesSheet,
	}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteLedger clears the ledger sheet and rewrites it with a header row
// plus one row per entry.
func (c *Client) WriteLedger(ctx context.Context, entries []core.LedgerEntry) error {
	values := make([][]interface{}, 0, len(entries)+1)
	values = append(values, []interface{}{"Dia", "Entrada", "Saída", "Diário", "Saldo", "Descrição"})
	for _, e := range entries {
		values = append(values, []interface{}{
			e.Date.Display(),
			e.Income.String(),
			e.Expense.String(),
			e.DailyAllowance.String(),
			e.Balance.String(),
			e.Description(),
		})
	}

	if err := c.replaceSheet(ctx, c.ledgerSheet, values); err != nil {
		return fmt.Errorf("write ledger sheet: %w", err)
	}

	slog.InfoContext(ctx, "Ledger snapshot written to Google Sheets",
		"sheet", c.ledgerSheet,
		"rows", len(entries))
	return nil
}

// WriteFixedExpenses clears the fixed-expense sheet and rewrites it.
func (c *Client) WriteFixedExpenses(ctx context.Context, records []core.FixedExpenseRecord) error {
	values := make([][]interface{}, 0, len(records)+1)
	values = append(values, []interface{}{"Dia", "Descrição", "Valor"})
	for _, rec := range records {
		values = append(values, []interface{}{rec.Day, rec.Description, rec.Amount.String()})
	}

	if err := c.replaceSheet(ctx, c.expensesSheet, values); err != nil {
		return fmt.Errorf("write fixed expenses sheet: %w", err)
	}

	slog.InfoContext(ctx, "Fixed expenses snapshot written to Google Sheets",
		"sheet", c.expensesSheet,
		"rows", len(records))
	return nil
}

func (c *Client) replaceSheet(ctx context.Context, sheet string, values [][]interface{}) error {
	_, err := c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, sheet, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clear range %q: %w", sheet, err)
	}

	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, sheet+"!A1", &gsheet.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update range %q: %w", sheet, err)
	}
	return nil
}
