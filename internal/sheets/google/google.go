package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"portfolio/internal/core"
	ports "portfolio/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var _ ports.ExpenseExporter = (*Client)(nil)

// Config selects the spreadsheet and the service account used to write to it.
type Config struct {
	SpreadsheetID string
	// SheetName is the base tab name; rows go to "<year> <SheetName>" unless
	// the name already starts with a year.
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
}

// New creates a Sheets client authenticated with service account credentials.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if len(opts) == 0 {
		creds, err := credentialsJSON(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string) *Client {
	base := strings.TrimSpace(sheetName)
	if base == "" {
		base = "Expenses"
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetBase: base}
}

// credentialsJSON resolves inline JSON first, then the credentials file,
// then GOOGLE_APPLICATION_CREDENTIALS.
func credentialsJSON(ctx context.Context, cfg Config) ([]byte, error) {
	if js := strings.TrimSpace(cfg.ServiceAccountJSON); js != "" {
		slog.InfoContext(ctx, "Using inline service account credentials", "json_length", len(js))
		return []byte(js), nil
	}
	path := strings.TrimSpace(cfg.ServiceAccountFile)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	slog.InfoContext(ctx, "Read service account credentials", "path", path, "size", len(b))
	return b, nil
}

// Append writes the expense after the last row of its year's tab.
func (c *Client) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheet := yearPrefixedName(c.sheetBase, e.Date.Year())
	rng := fmt.Sprintf("%s!A:F", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{ports.Row(e)}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	slog.DebugContext(ctx, "Appended expense row", "expense_id", e.ID, "range", ref)
	return ref, nil
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
