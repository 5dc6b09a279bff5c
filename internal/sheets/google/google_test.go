package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("expected missing credentials error, got %v", err)
	}
}

func TestCredentialsJSON(t *testing.T) {
	ctx := context.Background()
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	got, err := credentialsJSON(ctx, Config{ServiceAccountJSON: ` {"type":"service_account"} `})
	if err != nil || string(got) != `{"type":"service_account"}` {
		t.Fatalf("inline json: %q %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = credentialsJSON(ctx, Config{ServiceAccountFile: path})
	if err != nil || string(got) != `{"from":"file"}` {
		t.Fatalf("file: %q %v", got, err)
	}

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)
	if _, err := credentialsJSON(ctx, Config{}); err != nil {
		t.Fatalf("GOOGLE_APPLICATION_CREDENTIALS fallback: %v", err)
	}

	if _, err := credentialsJSON(ctx, Config{ServiceAccountFile: filepath.Join(t.TempDir(), "missing.json")}); err == nil {
		t.Fatal("expected error for unreadable file")
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		baseName string
		year     int
		expected string
	}{
		{"Expenses", 2025, "2025 Expenses"},
		{"", 2023, ""},
		{"Portfolio Costs", 2022, "2022 Portfolio Costs"},
		{"2025 Already Prefixed", 2024, "2025 Already Prefixed"},
	}

	for _, tt := range tests {
		got := yearPrefixedName(tt.baseName, tt.year)
		if got != tt.expected {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q",
				tt.baseName, tt.year, got, tt.expected)
		}
	}
}

func TestAppend(t *testing.T) {
	var (
		gotPath  string
		gotQuery string
		gotBody  gsheet.ValueRange
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"updates":{"updatedRange":"'2024 Expenses'!A7:F7"}}`))
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	c := NewWithService(svc, "sheet-id", "")

	ref, err := c.Append(context.Background(), core.Expense{
		ID:          9,
		ProjectID:   2,
		Date:        core.NewDate(2024, 3, 5),
		Description: "Domain renewal",
		Amount:      core.Money{Cents: 1299},
		Category:    "domains",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "'2024 Expenses'!A7:F7" {
		t.Errorf("ref = %q", ref)
	}
	if !strings.Contains(gotPath, "sheet-id") || !strings.Contains(gotPath, "2024 Expenses") || !strings.HasSuffix(gotPath, ":append") {
		t.Errorf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "valueInputOption=USER_ENTERED") {
		t.Errorf("unexpected query %q", gotQuery)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 6 {
		t.Fatalf("unexpected body %+v", gotBody.Values)
	}
	row := gotBody.Values[0]
	if row[0] != "2024-03-05" || row[1] != "Domain renewal" || row[2] != "12.99" || row[3] != "domains" {
		t.Errorf("unexpected row %v", row)
	}
}

func TestAppend_RejectsInvalidExpense(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetBase: "Expenses"}
	_, err := c.Append(context.Background(), core.Expense{Description: "x"})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAppend_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetBase: "Expenses"}
	_, err := c.Append(context.Background(), core.Expense{
		Date: core.NewDate(2024, 1, 1), Description: "x", Amount: core.Money{Cents: 1}, Category: "c",
	})
	if err == nil || err.Error() != "sheets service not initialized" {
		t.Fatalf("expected uninitialised service error, got %v", err)
	}
}
