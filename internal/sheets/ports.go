// Package sheets declares the outbound spreadsheet port used by the export
// worker. The Google implementation lives in sheets/google.
package sheets

import (
	"context"

	"portfolio/internal/core"
)

type (
	// ExpenseExporter appends one expense as a spreadsheet row and returns a
	// reference to the written range.
	ExpenseExporter interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}
)

// Row renders an expense in the column order of the export sheet:
// date, description, amount, category, project id, expense id.
func Row(e core.Expense) []any {
	var project any = ""
	if e.ProjectID != 0 {
		project = e.ProjectID
	}
	return []any{
		e.Date.Format("2006-01-02"),
		e.Description,
		e.Amount.Decimal().StringFixed(2),
		e.Category,
		project,
		e.ID,
	}
}
