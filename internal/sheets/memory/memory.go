// Package memory is an in-process spreadsheet used when no Google sheet is
// configured. Rows are kept in append order and never persisted.
package memory

import (
	"context"
	"fmt"
	"sync"

	"portfolio/internal/core"
	"portfolio/internal/sheets"
)

type Sheet struct {
	mu   sync.Mutex
	name string
	rows [][]any
}

func New(name string) *Sheet {
	if name == "" {
		name = "Expenses"
	}
	return &Sheet{name: name}
}

// Append stores the expense row and returns a synthetic A1 reference.
func (s *Sheet) Append(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, sheets.Row(e))
	n := len(s.rows)
	return fmt.Sprintf("%s!A%d:F%d", s.name, n, n), nil
}

// Rows returns a copy of every appended row.
func (s *Sheet) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	copy(out, s.rows)
	return out
}
