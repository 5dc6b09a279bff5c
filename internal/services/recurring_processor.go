package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portfolio/internal/core"
)

// RecurringStore is the slice of the store the processor needs.
type RecurringStore interface {
	ActiveRecurringCosts(ctx context.Context, now time.Time) ([]core.RecurringCost, error)
	MarkRecurringExecuted(ctx context.Context, id int64, at time.Time) error
}

// ExpenseCreator is satisfied by *ExpenseService.
type ExpenseCreator interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
}

// RecurringProcessor materialises due recurring costs into expenses.
type RecurringProcessor struct {
	storage  RecurringStore
	expenses ExpenseCreator
}

func NewRecurringProcessor(storage RecurringStore, expenses ExpenseCreator) *RecurringProcessor {
	return &RecurringProcessor{
		storage:  storage,
		expenses: expenses,
	}
}

// ProcessDue creates one expense, dated now, for every active recurring cost
// whose strategy reports it due. Failures on one template are logged and do
// not stop the others.
func (p *RecurringProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	if p.storage == nil || p.expenses == nil {
		return 0, errors.New("processor not properly initialized")
	}

	active, err := p.storage.ActiveRecurringCosts(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to get active recurring costs: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring costs",
		"total_active", len(active),
		"processing_date", now.Format(time.DateOnly))

	processed := 0
	for _, rc := range active {
		checker, err := GetDuenessChecker(rc.Every)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping recurring cost", "id", rc.ID, "error", err)
			continue
		}
		if !checker.IsDue(rc.LastExecution, now, rc.StartDate) {
			continue
		}

		expense := core.Expense{
			ProjectID:   rc.ProjectID,
			Date:        core.NewDate(now.Year(), int(now.Month()), now.Day()),
			Description: rc.Description,
			Amount:      rc.Amount,
			Category:    rc.Category,
		}
		created, err := p.expenses.CreateExpense(ctx, expense)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to create expense from recurring cost",
				"recurring_id", rc.ID,
				"description", rc.Description,
				"error", err)
			continue
		}

		if err := p.storage.MarkRecurringExecuted(ctx, rc.ID, now); err != nil {
			// The expense exists; the next run may duplicate it.
			slog.ErrorContext(ctx, "Failed to update last execution",
				"recurring_id", rc.ID,
				"error", err)
		}

		processed++
		slog.InfoContext(ctx, "Created expense from recurring cost",
			"recurring_id", rc.ID,
			"expense_id", created.ID,
			"amount_cents", rc.Amount.Cents,
			"frequency", rc.Every)
	}

	slog.InfoContext(ctx, "Recurring cost processing complete",
		"processed", processed,
		"total_checked", len(active))
	return processed, nil
}
