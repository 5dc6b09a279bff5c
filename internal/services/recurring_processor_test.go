package services

import (
	"context"
	"testing"
	"time"

	"portfolio/internal/core"
	"portfolio/internal/storage/memory"
)

func TestRecurringProcessor_ProcessDue(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	proc := NewRecurringProcessor(store, NewExpenseService(store, nil))

	monthly, err := store.CreateRecurringCost(ctx, core.RecurringCost{
		StartDate:   core.NewDate(2024, 1, 31),
		Every:       core.Monthly,
		Description: "VPS",
		Amount:      core.Money{Cents: 599},
		Category:    "hosting",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, _ = store.CreateRecurringCost(ctx, core.RecurringCost{
		StartDate:   core.NewDate(2024, 9, 1),
		Every:       core.Daily,
		Description: "not started",
		Amount:      core.Money{Cents: 1},
		Category:    "misc",
	})

	feb29 := time.Date(2024, 2, 29, 6, 0, 0, 0, time.UTC)
	n, err := proc.ProcessDue(ctx, feb29)
	if err != nil || n != 1 {
		t.Fatalf("first run: n=%d err=%v", n, err)
	}

	expenses, _ := store.ListExpenses(ctx, 0)
	if len(expenses) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(expenses))
	}
	got := expenses[0]
	if got.Description != "VPS" || got.Amount.Cents != 599 || !got.Date.Equal(core.NewDate(2024, 2, 29).Time) {
		t.Errorf("unexpected expense %+v", got)
	}

	// Same month again: nothing due.
	n, err = proc.ProcessDue(ctx, feb29.Add(time.Hour))
	if err != nil || n != 0 {
		t.Fatalf("second run: n=%d err=%v", n, err)
	}

	costs, _ := store.ListRecurringCosts(ctx)
	if costs[0].ID != monthly.ID || !costs[0].LastExecution.Equal(feb29) {
		t.Errorf("last execution not recorded: %+v", costs[0])
	}

	// End of March reaches the clamped anchor day.
	n, _ = proc.ProcessDue(ctx, time.Date(2024, 3, 31, 6, 0, 0, 0, time.UTC))
	if n != 1 {
		t.Errorf("expected march run to create 1 expense, got %d", n)
	}
}

func TestRecurringProcessor_NotInitialized(t *testing.T) {
	if _, err := NewRecurringProcessor(nil, nil).ProcessDue(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error for uninitialised processor")
	}
}
