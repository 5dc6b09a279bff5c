package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"portfolio/internal/core"
	"portfolio/internal/ports"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "portfolio.db"))
	if err != nil {
		t.Fatalf("open repo: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	repo.Close()
	if err := RunMigrations(path); err != nil {
		t.Fatalf("re-running migrations: %v", err)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	p, err := repo.CreateProject(ctx, core.Project{Name: "Recipes", URL: "https://recipes.example.com", Category: "food", Status: core.ProjectActive})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 || p.CreatedAt.IsZero() {
		t.Fatalf("missing id or created_at: %+v", p)
	}

	got, err := repo.GetProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != p {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}

	p.Status = core.ProjectPaused
	if err := repo.UpdateProject(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := repo.ListProjects(ctx)
	if err != nil || len(list) != 1 || list[0].Status != core.ProjectPaused {
		t.Fatalf("list after update: %+v err=%v", list, err)
	}

	if err := repo.UpdateProject(ctx, core.Project{ID: 999, Status: core.ProjectActive}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProjectDetachesExpenses(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	p, _ := repo.CreateProject(ctx, core.Project{Name: "a", URL: "https://a.example", Status: core.ProjectActive})
	e, err := repo.CreateExpense(ctx, core.Expense{ProjectID: p.ID, Date: core.NewDate(2024, 3, 1), Description: "domain", Amount: core.Money{Cents: 1299}, Category: "domains"})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	if err := repo.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := repo.GetExpense(ctx, e.ID)
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if got.ProjectID != 0 {
		t.Fatalf("expense still points at deleted project: %+v", got)
	}
}

func TestExpenseReferenceCheck(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.CreateExpense(context.Background(), core.Expense{ProjectID: 7, Date: core.NewDate(2024, 1, 1), Description: "x", Amount: core.Money{Cents: 1}, Category: "c"})
	if !errors.Is(err, ports.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestExpensesBetween(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	for _, d := range []core.Date{core.NewDate(2023, 12, 31), core.NewDate(2024, 1, 1), core.NewDate(2024, 1, 31), core.NewDate(2024, 2, 1)} {
		if _, err := repo.CreateExpense(ctx, core.Expense{Date: d, Description: "x", Amount: core.Money{Cents: 100}, Category: "c"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ExpensesBetween(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("between: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 expenses in January, got %d", len(got))
	}
	if !got[0].Date.Equal(core.NewDate(2024, 1, 31).Time) {
		t.Fatalf("expected newest first, got %s", got[0].Date.Format(time.DateOnly))
	}
}

func TestBacklinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	b, err := repo.CreateBacklink(ctx, core.Backlink{
		SourceURL:  "https://blog.example.org/post",
		TargetURL:  "https://recipes.example.com/",
		AnchorText: "best recipes",
		Category:   "guest post",
		Cost:       core.Money{Cents: 5000},
		Status:     core.BacklinkLive,
		AcquiredAt: core.NewDate(2024, 4, 10),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := repo.GetBacklink(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != b {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, b)
	}

	if err := repo.DeleteBacklink(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetBacklink(ctx, b.ID); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecurringCosts(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	open, err := repo.CreateRecurringCost(ctx, core.RecurringCost{StartDate: core.NewDate(2024, 1, 1), Every: core.Monthly, Description: "VPS", Amount: core.Money{Cents: 599}, Category: "hosting"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = repo.CreateRecurringCost(ctx, core.RecurringCost{StartDate: core.NewDate(2023, 1, 1), EndDate: core.NewDate(2023, 12, 31), Every: core.Yearly, Description: "old", Amount: core.Money{Cents: 100}, Category: "domains"})
	if err != nil {
		t.Fatalf("create ended: %v", err)
	}

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	active, err := repo.ActiveRecurringCosts(ctx, now)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if len(active) != 1 || active[0].ID != open.ID || !active[0].EndDate.IsZero() {
		t.Fatalf("unexpected active set %+v", active)
	}

	if err := repo.MarkRecurringExecuted(ctx, open.ID, now); err != nil {
		t.Fatalf("mark: %v", err)
	}
	all, _ := repo.ListRecurringCosts(ctx)
	if !all[0].LastExecution.Equal(now) {
		t.Fatalf("last execution = %v, want %v", all[0].LastExecution, now)
	}
}

func TestExportQueue(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	first, _ := repo.CreateExpense(ctx, core.Expense{Date: core.NewDate(2024, 1, 1), Description: "a", Amount: core.Money{Cents: 1}, Category: "c"})
	second, _ := repo.CreateExpense(ctx, core.Expense{Date: core.NewDate(2024, 1, 2), Description: "b", Amount: core.Money{Cents: 2}, Category: "c"})

	pending, err := repo.PendingExports(ctx, 10)
	if err != nil || len(pending) != 2 || pending[0].ID != first.ID {
		t.Fatalf("pending = %+v err=%v", pending, err)
	}

	if err := repo.MarkExported(ctx, first.ID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	pending, _ = repo.PendingExports(ctx, 0)
	if len(pending) != 1 || pending[0].ID != second.ID {
		t.Fatalf("pending after mark = %+v", pending)
	}

	first.Description = "edited"
	if err := repo.UpdateExpense(ctx, first); err != nil {
		t.Fatalf("update: %v", err)
	}
	pending, _ = repo.PendingExports(ctx, 0)
	if len(pending) != 2 {
		t.Fatalf("edited expense should be queued again, pending = %+v", pending)
	}
}
