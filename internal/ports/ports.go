// Package ports declares the storage interfaces the services and HTTP
// handlers depend on. The SQLite repository and the in-memory store both
// implement Store.
package ports

import (
	"context"
	"errors"
	"time"

	"portfolio/internal/core"
)

// ErrNotFound is returned when an entity with the requested ID does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidReference is returned when an entity points at a project that does not exist.
var ErrInvalidReference = errors.New("referenced project does not exist")

type (
	ProjectStore interface {
		CreateProject(ctx context.Context, p core.Project) (core.Project, error)
		GetProject(ctx context.Context, id int64) (core.Project, error)
		ListProjects(ctx context.Context) ([]core.Project, error)
		UpdateProject(ctx context.Context, p core.Project) error
		DeleteProject(ctx context.Context, id int64) error
	}

	BacklinkStore interface {
		CreateBacklink(ctx context.Context, b core.Backlink) (core.Backlink, error)
		GetBacklink(ctx context.Context, id int64) (core.Backlink, error)
		// ListBacklinks returns every backlink, or only those of projectID when it is non-zero.
		ListBacklinks(ctx context.Context, projectID int64) ([]core.Backlink, error)
		UpdateBacklink(ctx context.Context, b core.Backlink) error
		DeleteBacklink(ctx context.Context, id int64) error
		// BacklinksBetween returns backlinks acquired in [start, end).
		BacklinksBetween(ctx context.Context, start, end time.Time) ([]core.Backlink, error)
	}

	ExpenseStore interface {
		CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
		GetExpense(ctx context.Context, id int64) (core.Expense, error)
		// ListExpenses returns every expense, or only those of projectID when it is non-zero.
		ListExpenses(ctx context.Context, projectID int64) ([]core.Expense, error)
		UpdateExpense(ctx context.Context, e core.Expense) error
		DeleteExpense(ctx context.Context, id int64) error
		// ExpensesBetween returns expenses dated in [start, end).
		ExpensesBetween(ctx context.Context, start, end time.Time) ([]core.Expense, error)
	}

	GithubAccountStore interface {
		CreateGithubAccount(ctx context.Context, g core.GithubAccount) (core.GithubAccount, error)
		GetGithubAccount(ctx context.Context, id int64) (core.GithubAccount, error)
		ListGithubAccounts(ctx context.Context) ([]core.GithubAccount, error)
		UpdateGithubAccount(ctx context.Context, g core.GithubAccount) error
		DeleteGithubAccount(ctx context.Context, id int64) error
	}

	LinkStore interface {
		CreateLink(ctx context.Context, l core.LinkResource) (core.LinkResource, error)
		GetLink(ctx context.Context, id int64) (core.LinkResource, error)
		ListLinks(ctx context.Context) ([]core.LinkResource, error)
		UpdateLink(ctx context.Context, l core.LinkResource) error
		DeleteLink(ctx context.Context, id int64) error
	}

	RecurringCostStore interface {
		CreateRecurringCost(ctx context.Context, rc core.RecurringCost) (core.RecurringCost, error)
		ListRecurringCosts(ctx context.Context) ([]core.RecurringCost, error)
		DeleteRecurringCost(ctx context.Context, id int64) error
		// ActiveRecurringCosts returns templates that started on or before now
		// and have not ended before now.
		ActiveRecurringCosts(ctx context.Context, now time.Time) ([]core.RecurringCost, error)
		MarkRecurringExecuted(ctx context.Context, id int64, at time.Time) error
	}

	// ExportQueue tracks which expenses still need to reach the spreadsheet.
	ExportQueue interface {
		PendingExports(ctx context.Context, limit int) ([]core.Expense, error)
		MarkExported(ctx context.Context, id int64) error
	}

	Store interface {
		ProjectStore
		BacklinkStore
		ExpenseStore
		GithubAccountStore
		LinkStore
		RecurringCostStore
		ExportQueue
		Ping(ctx context.Context) error
		Close() error
	}
)
