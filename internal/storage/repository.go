package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"portfolio/internal/core"
	"portfolio/internal/ports"

	_ "modernc.org/sqlite"
)

var _ ports.Store = (*SQLiteRepository)(nil)

// SQLiteRepository persists the portfolio in a single SQLite file. Dates and
// timestamps are stored as unix seconds, amounts as integer cents.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) checkProject(ctx context.Context, q querier, id int64) error {
	if id == 0 {
		return nil
	}
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ErrInvalidReference
	}
	if err != nil {
		return fmt.Errorf("check project %d: %w", id, err)
	}
	return nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Projects

const projectColumns = `id, name, url, category, status, notes, created_at`

func scanProject(s scanner) (core.Project, error) {
	var (
		p       core.Project
		status  string
		created int64
	)
	if err := s.Scan(&p.ID, &p.Name, &p.URL, &p.Category, &status, &p.Notes, &created); err != nil {
		return core.Project{}, err
	}
	p.Status = core.ProjectStatus(status)
	p.CreatedAt = time.Unix(created, 0).UTC()
	return p, nil
}

func (r *SQLiteRepository) CreateProject(ctx context.Context, p core.Project) (core.Project, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.now().UTC().Truncate(time.Second)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO projects (name, url, category, status, notes, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Name, p.URL, p.Category, string(p.Status), p.Notes, p.CreatedAt.Unix())
	if err != nil {
		return core.Project{}, fmt.Errorf("insert project: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return core.Project{}, fmt.Errorf("project id: %w", err)
	}
	slog.InfoContext(ctx, "Project saved to SQLite", "id", p.ID, "name", p.Name)
	return p, nil
}

func (r *SQLiteRepository) GetProject(ctx context.Context, id int64) (core.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Project{}, ports.ErrNotFound
	}
	if err != nil {
		return core.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListProjects(ctx context.Context) ([]core.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := []core.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateProject(ctx context.Context, p core.Project) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE projects SET name = ?, url = ?, category = ?, status = ?, notes = ? WHERE id = ?`,
		p.Name, p.URL, p.Category, string(p.Status), p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("update project %d: %w", p.ID, err)
	}
	return expectOne(res)
}

// DeleteProject removes the project and detaches everything that referenced it.
func (r *SQLiteRepository) DeleteProject(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"backlinks", "expenses", "github_accounts", "recurring_costs"} {
		if _, err := tx.ExecContext(ctx, `UPDATE `+table+` SET project_id = NULL WHERE project_id = ?`, id); err != nil {
			return fmt.Errorf("detach %s from project %d: %w", table, id, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	if err := expectOne(res); err != nil {
		return err
	}
	return tx.Commit()
}

// Backlinks

const backlinkColumns = `id, project_id, source_url, target_url, anchor_text, category, cost_cents, status, acquired_at`

func scanBacklink(s scanner) (core.Backlink, error) {
	var (
		b        core.Backlink
		project  sql.NullInt64
		status   string
		acquired int64
	)
	if err := s.Scan(&b.ID, &project, &b.SourceURL, &b.TargetURL, &b.AnchorText, &b.Category, &b.Cost.Cents, &status, &acquired); err != nil {
		return core.Backlink{}, err
	}
	b.ProjectID = project.Int64
	b.Status = core.BacklinkStatus(status)
	b.AcquiredAt = fromUnixDate(acquired)
	return b, nil
}

func (r *SQLiteRepository) CreateBacklink(ctx context.Context, b core.Backlink) (core.Backlink, error) {
	if err := r.checkProject(ctx, r.db, b.ProjectID); err != nil {
		return core.Backlink{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO backlinks (project_id, source_url, target_url, anchor_text, category, cost_cents, status, acquired_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullID(b.ProjectID), b.SourceURL, b.TargetURL, b.AnchorText, b.Category, b.Cost.Cents, string(b.Status), b.AcquiredAt.Unix())
	if err != nil {
		return core.Backlink{}, fmt.Errorf("insert backlink: %w", err)
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return core.Backlink{}, fmt.Errorf("backlink id: %w", err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBacklink(ctx context.Context, id int64) (core.Backlink, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+backlinkColumns+` FROM backlinks WHERE id = ?`, id)
	b, err := scanBacklink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Backlink{}, ports.ErrNotFound
	}
	if err != nil {
		return core.Backlink{}, fmt.Errorf("get backlink %d: %w", id, err)
	}
	return b, nil
}

func (r *SQLiteRepository) ListBacklinks(ctx context.Context, projectID int64) ([]core.Backlink, error) {
	return r.queryBacklinks(ctx,
		`SELECT `+backlinkColumns+` FROM backlinks WHERE (? = 0 OR project_id = ?) ORDER BY acquired_at DESC, id DESC`,
		projectID, projectID)
}

func (r *SQLiteRepository) BacklinksBetween(ctx context.Context, start, end time.Time) ([]core.Backlink, error) {
	return r.queryBacklinks(ctx,
		`SELECT `+backlinkColumns+` FROM backlinks WHERE acquired_at >= ? AND acquired_at < ? ORDER BY acquired_at DESC, id DESC`,
		start.Unix(), end.Unix())
}

func (r *SQLiteRepository) queryBacklinks(ctx context.Context, query string, args ...any) ([]core.Backlink, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query backlinks: %w", err)
	}
	defer rows.Close()

	out := []core.Backlink{}
	for rows.Next() {
		b, err := scanBacklink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan backlink: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateBacklink(ctx context.Context, b core.Backlink) error {
	if err := r.checkProject(ctx, r.db, b.ProjectID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE backlinks SET project_id = ?, source_url = ?, target_url = ?, anchor_text = ?, category = ?,
		 cost_cents = ?, status = ?, acquired_at = ? WHERE id = ?`,
		nullID(b.ProjectID), b.SourceURL, b.TargetURL, b.AnchorText, b.Category, b.Cost.Cents, string(b.Status), b.AcquiredAt.Unix(), b.ID)
	if err != nil {
		return fmt.Errorf("update backlink %d: %w", b.ID, err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) DeleteBacklink(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "backlinks", id)
}

// Expenses

const expenseColumns = `id, project_id, date, description, amount_cents, category`

func scanExpense(s scanner) (core.Expense, error) {
	var (
		e       core.Expense
		project sql.NullInt64
		date    int64
	)
	if err := s.Scan(&e.ID, &project, &date, &e.Description, &e.Amount.Cents, &e.Category); err != nil {
		return core.Expense{}, err
	}
	e.ProjectID = project.Int64
	e.Date = fromUnixDate(date)
	return e, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := r.checkProject(ctx, r.db, e.ProjectID); err != nil {
		return core.Expense{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (project_id, date, description, amount_cents, category) VALUES (?, ?, ?, ?, ?)`,
		nullID(e.ProjectID), e.Date.Unix(), e.Description, e.Amount.Cents, e.Category)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return core.Expense{}, fmt.Errorf("expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"date", e.Date.Format(time.DateOnly))
	return e, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ports.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense by id: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, projectID int64) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE (? = 0 OR project_id = ?) ORDER BY date DESC, id DESC`,
		projectID, projectID)
}

func (r *SQLiteRepository) ExpensesBetween(ctx context.Context, start, end time.Time) ([]core.Expense, error) {
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE date >= ? AND date < ? ORDER BY date DESC, id DESC`,
		start.Unix(), end.Unix())
}

func (r *SQLiteRepository) queryExpenses(ctx context.Context, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	out := []core.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := r.checkProject(ctx, r.db, e.ProjectID); err != nil {
		return err
	}
	// An edited expense is exported again.
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET project_id = ?, date = ?, description = ?, amount_cents = ?, category = ?, exported_at = NULL WHERE id = ?`,
		nullID(e.ProjectID), e.Date.Unix(), e.Description, e.Amount.Cents, e.Category, e.ID)
	if err != nil {
		return fmt.Errorf("update expense %d: %w", e.ID, err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "expenses", id)
}

// PendingExports returns the oldest expenses not yet written to the spreadsheet.
func (r *SQLiteRepository) PendingExports(ctx context.Context, limit int) ([]core.Expense, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}
	return r.queryExpenses(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE exported_at IS NULL ORDER BY id LIMIT ?`, limit)
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE expenses SET exported_at = ? WHERE id = ?`, r.now().Unix(), id)
	if err != nil {
		return fmt.Errorf("mark expense exported: %w", err)
	}
	if err := expectOne(res); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Expense marked as exported", "id", id)
	return nil
}

// GitHub accounts

const githubColumns = `id, username, email, project_id, notes, created_at`

func scanGithubAccount(s scanner) (core.GithubAccount, error) {
	var (
		g       core.GithubAccount
		project sql.NullInt64
		created int64
	)
	if err := s.Scan(&g.ID, &g.Username, &g.Email, &project, &g.Notes, &created); err != nil {
		return core.GithubAccount{}, err
	}
	g.ProjectID = project.Int64
	g.CreatedAt = time.Unix(created, 0).UTC()
	return g, nil
}

func (r *SQLiteRepository) CreateGithubAccount(ctx context.Context, g core.GithubAccount) (core.GithubAccount, error) {
	if err := r.checkProject(ctx, r.db, g.ProjectID); err != nil {
		return core.GithubAccount{}, err
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = r.now().UTC().Truncate(time.Second)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO github_accounts (username, email, project_id, notes, created_at) VALUES (?, ?, ?, ?, ?)`,
		g.Username, g.Email, nullID(g.ProjectID), g.Notes, g.CreatedAt.Unix())
	if err != nil {
		return core.GithubAccount{}, fmt.Errorf("insert github account: %w", err)
	}
	if g.ID, err = res.LastInsertId(); err != nil {
		return core.GithubAccount{}, fmt.Errorf("github account id: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) GetGithubAccount(ctx context.Context, id int64) (core.GithubAccount, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+githubColumns+` FROM github_accounts WHERE id = ?`, id)
	g, err := scanGithubAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.GithubAccount{}, ports.ErrNotFound
	}
	if err != nil {
		return core.GithubAccount{}, fmt.Errorf("get github account %d: %w", id, err)
	}
	return g, nil
}

func (r *SQLiteRepository) ListGithubAccounts(ctx context.Context) ([]core.GithubAccount, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+githubColumns+` FROM github_accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list github accounts: %w", err)
	}
	defer rows.Close()

	out := []core.GithubAccount{}
	for rows.Next() {
		g, err := scanGithubAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan github account: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateGithubAccount(ctx context.Context, g core.GithubAccount) error {
	if err := r.checkProject(ctx, r.db, g.ProjectID); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE github_accounts SET username = ?, email = ?, project_id = ?, notes = ? WHERE id = ?`,
		g.Username, g.Email, nullID(g.ProjectID), g.Notes, g.ID)
	if err != nil {
		return fmt.Errorf("update github account %d: %w", g.ID, err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) DeleteGithubAccount(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "github_accounts", id)
}

// Link resources

const linkColumns = `id, title, url, category, notes, created_at`

func scanLink(s scanner) (core.LinkResource, error) {
	var (
		l       core.LinkResource
		created int64
	)
	if err := s.Scan(&l.ID, &l.Title, &l.URL, &l.Category, &l.Notes, &created); err != nil {
		return core.LinkResource{}, err
	}
	l.CreatedAt = time.Unix(created, 0).UTC()
	return l, nil
}

func (r *SQLiteRepository) CreateLink(ctx context.Context, l core.LinkResource) (core.LinkResource, error) {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.now().UTC().Truncate(time.Second)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO link_resources (title, url, category, notes, created_at) VALUES (?, ?, ?, ?, ?)`,
		l.Title, l.URL, l.Category, l.Notes, l.CreatedAt.Unix())
	if err != nil {
		return core.LinkResource{}, fmt.Errorf("insert link: %w", err)
	}
	if l.ID, err = res.LastInsertId(); err != nil {
		return core.LinkResource{}, fmt.Errorf("link id: %w", err)
	}
	return l, nil
}

func (r *SQLiteRepository) GetLink(ctx context.Context, id int64) (core.LinkResource, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM link_resources WHERE id = ?`, id)
	l, err := scanLink(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.LinkResource{}, ports.ErrNotFound
	}
	if err != nil {
		return core.LinkResource{}, fmt.Errorf("get link %d: %w", id, err)
	}
	return l, nil
}

func (r *SQLiteRepository) ListLinks(ctx context.Context) ([]core.LinkResource, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+linkColumns+` FROM link_resources ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	out := []core.LinkResource{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateLink(ctx context.Context, l core.LinkResource) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE link_resources SET title = ?, url = ?, category = ?, notes = ? WHERE id = ?`,
		l.Title, l.URL, l.Category, l.Notes, l.ID)
	if err != nil {
		return fmt.Errorf("update link %d: %w", l.ID, err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) DeleteLink(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "link_resources", id)
}

// Recurring costs

const recurringColumns = `id, project_id, start_date, end_date, repetition, description, amount_cents, category, last_execution`

func scanRecurringCost(s scanner) (core.RecurringCost, error) {
	var (
		rc      core.RecurringCost
		project sql.NullInt64
		start   int64
		end     sql.NullInt64
		every   string
		last    sql.NullInt64
	)
	if err := s.Scan(&rc.ID, &project, &start, &end, &every, &rc.Description, &rc.Amount.Cents, &rc.Category, &last); err != nil {
		return core.RecurringCost{}, err
	}
	rc.ProjectID = project.Int64
	rc.StartDate = fromUnixDate(start)
	if end.Valid {
		rc.EndDate = fromUnixDate(end.Int64)
	}
	rc.Every = core.RepetitionTypes(every)
	if last.Valid {
		rc.LastExecution = time.Unix(last.Int64, 0).UTC()
	}
	return rc, nil
}

func (r *SQLiteRepository) CreateRecurringCost(ctx context.Context, rc core.RecurringCost) (core.RecurringCost, error) {
	if err := r.checkProject(ctx, r.db, rc.ProjectID); err != nil {
		return core.RecurringCost{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO recurring_costs (project_id, start_date, end_date, repetition, description, amount_cents, category)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullID(rc.ProjectID), rc.StartDate.Unix(), nullDate(rc.EndDate), string(rc.Every), rc.Description, rc.Amount.Cents, rc.Category)
	if err != nil {
		return core.RecurringCost{}, fmt.Errorf("insert recurring cost: %w", err)
	}
	if rc.ID, err = res.LastInsertId(); err != nil {
		return core.RecurringCost{}, fmt.Errorf("recurring cost id: %w", err)
	}
	return rc, nil
}

func (r *SQLiteRepository) ListRecurringCosts(ctx context.Context) ([]core.RecurringCost, error) {
	return r.queryRecurringCosts(ctx, `SELECT `+recurringColumns+` FROM recurring_costs ORDER BY id`)
}

func (r *SQLiteRepository) ActiveRecurringCosts(ctx context.Context, now time.Time) ([]core.RecurringCost, error) {
	return r.queryRecurringCosts(ctx,
		`SELECT `+recurringColumns+` FROM recurring_costs
		 WHERE start_date <= ? AND (end_date IS NULL OR end_date >= ?) ORDER BY id`,
		now.Unix(), now.Unix())
}

func (r *SQLiteRepository) queryRecurringCosts(ctx context.Context, query string, args ...any) ([]core.RecurringCost, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recurring costs: %w", err)
	}
	defer rows.Close()

	out := []core.RecurringCost{}
	for rows.Next() {
		rc, err := scanRecurringCost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring cost: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteRecurringCost(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "recurring_costs", id)
}

func (r *SQLiteRepository) MarkRecurringExecuted(ctx context.Context, id int64, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE recurring_costs SET last_execution = ? WHERE id = ?`, at.Unix(), id)
	if err != nil {
		return fmt.Errorf("mark recurring cost %d executed: %w", id, err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

func nullDate(d core.Date) sql.NullInt64 {
	if d.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: d.Unix(), Valid: true}
}

func fromUnixDate(sec int64) core.Date {
	return core.Date{Time: time.Unix(sec, 0).UTC()}
}
