// Package memory provides an in-process implementation of ports.Store. It is
// the default backend for local runs and the fixture used by handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"portfolio/internal/core"
	"portfolio/internal/ports"
)

var _ ports.Store = (*Store)(nil)

type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID int64

	projects  map[int64]core.Project
	backlinks map[int64]core.Backlink
	expenses  map[int64]core.Expense
	accounts  map[int64]core.GithubAccount
	links     map[int64]core.LinkResource
	recurring map[int64]core.RecurringCost
	exported  map[int64]bool
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock returns a store that stamps CreatedAt fields using now.
func NewWithClock(now func() time.Time) *Store {
	return &Store{
		now:       now,
		projects:  map[int64]core.Project{},
		backlinks: map[int64]core.Backlink{},
		expenses:  map[int64]core.Expense{},
		accounts:  map[int64]core.GithubAccount{},
		links:     map[int64]core.LinkResource{},
		recurring: map[int64]core.RecurringCost{},
		exported:  map[int64]bool{},
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// id must be called with mu held.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// checkProject must be called with mu held.
func (s *Store) checkProject(id int64) error {
	if id == 0 {
		return nil
	}
	if _, ok := s.projects[id]; !ok {
		return ports.ErrInvalidReference
	}
	return nil
}

func (s *Store) CreateProject(_ context.Context, p core.Project) (core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC().Truncate(time.Second)
	}
	s.projects[p.ID] = p
	return p, nil
}

func (s *Store) GetProject(_ context.Context, id int64) (core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return core.Project{}, ports.ErrNotFound
	}
	return p, nil
}

func (s *Store) ListProjects(context.Context) ([]core.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateProject(_ context.Context, p core.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.projects[p.ID]
	if !ok {
		return ports.ErrNotFound
	}
	p.CreatedAt = old.CreatedAt
	s.projects[p.ID] = p
	return nil
}

// DeleteProject removes the project and detaches everything that referenced it.
func (s *Store) DeleteProject(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.projects, id)
	for k, b := range s.backlinks {
		if b.ProjectID == id {
			b.ProjectID = 0
			s.backlinks[k] = b
		}
	}
	for k, e := range s.expenses {
		if e.ProjectID == id {
			e.ProjectID = 0
			s.expenses[k] = e
		}
	}
	for k, g := range s.accounts {
		if g.ProjectID == id {
			g.ProjectID = 0
			s.accounts[k] = g
		}
	}
	for k, rc := range s.recurring {
		if rc.ProjectID == id {
			rc.ProjectID = 0
			s.recurring[k] = rc
		}
	}
	return nil
}

func (s *Store) CreateBacklink(_ context.Context, b core.Backlink) (core.Backlink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkProject(b.ProjectID); err != nil {
		return core.Backlink{}, err
	}
	b.ID = s.id()
	s.backlinks[b.ID] = b
	return b, nil
}

func (s *Store) GetBacklink(_ context.Context, id int64) (core.Backlink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.backlinks[id]
	if !ok {
		return core.Backlink{}, ports.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBacklinks(_ context.Context, projectID int64) ([]core.Backlink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Backlink, 0, len(s.backlinks))
	for _, b := range s.backlinks {
		if projectID == 0 || b.ProjectID == projectID {
			out = append(out, b)
		}
	}
	sortBacklinks(out)
	return out, nil
}

func (s *Store) UpdateBacklink(_ context.Context, b core.Backlink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.backlinks[b.ID]; !ok {
		return ports.ErrNotFound
	}
	if err := s.checkProject(b.ProjectID); err != nil {
		return err
	}
	s.backlinks[b.ID] = b
	return nil
}

func (s *Store) DeleteBacklink(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.backlinks[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.backlinks, id)
	return nil
}

func (s *Store) BacklinksBetween(_ context.Context, start, end time.Time) ([]core.Backlink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Backlink
	for _, b := range s.backlinks {
		if within(b.AcquiredAt.Time, start, end) {
			out = append(out, b)
		}
	}
	sortBacklinks(out)
	return out, nil
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkProject(e.ProjectID); err != nil {
		return core.Expense{}, err
	}
	e.ID = s.id()
	s.expenses[e.ID] = e
	return e, nil
}

func (s *Store) GetExpense(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.expenses[id]
	if !ok {
		return core.Expense{}, ports.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListExpenses(_ context.Context, projectID int64) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0, len(s.expenses))
	for _, e := range s.expenses {
		if projectID == 0 || e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	sortExpenses(out)
	return out, nil
}

func (s *Store) UpdateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[e.ID]; !ok {
		return ports.ErrNotFound
	}
	if err := s.checkProject(e.ProjectID); err != nil {
		return err
	}
	s.expenses[e.ID] = e
	delete(s.exported, e.ID)
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.expenses, id)
	delete(s.exported, id)
	return nil
}

func (s *Store) ExpensesBetween(_ context.Context, start, end time.Time) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for _, e := range s.expenses {
		if within(e.Date.Time, start, end) {
			out = append(out, e)
		}
	}
	sortExpenses(out)
	return out, nil
}

func (s *Store) CreateGithubAccount(_ context.Context, g core.GithubAccount) (core.GithubAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkProject(g.ProjectID); err != nil {
		return core.GithubAccount{}, err
	}
	g.ID = s.id()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = s.now().UTC().Truncate(time.Second)
	}
	s.accounts[g.ID] = g
	return g, nil
}

func (s *Store) GetGithubAccount(_ context.Context, id int64) (core.GithubAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.accounts[id]
	if !ok {
		return core.GithubAccount{}, ports.ErrNotFound
	}
	return g, nil
}

func (s *Store) ListGithubAccounts(context.Context) ([]core.GithubAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.GithubAccount, 0, len(s.accounts))
	for _, g := range s.accounts {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateGithubAccount(_ context.Context, g core.GithubAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.accounts[g.ID]
	if !ok {
		return ports.ErrNotFound
	}
	if err := s.checkProject(g.ProjectID); err != nil {
		return err
	}
	g.CreatedAt = old.CreatedAt
	s.accounts[g.ID] = g
	return nil
}

func (s *Store) DeleteGithubAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) CreateLink(_ context.Context, l core.LinkResource) (core.LinkResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now().UTC().Truncate(time.Second)
	}
	s.links[l.ID] = l
	return l, nil
}

func (s *Store) GetLink(_ context.Context, id int64) (core.LinkResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.links[id]
	if !ok {
		return core.LinkResource{}, ports.ErrNotFound
	}
	return l, nil
}

func (s *Store) ListLinks(context.Context) ([]core.LinkResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.LinkResource, 0, len(s.links))
	for _, l := range s.links {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateLink(_ context.Context, l core.LinkResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.links[l.ID]
	if !ok {
		return ports.ErrNotFound
	}
	l.CreatedAt = old.CreatedAt
	s.links[l.ID] = l
	return nil
}

func (s *Store) DeleteLink(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.links, id)
	return nil
}

func (s *Store) CreateRecurringCost(_ context.Context, rc core.RecurringCost) (core.RecurringCost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkProject(rc.ProjectID); err != nil {
		return core.RecurringCost{}, err
	}
	rc.ID = s.id()
	s.recurring[rc.ID] = rc
	return rc, nil
}

func (s *Store) ListRecurringCosts(context.Context) ([]core.RecurringCost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringCost, 0, len(s.recurring))
	for _, rc := range s.recurring {
		out = append(out, rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) DeleteRecurringCost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recurring[id]; !ok {
		return ports.ErrNotFound
	}
	delete(s.recurring, id)
	return nil
}

func (s *Store) ActiveRecurringCosts(_ context.Context, now time.Time) ([]core.RecurringCost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.RecurringCost
	for _, rc := range s.recurring {
		if rc.StartDate.After(now) {
			continue
		}
		if !rc.EndDate.IsZero() && rc.EndDate.Before(now) {
			continue
		}
		out = append(out, rc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) MarkRecurringExecuted(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rc, ok := s.recurring[id]
	if !ok {
		return ports.ErrNotFound
	}
	rc.LastExecution = at
	s.recurring[id] = rc
	return nil
}

func (s *Store) PendingExports(_ context.Context, limit int) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Expense
	for id, e := range s.expenses {
		if !s.exported[id] {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) MarkExported(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.expenses[id]; !ok {
		return ports.ErrNotFound
	}
	s.exported[id] = true
	return nil
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// Newest first, ties by descending ID, matching the SQLite ordering.
func sortExpenses(es []core.Expense) {
	sort.Slice(es, func(i, j int) bool {
		if !es[i].Date.Equal(es[j].Date.Time) {
			return es[i].Date.After(es[j].Date.Time)
		}
		return es[i].ID > es[j].ID
	})
}

func sortBacklinks(bs []core.Backlink) {
	sort.Slice(bs, func(i, j int) bool {
		if !bs[i].AcquiredAt.Equal(bs[j].AcquiredAt.Time) {
			return bs[i].AcquiredAt.After(bs[j].AcquiredAt.Time)
		}
		return bs[i].ID > bs[j].ID
	})
}
