package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"portfolio/internal/analytics"
	"portfolio/internal/core"

	"golang.org/x/sync/errgroup"
)

const topCostCenters = 5

// AnalyticsReader is the slice of the store the analytics views read from.
type AnalyticsReader interface {
	ExpensesBetween(ctx context.Context, start, end time.Time) ([]core.Expense, error)
	BacklinksBetween(ctx context.Context, start, end time.Time) ([]core.Backlink, error)
	ListProjects(ctx context.Context) ([]core.Project, error)
}

// ReportRequest selects the window of a report. Start and End are only read
// for the custom period.
type ReportRequest struct {
	Period analytics.Period
	Start  *time.Time
	End    *time.Time
}

type Report struct {
	Period      analytics.Period      `json:"period"`
	Range       analytics.DateRange   `json:"range"`
	Granularity analytics.Granularity `json:"granularity"`
	analytics.Summary
}

type Dashboard struct {
	Period           analytics.Period           `json:"period"`
	Range            analytics.DateRange        `json:"range"`
	Granularity      analytics.Granularity      `json:"granularity"`
	Expenses         analytics.Summary          `json:"expenses"`
	Backlinks        analytics.Summary          `json:"backlinks"`
	TopCostCenters   []analytics.Ranked         `json:"top_cost_centers"`
	ProjectCount     int                        `json:"project_count"`
	ProjectsByStatus map[core.ProjectStatus]int `json:"projects_by_status"`
}

// AnalyticsService runs the resolve, fetch, aggregate and compose pipeline
// over the store. Calendar boundaries are computed in its location.
type AnalyticsService struct {
	store AnalyticsReader
	now   func() time.Time
	loc   *time.Location
}

func NewAnalyticsService(store AnalyticsReader, loc *time.Location) *AnalyticsService {
	return NewAnalyticsServiceWithClock(store, loc, time.Now)
}

func NewAnalyticsServiceWithClock(store AnalyticsReader, loc *time.Location, now func() time.Time) *AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &AnalyticsService{store: store, now: now, loc: loc}
}

func (s *AnalyticsService) Location() *time.Location { return s.loc }

func (s *AnalyticsService) resolve(req ReportRequest) (analytics.DateRange, error) {
	return analytics.Resolve(req.Period, s.now().In(s.loc), req.Start, req.End)
}

// ExpenseReport aggregates expenses dated inside the requested window.
func (s *AnalyticsService) ExpenseReport(ctx context.Context, req ReportRequest) (Report, error) {
	r, err := s.resolve(req)
	if err != nil {
		return Report{}, err
	}
	records, err := s.expenseRecords(ctx, r)
	if err != nil {
		return Report{}, err
	}
	return s.report(req.Period, r, records)
}

// BacklinkReport aggregates backlink acquisitions; bucket sums are link costs.
func (s *AnalyticsService) BacklinkReport(ctx context.Context, req ReportRequest) (Report, error) {
	r, err := s.resolve(req)
	if err != nil {
		return Report{}, err
	}
	records, err := s.backlinkRecords(ctx, r)
	if err != nil {
		return Report{}, err
	}
	return s.report(req.Period, r, records)
}

func (s *AnalyticsService) report(p analytics.Period, r analytics.DateRange, records []analytics.Record) (Report, error) {
	if p == analytics.PeriodAll {
		r = analytics.NarrowToRecords(r, records)
	}
	g := analytics.ChooseGranularity(p, r)
	buckets, err := analytics.Aggregate(records, r, g)
	if err != nil {
		return Report{}, fmt.Errorf("aggregate %s: %w", p, err)
	}
	return Report{
		Period:      p,
		Range:       r,
		Granularity: g,
		Summary:     analytics.Compose(buckets, records),
	}, nil
}

// Dashboard combines expense and backlink summaries over one shared window
// with the top cost centers by project and project counts by status.
func (s *AnalyticsService) Dashboard(ctx context.Context, req ReportRequest) (Dashboard, error) {
	r, err := s.resolve(req)
	if err != nil {
		return Dashboard{}, err
	}

	var (
		expenses  []analytics.Record
		backlinks []analytics.Record
		projects  []core.Project
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.expenseRecords(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		backlinks, err = s.backlinkRecords(gctx, r)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.store.ListProjects(gctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	if req.Period == analytics.PeriodAll {
		all := make([]analytics.Record, 0, len(expenses)+len(backlinks))
		all = append(all, expenses...)
		all = append(all, backlinks...)
		r = analytics.NarrowToRecords(r, all)
	}
	gran := analytics.ChooseGranularity(req.Period, r)

	expBuckets, err := analytics.Aggregate(expenses, r, gran)
	if err != nil {
		return Dashboard{}, fmt.Errorf("aggregate expenses: %w", err)
	}
	blBuckets, err := analytics.Aggregate(backlinks, r, gran)
	if err != nil {
		return Dashboard{}, fmt.Errorf("aggregate backlinks: %w", err)
	}

	names := make(map[int64]string, len(projects))
	byStatus := make(map[core.ProjectStatus]int)
	for _, p := range projects {
		names[p.ID] = p.Name
		byStatus[p.Status]++
	}
	projectName := func(rec analytics.Record) string {
		if rec.ProjectID == 0 {
			return ""
		}
		if n, ok := names[rec.ProjectID]; ok {
			return n
		}
		return "project " + strconv.FormatInt(rec.ProjectID, 10)
	}
	costs := make([]analytics.Record, 0, len(expenses)+len(backlinks))
	costs = append(costs, analytics.Filter(expenses, r)...)
	costs = append(costs, analytics.Filter(backlinks, r)...)

	d := Dashboard{
		Period:           req.Period,
		Range:            r,
		Granularity:      gran,
		Expenses:         analytics.Compose(expBuckets, expenses),
		Backlinks:        analytics.Compose(blBuckets, backlinks),
		TopCostCenters:   analytics.Rank(costs, projectName, topCostCenters),
		ProjectCount:     len(projects),
		ProjectsByStatus: byStatus,
	}
	slog.DebugContext(ctx, "Dashboard computed",
		"period", req.Period,
		"granularity", gran,
		"expenses", d.Expenses.TotalCount,
		"backlinks", d.Backlinks.TotalCount)
	return d, nil
}

// expenseRecords fetches the expenses whose calendar date falls in r.
// Stored dates are UTC midnights and are reread as midnights in s.loc.
func (s *AnalyticsService) expenseRecords(ctx context.Context, r analytics.DateRange) ([]analytics.Record, error) {
	start, end := storeWindow(r)
	es, err := s.store.ExpensesBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch expenses: %w", err)
	}
	out := make([]analytics.Record, 0, len(es))
	for _, e := range es {
		out = append(out, s.localize(e.Record()))
	}
	return analytics.Filter(out, r), nil
}

func (s *AnalyticsService) backlinkRecords(ctx context.Context, r analytics.DateRange) ([]analytics.Record, error) {
	start, end := storeWindow(r)
	bs, err := s.store.BacklinksBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch backlinks: %w", err)
	}
	out := make([]analytics.Record, 0, len(bs))
	for _, b := range bs {
		out = append(out, s.localize(b.Record()))
	}
	return analytics.Filter(out, r), nil
}

func (s *AnalyticsService) localize(rec analytics.Record) analytics.Record {
	y, m, d := rec.Timestamp.UTC().Date()
	rec.Timestamp = time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	return rec
}

// storeWindow widens r by a day on each side so that no UTC-stored date
// whose local midnight lies in r is missed; callers filter afterwards.
func storeWindow(r analytics.DateRange) (time.Time, time.Time) {
	return r.Start.Add(-24 * time.Hour).UTC(), r.End.Add(24 * time.Hour).UTC()
}
