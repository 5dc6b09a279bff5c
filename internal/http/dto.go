package http

import (
	"encoding/json"
	"time"

	"portfolio/internal/core"
)

// amountInput accepts an amount as a JSON string ("12,50") or number (12.5).
type amountInput string

func (a *amountInput) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountInput(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amountInput(n.String())
	return nil
}

func formatMoney(m core.Money) string {
	return m.Decimal().StringFixed(2)
}

type projectPayload struct {
	Name     string             `json:"name"`
	URL      string             `json:"url"`
	Category string             `json:"category"`
	Status   core.ProjectStatus `json:"status"`
	Notes    string             `json:"notes"`
}

func (p projectPayload) toProject(id int64) core.Project {
	status := p.Status
	if status == "" {
		status = core.ProjectActive
	}
	return core.Project{
		ID:       id,
		Name:     sanitizeInput(p.Name),
		URL:      sanitizeInput(p.URL),
		Category: sanitizeInput(p.Category),
		Status:   status,
		Notes:    sanitizeInput(p.Notes),
	}
}

type projectResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	URL       string             `json:"url"`
	Category  string             `json:"category,omitempty"`
	Status    core.ProjectStatus `json:"status"`
	Notes     string             `json:"notes,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func newProjectResponse(p core.Project) projectResponse {
	return projectResponse{
		ID:        p.ID,
		Name:      p.Name,
		URL:       p.URL,
		Category:  p.Category,
		Status:    p.Status,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

type backlinkPayload struct {
	ProjectID  int64               `json:"project_id"`
	SourceURL  string              `json:"source_url"`
	TargetURL  string              `json:"target_url"`
	AnchorText string              `json:"anchor_text"`
	Category   string              `json:"category"`
	Cost       amountInput         `json:"cost"`
	Status     core.BacklinkStatus `json:"status"`
	AcquiredAt string              `json:"acquired_at"`
}

func (p backlinkPayload) toBacklink(id int64) (core.Backlink, error) {
	cents, err := core.ParseOptionalCents(string(p.Cost))
	if err != nil {
		return core.Backlink{}, err
	}
	acquired, err := parseDate(p.AcquiredAt)
	if err != nil {
		return core.Backlink{}, err
	}
	status := p.Status
	if status == "" {
		status = core.BacklinkLive
	}
	return core.Backlink{
		ID:         id,
		ProjectID:  p.ProjectID,
		SourceURL:  sanitizeInput(p.SourceURL),
		TargetURL:  sanitizeInput(p.TargetURL),
		AnchorText: sanitizeInput(p.AnchorText),
		Category:   sanitizeInput(p.Category),
		Cost:       core.Money{Cents: cents},
		Status:     status,
		AcquiredAt: acquired,
	}, nil
}

type backlinkResponse struct {
	ID         int64               `json:"id"`
	ProjectID  int64               `json:"project_id"`
	SourceURL  string              `json:"source_url"`
	TargetURL  string              `json:"target_url"`
	AnchorText string              `json:"anchor_text,omitempty"`
	Category   string              `json:"category,omitempty"`
	Cost       string              `json:"cost"`
	Status     core.BacklinkStatus `json:"status"`
	AcquiredAt string              `json:"acquired_at"`
}

func newBacklinkResponse(b core.Backlink) backlinkResponse {
	return backlinkResponse{
		ID:         b.ID,
		ProjectID:  b.ProjectID,
		SourceURL:  b.SourceURL,
		TargetURL:  b.TargetURL,
		AnchorText: b.AnchorText,
		Category:   b.Category,
		Cost:       formatMoney(b.Cost),
		Status:     b.Status,
		AcquiredAt: formatDate(b.AcquiredAt),
	}
}

type expensePayload struct {
	ProjectID   int64       `json:"project_id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      amountInput `json:"amount"`
	Category    string      `json:"category"`
}

func (p expensePayload) toExpense(id int64) (core.Expense, error) {
	cents, err := core.ParseDecimalToCents(string(p.Amount))
	if err != nil {
		return core.Expense{}, err
	}
	date, err := parseDate(p.Date)
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		ID:          id,
		ProjectID:   p.ProjectID,
		Date:        date,
		Description: sanitizeInput(p.Description),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(p.Category),
	}, nil
}

type expenseResponse struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"project_id,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
}

func newExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Date:        formatDate(e.Date),
		Description: e.Description,
		Amount:      formatMoney(e.Amount),
		Category:    e.Category,
	}
}

type githubAccountPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	ProjectID int64  `json:"project_id"`
	Notes     string `json:"notes"`
}

func (p githubAccountPayload) toGithubAccount(id int64) core.GithubAccount {
	return core.GithubAccount{
		ID:        id,
		Username:  sanitizeInput(p.Username),
		Email:     sanitizeInput(p.Email),
		ProjectID: p.ProjectID,
		Notes:     sanitizeInput(p.Notes),
	}
}

type githubAccountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	ProjectID int64     `json:"project_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newGithubAccountResponse(g core.GithubAccount) githubAccountResponse {
	return githubAccountResponse{
		ID:        g.ID,
		Username:  g.Username,
		Email:     g.Email,
		ProjectID: g.ProjectID,
		Notes:     g.Notes,
		CreatedAt: g.CreatedAt,
	}
}

type linkPayload struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Notes    string `json:"notes"`
}

func (p linkPayload) toLink(id int64) core.LinkResource {
	return core.LinkResource{
		ID:       id,
		Title:    sanitizeInput(p.Title),
		URL:      sanitizeInput(p.URL),
		Category: sanitizeInput(p.Category),
		Notes:    sanitizeInput(p.Notes),
	}
}

type linkResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Category  string    `json:"category,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newLinkResponse(l core.LinkResource) linkResponse {
	return linkResponse{
		ID:        l.ID,
		Title:     l.Title,
		URL:       l.URL,
		Category:  l.Category,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
	}
}

type recurringCostPayload struct {
	ProjectID   int64                `json:"project_id"`
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	Every       core.RepetitionTypes `json:"every"`
	Description string               `json:"description"`
	Amount      amountInput          `json:"amount"`
	Category    string               `json:"category"`
}

func (p recurringCostPayload) toRecurringCost() (core.RecurringCost, error) {
	cents, err := core.ParseDecimalToCents(string(p.Amount))
	if err != nil {
		return core.RecurringCost{}, err
	}
	start, err := parseDate(p.StartDate)
	if err != nil {
		return core.RecurringCost{}, err
	}
	end, err := parseOptionalDate(p.EndDate)
	if err != nil {
		return core.RecurringCost{}, err
	}
	return core.RecurringCost{
		ProjectID:   p.ProjectID,
		StartDate:   start,
		EndDate:     end,
		Every:       p.Every,
		Description: sanitizeInput(p.Description),
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(p.Category),
	}, nil
}

type recurringCostResponse struct {
	ID            int64                `json:"id"`
	ProjectID     int64                `json:"project_id,omitempty"`
	StartDate     string               `json:"start_date"`
	EndDate       string               `json:"end_date,omitempty"`
	Every         core.RepetitionTypes `json:"every"`
	Description   string               `json:"description"`
	Amount        string               `json:"amount"`
	Category      string               `json:"category"`
	LastExecution *time.Time           `json:"last_execution,omitempty"`
}

func newRecurringCostResponse(rc core.RecurringCost) recurringCostResponse {
	resp := recurringCostResponse{
		ID:          rc.ID,
		ProjectID:   rc.ProjectID,
		StartDate:   formatDate(rc.StartDate),
		EndDate:     formatDate(rc.EndDate),
		Every:       rc.Every,
		Description: rc.Description,
		Amount:      formatMoney(rc.Amount),
		Category:    rc.Category,
	}
	if !rc.LastExecution.IsZero() {
		last := rc.LastExecution
		resp.LastExecution = &last
	}
	return resp
}

// mapSlice converts every element of in with fn, returning an empty (not nil) slice.
func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
