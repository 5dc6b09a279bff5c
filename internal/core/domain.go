package core

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"portfolio/internal/analytics"
)

const (
	Monthly RepetitionTypes = "monthly"
	Yearly  RepetitionTypes = "yearly"
	Weekly  RepetitionTypes = "weekly"
	Daily   RepetitionTypes = "daily"
)

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectSold     ProjectStatus = "sold"
	ProjectArchived ProjectStatus = "archived"
)

const (
	BacklinkLive    BacklinkStatus = "live"
	BacklinkPending BacklinkStatus = "pending"
	BacklinkLost    BacklinkStatus = "lost"
)

const maxDescriptionLen = 200

type (
	RepetitionTypes string
	ProjectStatus   string
	BacklinkStatus  string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Project is one site of the portfolio.
	Project struct {
		ID        int64
		Name      string
		URL       string
		Category  string
		Status    ProjectStatus
		Notes     string
		CreatedAt time.Time
	}

	Backlink struct {
		ID         int64
		ProjectID  int64
		SourceURL  string
		TargetURL  string
		AnchorText string
		Category   string // e.g. guest post, directory, niche edit
		Cost       Money  // zero for free links
		Status     BacklinkStatus
		AcquiredAt Date
	}

	Expense struct {
		ID          int64
		ProjectID   int64 // 0 when the cost is not tied to a project
		Date        Date
		Description string
		Amount      Money
		Category    string
	}

	GithubAccount struct {
		ID        int64
		Username  string
		Email     string
		ProjectID int64
		Notes     string
		CreatedAt time.Time
	}

	// LinkResource is a bookmarked tool, directory or outreach target.
	LinkResource struct {
		ID        int64
		Title     string
		URL       string
		Category  string
		Notes     string
		CreatedAt time.Time
	}

	// RecurringCost is a template materialised into expenses when due
	// (hosting plans, domain renewals, subscriptions).
	RecurringCost struct {
		ID            int64
		ProjectID     int64
		StartDate     Date
		EndDate       Date
		Every         RepetitionTypes
		Description   string
		Amount        Money
		Category      string
		LastExecution time.Time
	}
)

var (
	ErrZeroDate         = errors.New("date cannot be zero")
	ErrInvalidDay       = errors.New("invalid day")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidURL       = errors.New("invalid url")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyCategory    = errors.New("empty category")
	ErrDescriptionLong  = errors.New("description too long (max 200 characters)")
	ErrInvalidEndDate   = errors.New("end date must be after start date")
	ErrInvalidFrequency = errors.New("invalid repetition type")
)

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	_, month, day := d.Date()
	if day < 1 || day > 31 {
		return ErrInvalidDay
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectSold, ProjectArchived:
		return true
	}
	return false
}

func (s BacklinkStatus) IsValid() bool {
	switch s {
	case BacklinkLive, BacklinkPending, BacklinkLost:
		return true
	}
	return false
}

func (r RepetitionTypes) IsValid() bool {
	switch r {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if err := validateURL(p.URL); err != nil {
		return err
	}
	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

func (b Backlink) Validate() error {
	if err := validateURL(b.SourceURL); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	if err := validateURL(b.TargetURL); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	if b.Cost.Cents < 0 {
		return ErrInvalidAmount
	}
	if !b.Status.IsValid() {
		return ErrInvalidStatus
	}
	return b.AcquiredAt.Validate()
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > maxDescriptionLen {
		return ErrDescriptionLong
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (g GithubAccount) Validate() error {
	if strings.TrimSpace(g.Username) == "" {
		return ErrEmptyName
	}
	if g.Email != "" && !strings.Contains(g.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

func (l LinkResource) Validate() error {
	if strings.TrimSpace(l.Title) == "" {
		return ErrEmptyName
	}
	return validateURL(l.URL)
}

func (rc RecurringCost) Validate() error {
	if err := rc.StartDate.Validate(); err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if !rc.EndDate.IsZero() {
		if err := rc.EndDate.Validate(); err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
		if rc.EndDate.Before(rc.StartDate.Time) {
			return ErrInvalidEndDate
		}
	}
	if !rc.Every.IsValid() {
		return ErrInvalidFrequency
	}
	if len(strings.TrimSpace(rc.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(rc.Description) > maxDescriptionLen {
		return ErrDescriptionLong
	}
	if err := rc.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(rc.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Record converts the expense into an analytics input.
func (e Expense) Record() analytics.Record {
	return analytics.Record{
		Timestamp: e.Date.Time,
		Amount:    e.Amount.Decimal(),
		Category:  e.Category,
		ProjectID: e.ProjectID,
	}
}

// Record converts the backlink into an analytics input keyed by its
// acquisition date and cost.
func (b Backlink) Record() analytics.Record {
	return analytics.Record{
		Timestamp: b.AcquiredAt.Time,
		Amount:    b.Cost.Decimal(),
		Category:  b.Category,
		ProjectID: b.ProjectID,
	}
}

func validateURL(raw string) error {
	u, err := url.ParseRequestURI(strings.TrimSpace(raw))
	if err != nil {
		return ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

var validationErrors = []error{
	ErrZeroDate, ErrInvalidDay, ErrInvalidMonth, ErrInvalidAmount, ErrInvalidURL,
	ErrInvalidStatus, ErrInvalidEmail, ErrEmptyName, ErrEmptyDescription,
	ErrEmptyCategory, ErrDescriptionLong, ErrInvalidEndDate, ErrInvalidFrequency,
}

// IsValidationError reports whether err comes from an entity Validate method.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
