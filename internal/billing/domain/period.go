package billing

import "time"

const (
	PeriodStatusDraft      = "draft"
	PeriodStatusProcessing = "processing"
	PeriodStatusPublished  = "published"

	// DefaultPeriodName names periods created lazily by a run.
	DefaultPeriodName = "Yeni Dönem"
)

// Period is a billing cycle of a site.
type Period struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	SiteID            string    `json:"site_id"`
	Status            string    `json:"status"`
	Expenses          []Expense `json:"expenses"`
	GeneratedInvoices []string  `json:"generated_invoices"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewPeriod builds a period, defaulting status to draft.
func NewPeriod(id, siteID, name, status string, expenses []Expense, generated []string, createdAt time.Time) (*Period, error) {
	if id == "" {
		return nil, ErrEmptyPeriodID
	}
	if name == "" {
		return nil, ErrEmptyPeriodName
	}
	if status == "" {
		status = PeriodStatusDraft
	}
	if expenses == nil {
		expenses = []Expense{}
	}
	if generated == nil {
		generated = []string{}
	}
	return &Period{
		ID:                id,
		Name:              name,
		SiteID:            siteID,
		Status:            status,
		Expenses:          cloneExpenses(expenses),
		GeneratedInvoices: append([]string{}, generated...),
		CreatedAt:         createdAt,
	}, nil
}

// MarkProcessed links the invoices of the latest run, dropping earlier links.
func (p *Period) MarkProcessed(invoiceIDs []string) {
	p.GeneratedInvoices = append([]string{}, invoiceIDs...)
	p.Status = PeriodStatusProcessing
}

// Publish moves the period to the terminal published status.
func (p *Period) Publish() {
	p.Status = PeriodStatusPublished
}

// Clone returns a deep copy.
func (p *Period) Clone() *Period {
	if p == nil {
		return nil
	}
	out := *p
	out.Expenses = cloneExpenses(p.Expenses)
	if p.GeneratedInvoices != nil {
		out.GeneratedInvoices = append([]string{}, p.GeneratedInvoices...)
	}
	return &out
}
