package memory

import (
	"context"
	"sync"

	billing "aidat-mock/internal/billing/domain"
)

// PeriodRepository is an in-memory repository for periods.
// Listing follows first-insertion order; overwrites keep their position.
type PeriodRepository struct {
	mu    sync.RWMutex
	data  map[string]*billing.Period
	order []string
}

// NewPeriodRepository constructs a repository.
func NewPeriodRepository() *PeriodRepository {
	return &PeriodRepository{data: make(map[string]*billing.Period)}
}

// Get loads a period.
func (r *PeriodRepository) Get(ctx context.Context, id string) (*billing.Period, error) {
	_ = ctx
	r.mu.RLock()
	period := r.data[id]
	r.mu.RUnlock()
	return period.Clone(), nil
}

// Save persists a period (overwrites existing).
func (r *PeriodRepository) Save(ctx context.Context, period *billing.Period) error {
	_ = ctx
	if period == nil {
		return billing.ErrNilPeriod
	}
	if period.ID == "" {
		return billing.ErrEmptyPeriodID
	}

	copy := period.Clone()
	r.mu.Lock()
	if _, ok := r.data[copy.ID]; !ok {
		r.order = append(r.order, copy.ID)
	}
	r.data[copy.ID] = copy
	r.mu.Unlock()
	return nil
}

// ListBySite returns the periods of a site.
func (r *PeriodRepository) ListBySite(ctx context.Context, siteID string) ([]*billing.Period, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*billing.Period, 0)
	for _, id := range r.order {
		if period := r.data[id]; period.SiteID == siteID {
			out = append(out, period.Clone())
		}
	}
	return out, nil
}

// InvoiceRepository is an in-memory repository for invoices.
type InvoiceRepository struct {
	mu   sync.RWMutex
	data map[string]*billing.Invoice
}

// NewInvoiceRepository constructs a repository.
func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{data: make(map[string]*billing.Invoice)}
}

// Get loads an invoice.
func (r *InvoiceRepository) Get(ctx context.Context, id string) (*billing.Invoice, error) {
	_ = ctx
	r.mu.RLock()
	invoice := r.data[id]
	r.mu.RUnlock()
	return invoice.Clone(), nil
}

// Save persists an invoice (overwrites existing).
func (r *InvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	_ = ctx
	if invoice == nil {
		return billing.ErrNilInvoice
	}

	copy := invoice.Clone()
	r.mu.Lock()
	r.data[copy.ID] = copy
	r.mu.Unlock()
	return nil
}

// ListByIDs returns the known invoices among ids, in the given order.
func (r *InvoiceRepository) ListByIDs(ctx context.Context, ids []string) ([]*billing.Invoice, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*billing.Invoice, 0, len(ids))
	for _, id := range ids {
		if invoice, ok := r.data[id]; ok {
			out = append(out, invoice.Clone())
		}
	}
	return out, nil
}

// Count returns the number of stored invoices, including ones no longer linked to a period.
func (r *InvoiceRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}
