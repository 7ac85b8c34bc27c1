package billing

import "context"

// PeriodRepository stores periods. Get returns nil, nil when the id is unknown.
type PeriodRepository interface {
	Get(ctx context.Context, id string) (*Period, error)
	Save(ctx context.Context, period *Period) error
	ListBySite(ctx context.Context, siteID string) ([]*Period, error)
}

// InvoiceRepository stores invoices. Get returns nil, nil when the id is unknown.
type InvoiceRepository interface {
	Get(ctx context.Context, id string) (*Invoice, error)
	Save(ctx context.Context, invoice *Invoice) error
	ListByIDs(ctx context.Context, ids []string) ([]*Invoice, error)
}
