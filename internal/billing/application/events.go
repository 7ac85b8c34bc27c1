package application

import (
	"context"
	"time"
)

// PeriodRunCompleted is published after a period run stored its invoices.
type PeriodRunCompleted struct {
	SiteID     string
	PeriodID   string
	InvoiceIDs []string
	Total      float64
	OccurredAt time.Time
}

// RunPublisher receives completed period runs.
type RunPublisher interface {
	PublishPeriodRunCompleted(ctx context.Context, event PeriodRunCompleted) error
}
