package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	billing "aidat-mock/internal/billing/domain"
	"aidat-mock/internal/observability/metrics"
)

// UnitRegistry lists the units a run allocates across.
type UnitRegistry interface {
	Units() []billing.Unit
}

// UpsertPeriodCommand creates or replaces a period.
type UpsertPeriodCommand struct {
	ID                string
	Name              string
	Status            string
	Expenses          []billing.Expense
	GeneratedInvoices []string
}

// RunPeriodCommand allocates expenses into invoices.
type RunPeriodCommand struct {
	Name     string
	Expenses []billing.Expense
}

// PeriodService handles the billing period workflow.
type PeriodService struct {
	registry  UnitRegistry
	periods   billing.PeriodRepository
	invoices  billing.InvoiceRepository
	clock     Clock
	ids       IDGenerator
	publisher RunPublisher
	logger    logrus.FieldLogger
}

// NewPeriodService constructs a service.
func NewPeriodService(registry UnitRegistry, periods billing.PeriodRepository, invoices billing.InvoiceRepository, opts ...Option) (*PeriodService, error) {
	if registry == nil {
		return nil, errors.New("period service: nil unit registry")
	}
	if periods == nil {
		return nil, errors.New("period service: nil period repository")
	}
	if invoices == nil {
		return nil, errors.New("period service: nil invoice repository")
	}
	o := buildOptions(opts)
	return &PeriodService{
		registry:  registry,
		periods:   periods,
		invoices:  invoices,
		clock:     o.clock,
		ids:       o.ids,
		publisher: o.publisher,
		logger:    o.logger,
	}, nil
}

// Upsert creates or replaces a period. The creation time is always restamped.
func (s *PeriodService) Upsert(ctx context.Context, siteID string, cmd UpsertPeriodCommand) (*billing.Period, error) {
	id := cmd.ID
	if id == "" {
		id = s.ids.NewID()
	}
	period, err := billing.NewPeriod(id, siteID, cmd.Name, cmd.Status, cmd.Expenses, cmd.GeneratedInvoices, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.periods.Save(ctx, period); err != nil {
		return nil, fmt.Errorf("period service: save period: %w", err)
	}
	return period, nil
}

// List returns the periods of a site.
func (s *PeriodService) List(ctx context.Context, siteID string) ([]*billing.Period, error) {
	periods, err := s.periods.ListBySite(ctx, siteID)
	if err != nil {
		return nil, fmt.Errorf("period service: list periods: %w", err)
	}
	return periods, nil
}

// Get loads a period.
func (s *PeriodService) Get(ctx context.Context, periodID string) (*billing.Period, error) {
	period, err := s.periods.Get(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("period service: load period: %w", err)
	}
	if period == nil {
		return nil, billing.ErrPeriodNotFound
	}
	return period, nil
}

// Run allocates the command's expenses across every unit of the site and
// stores one invoice per unit. A missing period is created on the fly.
// The period links only the invoices of this run; older invoices stay stored.
// The run is committed before the publisher is notified, so a publish failure
// is logged and does not fail the run.
func (s *PeriodService) Run(ctx context.Context, siteID, periodID string, cmd RunPeriodCommand) (invoices []*billing.Invoice, err error) {
	start := time.Now()
	defer func() {
		metrics.ObservePeriodRun(resultOf(err), time.Since(start))
	}()

	if periodID == "" {
		return nil, billing.ErrEmptyPeriodID
	}
	allocations, err := billing.Allocate(s.registry.Units(), cmd.Expenses)
	if err != nil {
		return nil, err
	}

	period, err := s.periods.Get(ctx, periodID)
	if err != nil {
		return nil, fmt.Errorf("period service: load period: %w", err)
	}
	if period == nil {
		name := cmd.Name
		if name == "" {
			name = billing.DefaultPeriodName
		}
		period, err = billing.NewPeriod(periodID, siteID, name, billing.PeriodStatusProcessing, cmd.Expenses, nil, s.clock.Now())
		if err != nil {
			return nil, err
		}
	}

	invoices = make([]*billing.Invoice, 0, len(allocations))
	invoiceIDs := make([]string, 0, len(allocations))
	total := 0.0
	for _, allocation := range allocations {
		invoice := billing.NewInvoice(s.ids.NewID(), period, allocation)
		if err := s.invoices.Save(ctx, invoice); err != nil {
			return nil, fmt.Errorf("period service: save invoice: %w", err)
		}
		invoices = append(invoices, invoice)
		invoiceIDs = append(invoiceIDs, invoice.ID)
		total += invoice.Total
	}

	period.MarkProcessed(invoiceIDs)
	if err := s.periods.Save(ctx, period); err != nil {
		return nil, fmt.Errorf("period service: save period: %w", err)
	}
	metrics.AddInvoicesGenerated(len(invoices))

	if s.publisher != nil {
		event := PeriodRunCompleted{
			SiteID:     siteID,
			PeriodID:   period.ID,
			InvoiceIDs: invoiceIDs,
			Total:      billing.Round2(total),
			OccurredAt: s.clock.Now(),
		}
		if err := s.publisher.PublishPeriodRunCompleted(ctx, event); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"site_id":   siteID,
				"period_id": period.ID,
			}).Warn("period run publish failed")
		}
	}
	return invoices, nil
}

// Publish marks a period as published regardless of its current status.
func (s *PeriodService) Publish(ctx context.Context, periodID string) (*billing.Period, error) {
	period, err := s.Get(ctx, periodID)
	if err != nil {
		return nil, err
	}
	period.Publish()
	if err := s.periods.Save(ctx, period); err != nil {
		return nil, fmt.Errorf("period service: save period: %w", err)
	}
	return period, nil
}

// Invoices returns the invoices linked by the period's latest run.
func (s *PeriodService) Invoices(ctx context.Context, periodID string) ([]*billing.Invoice, error) {
	period, err := s.Get(ctx, periodID)
	if err != nil {
		return nil, err
	}
	invoices, err := s.invoices.ListByIDs(ctx, period.GeneratedInvoices)
	if err != nil {
		return nil, fmt.Errorf("period service: list invoices: %w", err)
	}
	return invoices, nil
}
