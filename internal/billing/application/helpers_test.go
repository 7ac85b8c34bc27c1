package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	billing "aidat-mock/internal/billing/domain"
	"aidat-mock/internal/billing/infrastructure/memory"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type sequenceIDs struct {
	prefix string
	next   int
}

func (s *sequenceIDs) NewID() string {
	s.next++
	return fmt.Sprintf("%s-%d", s.prefix, s.next)
}

type recordingPublisher struct {
	events []PeriodRunCompleted
	err    error
}

func (p *recordingPublisher) PublishPeriodRunCompleted(_ context.Context, event PeriodRunCompleted) error {
	p.events = append(p.events, event)
	return p.err
}

var errStoreDown = errors.New("store down")

type failingInvoiceRepo struct {
	billing.InvoiceRepository
}

func (failingInvoiceRepo) Save(context.Context, *billing.Invoice) error { return errStoreDown }

type fixture struct {
	clock     *fixedClock
	ids       *sequenceIDs
	periods   *memory.PeriodRepository
	invoices  *memory.InvoiceRepository
	sites     *SiteService
	service   *PeriodService
	payments  *PaymentService
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:     &fixedClock{now: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
		ids:       &sequenceIDs{prefix: "id"},
		periods:   memory.NewPeriodRepository(),
		invoices:  memory.NewInvoiceRepository(),
		publisher: &recordingPublisher{},
	}
	var err error
	f.sites, err = NewSiteService(billing.DemoSite())
	require.NoError(t, err)
	f.service, err = NewPeriodService(f.sites, f.periods, f.invoices,
		WithClock(f.clock), WithIDGenerator(f.ids), WithRunPublisher(f.publisher))
	require.NoError(t, err)
	f.payments, err = NewPaymentService(f.invoices, PaymentConfig{GatewayDomain: DefaultGatewayDomain}, WithIDGenerator(f.ids))
	require.NoError(t, err)
	return f
}
