package application

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billing "aidat-mock/internal/billing/domain"
	"aidat-mock/internal/billing/infrastructure/memory"
)

func aidat(amount float64) billing.Expense {
	return billing.Expense{Name: "Aidat", Amount: amount, DistributionType: billing.DistributionLandShare}
}

func TestNewPeriodServiceRejectsNil(t *testing.T) {
	sites, err := NewSiteService(billing.DemoSite())
	require.NoError(t, err)

	_, err = NewPeriodService(nil, memory.NewPeriodRepository(), memory.NewInvoiceRepository())
	assert.Error(t, err)
	_, err = NewPeriodService(sites, nil, memory.NewInvoiceRepository())
	assert.Error(t, err)
	_, err = NewPeriodService(sites, memory.NewPeriodRepository(), nil)
	assert.Error(t, err)
}

func TestUpsertGeneratesIDAndDefaults(t *testing.T) {
	f := newFixture(t)
	period, err := f.service.Upsert(context.Background(), "demo-site", UpsertPeriodCommand{Name: "Mayıs"})
	require.NoError(t, err)

	assert.Equal(t, "id-1", period.ID)
	assert.Equal(t, "demo-site", period.SiteID)
	assert.Equal(t, billing.PeriodStatusDraft, period.Status)
	assert.Equal(t, f.clock.now, period.CreatedAt)
}

func TestUpsertRequiresName(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Upsert(context.Background(), "demo-site", UpsertPeriodCommand{ID: "p-1"})
	assert.ErrorIs(t, err, billing.ErrEmptyPeriodName)
}

func TestUpsertOverwritesCreatedAt(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, err := f.service.Upsert(ctx, "demo-site", UpsertPeriodCommand{ID: "p-1", Name: "Mayıs"})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	second, err := f.service.Upsert(ctx, "demo-site", UpsertPeriodCommand{ID: "p-1", Name: "Mayıs 2", Status: billing.PeriodStatusProcessing})
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt.Add(time.Hour), second.CreatedAt)
	stored, err := f.service.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Mayıs 2", stored.Name)
	assert.Equal(t, billing.PeriodStatusProcessing, stored.Status)
	assert.Equal(t, second.CreatedAt, stored.CreatedAt)
}

func TestListFiltersBySite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.service.Upsert(ctx, "demo-site", UpsertPeriodCommand{ID: "p-1", Name: "Mayıs"})
	require.NoError(t, err)
	_, err = f.service.Upsert(ctx, "other-site", UpsertPeriodCommand{ID: "p-2", Name: "Haziran"})
	require.NoError(t, err)

	periods, err := f.service.List(ctx, "demo-site")
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, "p-1", periods[0].ID)
}

func TestRunCreatesMissingPeriod(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	invoices, err := f.service.Run(ctx, "demo-site", "p-1", RunPeriodCommand{Expenses: []billing.Expense{aidat(90)}})
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	assert.Equal(t, "unit-1", invoices[0].UnitID)
	assert.Equal(t, 50.0, invoices[0].Total)
	assert.Equal(t, "Sakin 1", invoices[0].TenantName)
	assert.Equal(t, billing.DefaultPeriodName, invoices[0].PeriodName)
	assert.Equal(t, billing.PaymentStatusUnpaid, invoices[0].PaymentStatus)
	assert.Equal(t, "unit-2", invoices[1].UnitID)
	assert.Equal(t, 40.0, invoices[1].Total)

	period, err := f.service.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, billing.PeriodStatusProcessing, period.Status)
	assert.Equal(t, "demo-site", period.SiteID)
	assert.Equal(t, []billing.Expense{aidat(90)}, period.Expenses)
	assert.Equal(t, []string{invoices[0].ID, invoices[1].ID}, period.GeneratedInvoices)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, "p-1", event.PeriodID)
	assert.Equal(t, 90.0, event.Total)
	assert.Equal(t, period.GeneratedInvoices, event.InvoiceIDs)
}

func TestRunUsesCommandNameForNewPeriod(t *testing.T) {
	f := newFixture(t)
	invoices, err := f.service.Run(context.Background(), "demo-site", "p-1", RunPeriodCommand{Name: "Haziran"})
	require.NoError(t, err)
	assert.Equal(t, "Haziran", invoices[0].PeriodName)
	assert.Empty(t, invoices[0].Items)
	assert.Equal(t, 0.0, invoices[0].Total)
}

func TestRunKeepsExistingPeriodDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stored := []billing.Expense{{Name: "Bahçe", Amount: 10, DistributionType: billing.DistributionFixed}}
	_, err := f.service.Upsert(ctx, "demo-site", UpsertPeriodCommand{ID: "p-1", Name: "Mayıs", Expenses: stored})
	require.NoError(t, err)

	invoices, err := f.service.Run(ctx, "demo-site", "p-1", RunPeriodCommand{Name: "ignored", Expenses: []billing.Expense{aidat(90)}})
	require.NoError(t, err)
	assert.Equal(t, "Mayıs", invoices[0].PeriodName)
	assert.Equal(t, []billing.LineItem{{Description: "Aidat", Amount: 50}}, invoices[0].Items)

	period, err := f.service.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, stored, period.Expenses)
	assert.Equal(t, billing.PeriodStatusProcessing, period.Status)
}

func TestRerunReplacesInvoiceLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cmd := RunPeriodCommand{Expenses: []billing.Expense{aidat(90)}}

	first, err := f.service.Run(ctx, "demo-site", "p-1", cmd)
	require.NoError(t, err)
	second, err := f.service.Run(ctx, "demo-site", "p-1", cmd)
	require.NoError(t, err)

	firstIDs := []string{first[0].ID, first[1].ID}
	secondIDs := []string{second[0].ID, second[1].ID}
	assert.NotEqual(t, firstIDs, secondIDs)
	for _, id := range secondIDs {
		assert.NotContains(t, firstIDs, id)
	}

	period, err := f.service.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, secondIDs, period.GeneratedInvoices)

	// earlier invoices are unlinked but still stored
	assert.Equal(t, 4, f.invoices.Count())
	old, err := f.payments.Invoice(ctx, firstIDs[0])
	require.NoError(t, err)
	assert.Equal(t, "p-1", old.PeriodID)

	linked, err := f.service.Invoices(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, secondIDs[0], linked[0].ID)
}

func TestRunRejectsZeroWeightWithoutSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	site := billing.DemoSite()
	for i := range site.Units {
		site.Units[i].LandShare = 0
	}
	sites, err := NewSiteService(site)
	require.NoError(t, err)
	service, err := NewPeriodService(sites, f.periods, f.invoices)
	require.NoError(t, err)

	_, err = service.Run(ctx, "demo-site", "p-1", RunPeriodCommand{Expenses: []billing.Expense{aidat(90)}})
	assert.ErrorIs(t, err, billing.ErrZeroTotalWeight)

	_, err = service.Get(ctx, "p-1")
	assert.ErrorIs(t, err, billing.ErrPeriodNotFound)
	assert.Equal(t, 0, f.invoices.Count())
}

func TestRunRequiresPeriodID(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Run(context.Background(), "demo-site", "", RunPeriodCommand{})
	assert.ErrorIs(t, err, billing.ErrEmptyPeriodID)
}

func TestRunWrapsStoreErrors(t *testing.T) {
	f := newFixture(t)
	service, err := NewPeriodService(f.sites, f.periods, failingInvoiceRepo{f.invoices})
	require.NoError(t, err)

	_, err = service.Run(context.Background(), "demo-site", "p-1", RunPeriodCommand{Expenses: []billing.Expense{aidat(90)}})
	assert.ErrorIs(t, err, errStoreDown)
}

func TestRunKeepsResultWhenPublishFails(t *testing.T) {
	f := newFixture(t)
	logger, hook := test.NewNullLogger()
	service, err := NewPeriodService(f.sites, f.periods, f.invoices,
		WithClock(f.clock), WithIDGenerator(f.ids), WithRunPublisher(f.publisher), WithLogger(logger))
	require.NoError(t, err)
	f.publisher.err = errStoreDown

	ctx := context.Background()
	invoices, err := service.Run(ctx, "demo-site", "p-1", RunPeriodCommand{Expenses: []billing.Expense{aidat(90)}})
	require.NoError(t, err)
	require.Len(t, invoices, 2)

	period, err := f.periods.Get(ctx, "p-1")
	require.NoError(t, err)
	require.NotNil(t, period)
	assert.Equal(t, []string{invoices[0].ID, invoices[1].ID}, period.GeneratedInvoices)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "p-1", entry.Data["period_id"])
	assert.ErrorIs(t, entry.Data[logrus.ErrorKey].(error), errStoreDown)
}

func TestPublish(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.Publish(ctx, "missing")
	assert.ErrorIs(t, err, billing.ErrPeriodNotFound)
	assert.ErrorIs(t, err, billing.ErrNotFound)

	_, err = f.service.Upsert(ctx, "demo-site", UpsertPeriodCommand{ID: "p-1", Name: "Mayıs"})
	require.NoError(t, err)
	period, err := f.service.Publish(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, billing.PeriodStatusPublished, period.Status)

	stored, err := f.service.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, billing.PeriodStatusPublished, stored.Status)
}

func TestInvoicesOfMissingPeriod(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.Invoices(context.Background(), "missing")
	assert.ErrorIs(t, err, billing.ErrPeriodNotFound)
}
