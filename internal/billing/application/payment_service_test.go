package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billing "aidat-mock/internal/billing/domain"
)

func runOnce(t *testing.T, f *fixture) []*billing.Invoice {
	t.Helper()
	invoices, err := f.service.Run(context.Background(), "demo-site", "p-1", RunPeriodCommand{Expenses: []billing.Expense{aidat(90)}})
	require.NoError(t, err)
	return invoices
}

func TestCreateIntentDefaultsGateway(t *testing.T) {
	f := newFixture(t)
	invoice := runOnce(t, f)[0]

	intent, err := f.payments.CreateIntent(context.Background(), invoice.ID, "")
	require.NoError(t, err)
	assert.Equal(t, invoice.ID, intent.InvoiceID)
	assert.Equal(t, DefaultGateway, intent.Gateway)
	assert.Equal(t, "id-3", intent.CheckoutFormToken)
	assert.Equal(t, "https://iyzico.example.com/pay/"+invoice.ID, intent.RedirectURL)
}

func TestCreateIntentWithoutDomain(t *testing.T) {
	f := newFixture(t)
	invoice := runOnce(t, f)[1]
	payments, err := NewPaymentService(f.invoices, PaymentConfig{})
	require.NoError(t, err)

	intent, err := payments.CreateIntent(context.Background(), invoice.ID, "paytr.com")
	require.NoError(t, err)
	assert.Equal(t, "paytr.com", intent.Gateway)
	assert.Equal(t, "https://paytr.com/pay/"+invoice.ID, intent.RedirectURL)
	assert.NotEmpty(t, intent.CheckoutFormToken)
}

func TestCreateIntentLeavesInvoiceUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	invoice := runOnce(t, f)[0]

	_, err := f.payments.CreateIntent(ctx, invoice.ID, "stripe")
	require.NoError(t, err)
	stored, err := f.payments.Invoice(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.PaymentStatusUnpaid, stored.PaymentStatus)
}

func TestCreateIntentMissingInvoice(t *testing.T) {
	f := newFixture(t)
	_, err := f.payments.CreateIntent(context.Background(), "missing", "")
	assert.ErrorIs(t, err, billing.ErrInvoiceNotFound)
}

func TestMarkPaidStoresStatusVerbatim(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	invoice := runOnce(t, f)[0]

	for _, status := range []string{billing.PaymentStatusPaid, "kısmen ödendi", ""} {
		got, err := f.payments.MarkPaid(ctx, invoice.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, got)

		stored, err := f.payments.Invoice(ctx, invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, status, stored.PaymentStatus)
	}
}

func TestMarkPaidMissingInvoice(t *testing.T) {
	f := newFixture(t)
	_, err := f.payments.MarkPaid(context.Background(), "missing", billing.PaymentStatusPaid)
	assert.ErrorIs(t, err, billing.ErrInvoiceNotFound)
	assert.ErrorIs(t, err, billing.ErrNotFound)
}

func TestNewPaymentServiceRejectsNilRepo(t *testing.T) {
	_, err := NewPaymentService(nil, PaymentConfig{})
	assert.Error(t, err)
}

func TestSiteServiceGet(t *testing.T) {
	f := newFixture(t)
	site, err := f.sites.Get(context.Background(), "demo-site")
	require.NoError(t, err)
	assert.Equal(t, "Demo Sitesi", site.Name)
	assert.Len(t, site.Units, 2)

	site.Units[0].LandShare = 1000
	assert.Equal(t, 10.0, f.sites.Units()[0].LandShare)

	_, err = f.sites.Get(context.Background(), "other")
	assert.ErrorIs(t, err, billing.ErrSiteNotFound)

	_, err = NewSiteService(billing.Site{})
	assert.Error(t, err)
}
