package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	billing "aidat-mock/internal/billing/domain"
	"aidat-mock/internal/observability/metrics"
)

const (
	// DefaultGateway is used when a payment request names no gateway.
	DefaultGateway = "iyzico"
	// DefaultGatewayDomain is appended to the gateway name in redirect URLs.
	DefaultGatewayDomain = "example.com"
)

// PaymentConfig configures fake checkout sessions.
type PaymentConfig struct {
	DefaultGateway string
	// GatewayDomain is appended to the gateway host; empty uses the gateway name as host.
	GatewayDomain string
}

// PaymentService fakes payment intents and records payment status.
type PaymentService struct {
	invoices billing.InvoiceRepository
	cfg      PaymentConfig
	ids      IDGenerator
}

// NewPaymentService constructs a service.
func NewPaymentService(invoices billing.InvoiceRepository, cfg PaymentConfig, opts ...Option) (*PaymentService, error) {
	if invoices == nil {
		return nil, errors.New("payment service: nil invoice repository")
	}
	if cfg.DefaultGateway == "" {
		cfg.DefaultGateway = DefaultGateway
	}
	o := buildOptions(opts)
	return &PaymentService{invoices: invoices, cfg: cfg, ids: o.ids}, nil
}

// Invoice loads an invoice.
func (s *PaymentService) Invoice(ctx context.Context, invoiceID string) (*billing.Invoice, error) {
	invoice, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("payment service: load invoice: %w", err)
	}
	if invoice == nil {
		return nil, billing.ErrInvoiceNotFound
	}
	return invoice, nil
}

// CreateIntent returns a checkout token and redirect URL. Nothing is stored.
func (s *PaymentService) CreateIntent(ctx context.Context, invoiceID, gateway string) (intent billing.PaymentIntent, err error) {
	defer func() {
		metrics.IncPaymentIntent(resultOf(err))
	}()

	invoice, err := s.Invoice(ctx, invoiceID)
	if err != nil {
		return billing.PaymentIntent{}, err
	}
	if gateway == "" {
		gateway = s.cfg.DefaultGateway
	}
	return billing.PaymentIntent{
		InvoiceID:         invoice.ID,
		Gateway:           gateway,
		CheckoutFormToken: s.ids.NewID(),
		RedirectURL:       s.redirectURL(gateway, invoice.ID),
	}, nil
}

func (s *PaymentService) redirectURL(gateway, invoiceID string) string {
	host := gateway
	if domain := strings.Trim(s.cfg.GatewayDomain, "."); domain != "" {
		host = gateway + "." + domain
	}
	return fmt.Sprintf("https://%s/pay/%s", host, invoiceID)
}

// MarkPaid stores the given payment status verbatim; any string is accepted.
func (s *PaymentService) MarkPaid(ctx context.Context, invoiceID, status string) (_ string, err error) {
	defer func() {
		metrics.IncInvoiceStatusUpdate(resultOf(err))
	}()

	invoice, err := s.Invoice(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	invoice.SetPaymentStatus(status)
	if err := s.invoices.Save(ctx, invoice); err != nil {
		return "", fmt.Errorf("payment service: save invoice: %w", err)
	}
	return invoice.PaymentStatus, nil
}
