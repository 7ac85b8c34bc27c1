package billing

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Invoice is the bill generated for one unit by a period run.
type Invoice struct {
	ID            string     `json:"id"`
	PeriodID      string     `json:"period_id"`
	PeriodName    string     `json:"period_name"`
	UnitID        string     `json:"unit_id"`
	TenantID      string     `json:"tenant_id"`
	TenantName    string     `json:"tenant_name"`
	Items         []LineItem `json:"items"`
	Total         float64    `json:"total"`
	PaymentStatus string     `json:"payment_status"`
}

// NewInvoice builds an unpaid invoice from a unit allocation.
func NewInvoice(id string, period *Period, allocation Allocation) *Invoice {
	return &Invoice{
		ID:            id,
		PeriodID:      period.ID,
		PeriodName:    period.Name,
		UnitID:        allocation.Unit.ID,
		TenantID:      allocation.Unit.TenantID,
		TenantName:    allocation.Unit.TenantName(),
		Items:         append([]LineItem{}, allocation.Items...),
		Total:         allocation.Total,
		PaymentStatus: PaymentStatusUnpaid,
	}
}

// SetPaymentStatus stores the status verbatim.
func (i *Invoice) SetPaymentStatus(status string) {
	i.PaymentStatus = status
}

// Clone returns a deep copy.
func (i *Invoice) Clone() *Invoice {
	if i == nil {
		return nil
	}
	out := *i
	if i.Items != nil {
		out.Items = append([]LineItem{}, i.Items...)
	}
	return &out
}

// PaymentIntent is a fake checkout session for an invoice.
type PaymentIntent struct {
	InvoiceID         string `json:"invoice_id"`
	Gateway           string `json:"gateway"`
	CheckoutFormToken string `json:"checkout_form_token"`
	RedirectURL       string `json:"redirect_url"`
}
