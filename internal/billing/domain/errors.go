package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the kind shared by every lookup miss.
	ErrNotFound = errors.New("billing: not found")
	// ErrValidation is the kind shared by every rejected input.
	ErrValidation = errors.New("billing: invalid input")

	// ErrSiteNotFound is returned when a site id does not match the registry.
	ErrSiteNotFound = fmt.Errorf("%w: site", ErrNotFound)
	// ErrPeriodNotFound is returned when a period is not found.
	ErrPeriodNotFound = fmt.Errorf("%w: period", ErrNotFound)
	// ErrInvoiceNotFound is returned when an invoice is not found.
	ErrInvoiceNotFound = fmt.Errorf("%w: invoice", ErrNotFound)

	// ErrNoUnits is returned when allocating over an empty unit registry.
	ErrNoUnits = fmt.Errorf("%w: no units to allocate across", ErrValidation)
	// ErrZeroTotalWeight is returned when land share or square meter weights sum to zero.
	ErrZeroTotalWeight = fmt.Errorf("%w: total allocation weight is zero", ErrValidation)
	// ErrInvalidAmount is returned for NaN or infinite expense amounts.
	ErrInvalidAmount = fmt.Errorf("%w: expense amount must be finite", ErrValidation)
	// ErrEmptyPeriodID is returned when a period id is required but empty.
	ErrEmptyPeriodID = fmt.Errorf("%w: empty period id", ErrValidation)
	// ErrEmptyPeriodName is returned when upserting a period without a name.
	ErrEmptyPeriodName = fmt.Errorf("%w: period name required", ErrValidation)
	// ErrNilPeriod is returned when saving a nil period.
	ErrNilPeriod = errors.New("billing: nil period")
	// ErrNilInvoice is returned when saving a nil invoice.
	ErrNilInvoice = errors.New("billing: nil invoice")
)
