package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	billing "aidat-mock/internal/billing/domain"
	"aidat-mock/internal/observability/metrics"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// IDGenerator provides identifiers for periods, invoices and checkout tokens.
type IDGenerator interface {
	NewID() string
}

// SystemClock returns the current UTC time.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

type options struct {
	clock     Clock
	ids       IDGenerator
	publisher RunPublisher
	logger    logrus.FieldLogger
}

// Option customizes a billing service.
type Option func(*options)

// WithClock overrides the clock.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(o *options) {
		if ids != nil {
			o.ids = ids
		}
	}
}

// WithRunPublisher sets the publisher notified after each period run.
func WithRunPublisher(publisher RunPublisher) Option {
	return func(o *options) {
		o.publisher = publisher
	}
}

// WithLogger overrides the logger used for failures that do not fail the call.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: SystemClock{}, ids: UUIDGenerator{}, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, billing.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, billing.ErrValidation):
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
