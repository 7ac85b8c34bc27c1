package interfaces

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"aidat-mock/internal/billing/application"
)

// LoggingPublisher logs completed period runs.
type LoggingPublisher struct {
	logger logrus.FieldLogger
}

// NewLoggingPublisher constructs a logging publisher.
func NewLoggingPublisher(logger logrus.FieldLogger) *LoggingPublisher {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LoggingPublisher{logger: logger}
}

// PublishPeriodRunCompleted logs the event.
func (p *LoggingPublisher) PublishPeriodRunCompleted(ctx context.Context, event application.PeriodRunCompleted) error {
	_ = ctx
	if p == nil {
		return errors.New("billing publisher: nil publisher")
	}
	p.logger.WithFields(logrus.Fields{
		"site_id":   event.SiteID,
		"period_id": event.PeriodID,
		"invoices":  len(event.InvoiceIDs),
		"total":     event.Total,
	}).Info("period run completed")
	return nil
}
