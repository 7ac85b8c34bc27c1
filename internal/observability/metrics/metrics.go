package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "aidat_"

	resultSuccess  = "success"
	resultError    = "error"
	resultNotFound = "not_found"
	resultInvalid  = "invalid"
)

var (
	registerOnce sync.Once

	periodRunTotal    *prometheus.CounterVec
	periodRunLatency  *prometheus.HistogramVec
	invoicesGenerated prometheus.Counter

	paymentIntentTotal *prometheus.CounterVec
	invoiceStatusTotal *prometheus.CounterVec

	invoiceExportTotal   *prometheus.CounterVec
	invoiceExportLatency *prometheus.HistogramVec

	httpRequestsTotal  *prometheus.CounterVec
	httpRequestLatency *prometheus.HistogramVec
)

// Init registers billing metrics on the given registerer, or the default one when nil.
func Init(registerer prometheus.Registerer) {
	registerOnce.Do(func() {
		if registerer == nil {
			registerer = prometheus.DefaultRegisterer
		}

		periodRunTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "period_run_total",
				Help: "Total period runs by result",
			},
			[]string{"result"},
		)
		periodRunLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "period_run_latency_seconds",
				Help:    "Period run latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		invoicesGenerated = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoices_generated_total",
				Help: "Total invoices generated by period runs",
			},
		)

		paymentIntentTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "payment_intent_total",
				Help: "Total payment intents by result",
			},
			[]string{"result"},
		)
		invoiceStatusTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoice_status_update_total",
				Help: "Total invoice payment status updates by result",
			},
			[]string{"result"},
		)

		invoiceExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "invoice_export_total",
				Help: "Total invoice export operations by format and result",
			},
			[]string{"format", "result"},
		)
		invoiceExportLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "invoice_export_latency_seconds",
				Help:    "Invoice export latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"format", "result"},
		)

		httpRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method and status code",
			},
			[]string{"method", "code"},
		)
		httpRequestLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_latency_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)

		registerer.MustRegister(
			periodRunTotal,
			periodRunLatency,
			invoicesGenerated,
			paymentIntentTotal,
			invoiceStatusTotal,
			invoiceExportTotal,
			invoiceExportLatency,
			httpRequestsTotal,
			httpRequestLatency,
		)
	})
}

// ObservePeriodRun records period run latency and result.
func ObservePeriodRun(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if periodRunTotal != nil {
		periodRunTotal.WithLabelValues(result).Inc()
	}
	if periodRunLatency != nil {
		periodRunLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddInvoicesGenerated increments the generated invoice counter by count.
func AddInvoicesGenerated(count int) {
	if count <= 0 {
		return
	}
	if invoicesGenerated != nil {
		invoicesGenerated.Add(float64(count))
	}
}

// IncPaymentIntent increments the payment intent counter.
func IncPaymentIntent(result string) {
	if result == "" {
		result = resultSuccess
	}
	if paymentIntentTotal != nil {
		paymentIntentTotal.WithLabelValues(result).Inc()
	}
}

// IncInvoiceStatusUpdate increments the payment status update counter.
func IncInvoiceStatusUpdate(result string) {
	if result == "" {
		result = resultSuccess
	}
	if invoiceStatusTotal != nil {
		invoiceStatusTotal.WithLabelValues(result).Inc()
	}
}

// ObserveInvoiceExport records export latency and result.
func ObserveInvoiceExport(format, result string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if invoiceExportTotal != nil {
		invoiceExportTotal.WithLabelValues(format, result).Inc()
	}
	if invoiceExportLatency != nil {
		invoiceExportLatency.WithLabelValues(format, result).Observe(duration.Seconds())
	}
}

// ObserveHTTPRequest records a served request.
func ObserveHTTPRequest(method string, status int, duration time.Duration) {
	if httpRequestsTotal != nil {
		httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	}
	if httpRequestLatency != nil {
		httpRequestLatency.WithLabelValues(method).Observe(duration.Seconds())
	}
}

// Exported constants for callers.
const (
	ResultSuccess  = resultSuccess
	ResultError    = resultError
	ResultNotFound = resultNotFound
	ResultInvalid  = resultInvalid
)
