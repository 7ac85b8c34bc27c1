package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"aidat-mock/internal/billing/application"
	billing "aidat-mock/internal/billing/domain"
	"aidat-mock/internal/observability/metrics"
)

const (
	detailSiteNotFound    = "Site bulunamadı"
	detailPeriodNotFound  = "Dönem bulunamadı"
	detailInvoiceNotFound = "Fatura bulunamadı"
)

// Handler serves the site, period and invoice endpoints.
type Handler struct {
	sites    *application.SiteService
	periods  *application.PeriodService
	payments *application.PaymentService
	logger   logrus.FieldLogger
}

// NewHandler constructs a handler.
func NewHandler(sites *application.SiteService, periods *application.PeriodService, payments *application.PaymentService, logger logrus.FieldLogger) (*Handler, error) {
	if sites == nil {
		return nil, errors.New("billing handler: nil site service")
	}
	if periods == nil {
		return nil, errors.New("billing handler: nil period service")
	}
	if payments == nil {
		return nil, errors.New("billing handler: nil payment service")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{sites: sites, periods: periods, payments: payments, logger: logger}, nil
}

// RegisterRoutes registers billing routes.
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/sites/{site_id}", h.getSite).Methods(http.MethodGet)
	router.HandleFunc("/sites/{site_id}/periods", h.listPeriods).Methods(http.MethodGet)
	router.HandleFunc("/sites/{site_id}/periods", h.upsertPeriod).Methods(http.MethodPost)
	router.HandleFunc("/sites/{site_id}/periods/{period_id}", h.getPeriod).Methods(http.MethodGet)
	router.HandleFunc("/sites/{site_id}/periods/{period_id}/invoices", h.listPeriodInvoices).Methods(http.MethodGet)
	router.HandleFunc("/sites/{site_id}/periods/{period_id}/run", h.runPeriod).Methods(http.MethodPost)
	router.HandleFunc("/sites/{site_id}/periods/{period_id}/publish", h.publishPeriod).Methods(http.MethodPost)
	router.HandleFunc("/sites/{site_id}/invoices/{invoice_id}", h.getInvoice).Methods(http.MethodGet)
	router.HandleFunc("/sites/{site_id}/invoices/{invoice_id}", h.markInvoice).Methods(http.MethodPut)
	router.HandleFunc("/sites/{site_id}/invoices/{invoice_id}/payments", h.createPayment).Methods(http.MethodPost)
	router.HandleFunc("/sites/{site_id}/invoices/{invoice_id}/export.pdf", h.exportInvoicePDF).Methods(http.MethodGet)
	router.HandleFunc("/sites/{site_id}/invoices/{invoice_id}/export.xlsx", h.exportInvoiceXLSX).Methods(http.MethodGet)
}

// getSite handles GET /sites/{site_id}
func (h *Handler) getSite(w http.ResponseWriter, r *http.Request) {
	site, err := h.sites.Get(r.Context(), mux.Vars(r)["site_id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

// listPeriods handles GET /sites/{site_id}/periods
func (h *Handler) listPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.periods.List(r.Context(), mux.Vars(r)["site_id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

// upsertPeriod handles POST /sites/{site_id}/periods
func (h *Handler) upsertPeriod(w http.ResponseWriter, r *http.Request) {
	var req upsertPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	cmd, err := req.command()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	period, err := h.periods.Upsert(r.Context(), mux.Vars(r)["site_id"], cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

// getPeriod handles GET /sites/{site_id}/periods/{period_id}
func (h *Handler) getPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.periods.Get(r.Context(), mux.Vars(r)["period_id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

// listPeriodInvoices handles GET /sites/{site_id}/periods/{period_id}/invoices
func (h *Handler) listPeriodInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.periods.Invoices(r.Context(), mux.Vars(r)["period_id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// runPeriod handles POST /sites/{site_id}/periods/{period_id}/run
func (h *Handler) runPeriod(w http.ResponseWriter, r *http.Request) {
	var req runPeriodRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	cmd, err := req.command()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	vars := mux.Vars(r)
	invoices, err := h.periods.Run(r.Context(), vars["site_id"], vars["period_id"], cmd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// publishPeriod handles POST /sites/{site_id}/periods/{period_id}/publish
func (h *Handler) publishPeriod(w http.ResponseWriter, r *http.Request) {
	period, err := h.periods.Publish(r.Context(), mux.Vars(r)["period_id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

// getInvoice handles GET /sites/{site_id}/invoices/{invoice_id}
func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.payments.Invoice(r.Context(), mux.Vars(r)["invoice_id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// markInvoice handles PUT /sites/{site_id}/invoices/{invoice_id}
func (h *Handler) markInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	status := billing.PaymentStatusPaid
	if req.Status != nil {
		status = *req.Status
	}
	stored, err := h.payments.MarkPaid(r.Context(), mux.Vars(r)["invoice_id"], status)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoiceStatusResponse{Status: stored})
}

// createPayment handles POST /sites/{site_id}/invoices/{invoice_id}/payments
func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}
	intent, err := h.payments.CreateIntent(r.Context(), mux.Vars(r)["invoice_id"], req.Gateway)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

// exportInvoicePDF handles GET /sites/{site_id}/invoices/{invoice_id}/export.pdf
func (h *Handler) exportInvoicePDF(w http.ResponseWriter, r *http.Request) {
	h.exportInvoice(w, r, "pdf", "application/pdf", BuildInvoicePDF)
}

// exportInvoiceXLSX handles GET /sites/{site_id}/invoices/{invoice_id}/export.xlsx
func (h *Handler) exportInvoiceXLSX(w http.ResponseWriter, r *http.Request) {
	h.exportInvoice(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", BuildInvoiceXLSX)
}

func (h *Handler) exportInvoice(w http.ResponseWriter, r *http.Request, format, contentType string, build func(*billing.Invoice) ([]byte, error)) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveInvoiceExport(format, result, time.Since(start))
	}()

	invoice, err := h.payments.Invoice(r.Context(), mux.Vars(r)["invoice_id"])
	if err != nil {
		result = metrics.ResultNotFound
		h.respondError(w, r, err)
		return
	}
	data, err := build(invoice)
	if err != nil {
		result = metrics.ResultError
		h.logger.WithError(err).WithFields(logrus.Fields{
			"invoice_id": invoice.ID,
			"format":     format,
		}).Error("invoice export failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "export " + format + " error"})
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+invoice.ID+`.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, billing.ErrSiteNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: detailSiteNotFound})
	case errors.Is(err, billing.ErrPeriodNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: detailPeriodNotFound})
	case errors.Is(err, billing.ErrInvoiceNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: detailInvoiceNotFound})
	case errors.Is(err, billing.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
	default:
		h.logger.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("billing request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Detail: "internal error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
