package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	billingapp "aidat-mock/internal/billing/application"
	billingrepo "aidat-mock/internal/billing/infrastructure/memory"
	billinginterfaces "aidat-mock/internal/billing/interfaces"
	billinghttp "aidat-mock/internal/billing/interfaces/http"
	"aidat-mock/internal/config"
	"aidat-mock/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("config error")
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	router, err := buildRouter(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("router error")
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(router, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("http shutdown error")
		}
	}()

	logger.WithFields(logrus.Fields{
		"addr":  cfg.HTTPAddr,
		"site":  cfg.Site.ID,
		"units": len(cfg.Site.Units),
	}).Info("http listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("http server error")
	}
}

func buildRouter(cfg config.Config, logger *logrus.Logger) (*mux.Router, error) {
	if cfg.MetricsEnabled {
		metrics.Init(prometheus.DefaultRegisterer)
	}

	periodRepo := billingrepo.NewPeriodRepository()
	invoiceRepo := billingrepo.NewInvoiceRepository()

	siteService, err := billingapp.NewSiteService(cfg.Site)
	if err != nil {
		return nil, err
	}
	publisher := billinginterfaces.NewLoggingPublisher(logger)
	periodService, err := billingapp.NewPeriodService(siteService, periodRepo, invoiceRepo,
		billingapp.WithRunPublisher(publisher), billingapp.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	paymentService, err := billingapp.NewPaymentService(invoiceRepo, billingapp.PaymentConfig{
		DefaultGateway: cfg.PaymentGateway,
		GatewayDomain:  cfg.PaymentDomain,
	})
	if err != nil {
		return nil, err
	}
	billingHandler, err := billinghttp.NewHandler(siteService, periodService, paymentService, logger)
	if err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	billingHandler.RegisterRoutes(router)
	if cfg.MetricsEnabled {
		router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	return router, nil
}

func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func loggingMiddleware(next http.Handler, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		elapsed := time.Since(start)
		metrics.ObserveHTTPRequest(r.Method, resp.status, elapsed)
		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   resp.status,
			"duration": elapsed.String(),
		}).Info("http request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
