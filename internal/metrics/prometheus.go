package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Metrics holds all Prometheus metrics for a distribution run
type Metrics struct {
	registry *prometheus.Registry

	// Transfer counters
	Attempts            prometheus.Counter
	Retries             prometheus.Counter
	TransfersConfirmed  prometheus.Counter
	TransfersFailed     prometheus.Counter
	DestinationsSkipped prometheus.Counter
	AccountsSkipped     *prometheus.CounterVec
	LamportsSent        prometheus.Counter

	// Confirmation latency (buckets: 0.5s, 1s, 2s, 5s, 10s, 30s, 60s)
	ConfirmLatency prometheus.Histogram

	// Run state
	RentExemptMinimum prometheus.Gauge
	Destinations      prometheus.Gauge

	// Pipeline stage duration histogram
	StageDuration *prometheus.HistogramVec

	// HTTP server
	server *http.Server
	logger zerolog.Logger
	mu     sync.Mutex
}

// NewMetrics creates a Metrics instance backed by its own registry
func NewMetrics(namespace string, logger zerolog.Logger) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		logger:   logger,
		Attempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_attempts_total",
			Help:      "Total number of transfer submissions including retries",
		}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfer_retries_total",
			Help:      "Total number of attempts after the first one",
		}),
		TransfersConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_confirmed_total",
			Help:      "Total number of transfers confirmed",
		}),
		TransfersFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_failed_total",
			Help:      "Total number of transfers that exhausted their attempts",
		}),
		DestinationsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "destinations_skipped_total",
			Help:      "Total number of destinations skipped for insufficient balance",
		}),
		AccountsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accounts_skipped_total",
			Help:      "Total number of source accounts skipped, by reason",
		}, []string{"reason"}),
		LamportsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lamports_sent_total",
			Help:      "Total lamports moved by confirmed transfers",
		}),
		ConfirmLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "confirm_latency_seconds",
			Help:      "Time from first submission to confirmation in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),
		RentExemptMinimum: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rent_exempt_minimum_lamports",
			Help:      "Rent-exempt minimum balance used for this run",
		}),
		Destinations: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "destinations",
			Help:      "Number of destination addresses generated for this run",
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 900},
		}, []string{"stage"}),
	}
}

// Registry returns the registry holding every metric of m
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Start starts the HTTP server for Prometheus metrics.
// The listener is bound before returning so port conflicts surface here.
func (m *Metrics) Start(_ context.Context, port int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server != nil {
		return fmt.Errorf("metrics server already running")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	m.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error().Err(err).Msg("metrics server error")
		}
	}(m.server)

	return nil
}

// Stop stops the HTTP server gracefully
func (m *Metrics) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.server == nil {
		return nil
	}

	err := m.server.Shutdown(ctx)
	m.server = nil
	return err
}

// IsRunning returns true if the metrics server is running
func (m *Metrics) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.server != nil
}

// RecordAttempt counts one submission; attempts after the first also count as retries
func (m *Metrics) RecordAttempt(attempt int) {
	m.Attempts.Inc()
	if attempt > 1 {
		m.Retries.Inc()
	}
}

// RecordConfirmed counts a confirmed transfer with its amount and latency
func (m *Metrics) RecordConfirmed(lamports uint64, latency time.Duration) {
	m.TransfersConfirmed.Inc()
	m.LamportsSent.Add(float64(lamports))
	m.ConfirmLatency.Observe(latency.Seconds())
}

// RecordFailed counts a transfer that exhausted its attempts
func (m *Metrics) RecordFailed() {
	m.TransfersFailed.Inc()
}

// RecordDestinationSkipped counts a destination skipped for insufficient balance
func (m *Metrics) RecordDestinationSkipped() {
	m.DestinationsSkipped.Inc()
}

// RecordAccountSkipped counts a skipped source account under reason
func (m *Metrics) RecordAccountSkipped(reason string) {
	m.AccountsSkipped.WithLabelValues(reason).Inc()
}

// SetRentExemptMinimum records the rent-exempt minimum in lamports
func (m *Metrics) SetRentExemptMinimum(lamports uint64) {
	m.RentExemptMinimum.Set(float64(lamports))
}

// SetDestinations records the number of generated destinations
func (m *Metrics) SetDestinations(n int) {
	m.Destinations.Set(float64(n))
}

// RecordStageDuration records the duration of a pipeline stage
func (m *Metrics) RecordStageDuration(stage string, duration time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}
