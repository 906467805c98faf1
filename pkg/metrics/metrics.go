// Package metrics collects client-side request and scheduler metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector provides application metrics collection
type Collector struct {
	// Backend API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec

	// Refresh scheduler metrics
	SchedulerTicks *prometheus.CounterVec
}

// NewCollector registers the collector's vectors on reg. A nil reg gets a
// private registry so tests and repeated construction never collide.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of backend requests by endpoint, method, and status",
			},
			[]string{"endpoint", "method", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Backend request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"endpoint"},
		),

		ErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of failed backend requests by type",
			},
			[]string{"error_type", "endpoint"},
		),

		SchedulerTicks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scheduler_ticks_total",
				Help:      "Refresh timer ticks by timer and the loader they chose",
			},
			[]string{"timer", "loader"},
		),
	}
}

// RecordRequest records a finished backend request.
func (c *Collector) RecordRequest(endpoint, method, status string, duration time.Duration) {
	if c == nil {
		return
	}
	c.RequestsTotal.WithLabelValues(endpoint, method, status).Inc()
	c.RequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordError records a failed backend request.
func (c *Collector) RecordError(errorType, endpoint string) {
	if c == nil {
		return
	}
	c.ErrorsTotal.WithLabelValues(errorType, endpoint).Inc()
}

// RecordTick records a refresh timer firing.
func (c *Collector) RecordTick(timer, loader string) {
	if c == nil {
		return
	}
	c.SchedulerTicks.WithLabelValues(timer, loader).Inc()
}

// Serve exposes gatherer on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
