// Package metrics defines the Prometheus collectors of the ledger service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	LedgerOperationsTotal   *prometheus.CounterVec
	LedgerOperationDuration *prometheus.HistogramVec
	BalanceRowsTouched      prometheus.Counter
	BalanceDriftPairs       prometheus.Gauge
}

// New creates the collectors on a fresh registry that also carries the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_http_requests_total",
				Help: "Total number of HTTP requests by route, method and status",
			},
			[]string{"path", "method", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		LedgerOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of ledger operations by type and outcome",
			},
			[]string{"operation", "outcome"},
		),
		LedgerOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Duration of ledger operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		BalanceRowsTouched: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_rows_touched_total",
			Help: "Number of account balance rows created or updated by incremental application",
		}),
		BalanceDriftPairs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_balance_drift_pairs",
			Help: "Number of (account, currency) pairs found drifting by the last verification",
		}),
	}
}

// ObserveOperation records the outcome and duration of a ledger operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.LedgerOperationsTotal.WithLabelValues(operation, outcome).Inc()
	m.LedgerOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// AddBalanceRows counts balance rows written by incremental application.
func (m *Metrics) AddBalanceRows(n int) {
	if m == nil {
		return
	}
	m.BalanceRowsTouched.Add(float64(n))
}

// SetDriftPairs publishes the size of the last drift report.
func (m *Metrics) SetDriftPairs(n int) {
	if m == nil {
		return
	}
	m.BalanceDriftPairs.Set(float64(n))
}

// RegisterDBPool exposes connection pool statistics.
func (m *Metrics) RegisterDBPool(pool *pgxpool.Pool) {
	if m == nil || pool == nil {
		return
	}
	factory := promauto.With(m.registry)
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ledger_db_connections_acquired",
		Help: "Number of currently acquired database connections",
	}, func() float64 { return float64(pool.Stat().AcquiredConns()) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ledger_db_connections_idle",
		Help: "Number of idle database connections",
	}, func() float64 { return float64(pool.Stat().IdleConns()) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ledger_db_connections_total",
		Help: "Total number of database connections in the pool",
	}, func() float64 { return float64(pool.Stat().TotalConns()) })
}

// Middleware records HTTP request counts and durations.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(path, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

// Gatherer exposes the registry, mainly for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
