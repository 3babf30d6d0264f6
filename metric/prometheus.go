package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/salvo"
)

const namespace = "salvo"

var _ salvo.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements salvo.MetricsCollector with Prometheus
// counters and histograms.
type PrometheusCollector struct {
	latency     *prometheus.HistogramVec
	operations  *prometheus.CounterVec
	records     prometheus.Counter
	matches     prometheus.Counter
	builtBoards prometheus.Counter
	builtBytes  prometheus.Counter
	lastMatches prometheus.Gauge
}

// NewPrometheusCollector creates the collector and registers its metrics
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of engine operations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"op"}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Engine operations by outcome.",
		}, []string{"op", "status"}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_records_total",
			Help:      "Stored boards scanned by queries.",
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_matches_total",
			Help:      "Boards consistent with query observations.",
		}),
		builtBoards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_boards_total",
			Help:      "Boards written by dataset builds.",
		}),
		builtBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_bytes_total",
			Help:      "Stored bytes written by dataset builds.",
		}),
		lastMatches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "query_last_matches",
			Help:      "Match count of the most recent successful query.",
		}),
	}

	reg.MustRegister(c.latency, c.operations, c.records, c.matches, c.builtBoards, c.builtBytes, c.lastMatches)
	return c
}

func (c *PrometheusCollector) observe(op string, d time.Duration, err error) {
	c.latency.WithLabelValues(op).Observe(d.Seconds())
	status := "ok"
	if err != nil {
		status = salvo.StatusOf(err).String()
	}
	c.operations.WithLabelValues(op, status).Inc()
}

// RecordQuery implements salvo.MetricsCollector.
func (c *PrometheusCollector) RecordQuery(records, matches uint64, d time.Duration, err error) {
	c.observe("query", d, err)
	if err != nil {
		return
	}
	c.records.Add(float64(records))
	c.matches.Add(float64(matches))
	c.lastMatches.Set(float64(matches))
}

// RecordBuild implements salvo.MetricsCollector.
func (c *PrometheusCollector) RecordBuild(count uint64, size int64, d time.Duration, err error) {
	c.observe("build", d, err)
	if err != nil {
		return
	}
	c.builtBoards.Add(float64(count))
	c.builtBytes.Add(float64(size))
}

// RecordVerify implements salvo.MetricsCollector.
func (c *PrometheusCollector) RecordVerify(d time.Duration, err error) {
	c.observe("verify", d, err)
}
