package salvo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// metric.PrometheusCollector exports them to Prometheus.
type MetricsCollector interface {
	// RecordQuery is called after each filter query.
	// records is the number of stored boards scanned, matches the number kept.
	RecordQuery(records, matches uint64, duration time.Duration, err error)

	// RecordBuild is called after each dataset build.
	// count is the number of boards written and size the stored bytes.
	RecordBuild(count uint64, size int64, duration time.Duration, err error)

	// RecordVerify is called after each dataset verification.
	RecordVerify(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordQuery(uint64, uint64, time.Duration, error) {}
func (NoopMetricsCollector) RecordBuild(uint64, int64, time.Duration, error)  {}
func (NoopMetricsCollector) RecordVerify(time.Duration, error)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryRecords    atomic.Uint64
	QueryMatches    atomic.Uint64
	QueryTotalNanos atomic.Int64
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildBoards     atomic.Uint64
	BuildBytes      atomic.Int64
	VerifyCount     atomic.Int64
	VerifyErrors    atomic.Int64
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(records, matches uint64, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
		return
	}
	b.QueryRecords.Add(records)
	b.QueryMatches.Add(matches)
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(count uint64, size int64, _ time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildBoards.Add(count)
	b.BuildBytes.Add(size)
}

// RecordVerify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVerify(_ time.Duration, err error) {
	b.VerifyCount.Add(1)
	if err != nil {
		b.VerifyErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		QueryCount:    b.QueryCount.Load(),
		QueryErrors:   b.QueryErrors.Load(),
		QueryRecords:  b.QueryRecords.Load(),
		QueryMatches:  b.QueryMatches.Load(),
		QueryAvgNanos: b.getAvgQueryNanos(),
		BuildCount:    b.BuildCount.Load(),
		BuildErrors:   b.BuildErrors.Load(),
		BuildBoards:   b.BuildBoards.Load(),
		BuildBytes:    b.BuildBytes.Load(),
		VerifyCount:   b.VerifyCount.Load(),
		VerifyErrors:  b.VerifyErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	QueryCount    int64
	QueryErrors   int64
	QueryRecords  uint64
	QueryMatches  uint64
	QueryAvgNanos int64
	BuildCount    int64
	BuildErrors   int64
	BuildBoards   uint64
	BuildBytes    int64
	VerifyCount   int64
	VerifyErrors  int64
}
