package metric

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/salvo"
	"github.com/hupe1980/salvo/blobstore"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	c.RecordQuery(100, 7, 5*time.Millisecond, nil)
	c.RecordQuery(40, 3, 2*time.Millisecond, nil)
	c.RecordQuery(0, 0, time.Millisecond, salvo.ErrStreamCorrupt)
	c.RecordBuild(10, 160, time.Second, nil)
	c.RecordVerify(time.Second, errors.New("boom"))

	assert.InDelta(t, 2, testutil.ToFloat64(c.operations.WithLabelValues("query", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.operations.WithLabelValues("query", "stream corrupt")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.operations.WithLabelValues("build", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.operations.WithLabelValues("verify", "source unavailable")), 0)
	assert.InDelta(t, 140, testutil.ToFloat64(c.records), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(c.matches), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(c.lastMatches), 0)
	assert.InDelta(t, 10, testutil.ToFloat64(c.builtBoards), 0)
	assert.InDelta(t, 160, testutil.ToFloat64(c.builtBytes), 0)
	assert.Equal(t, 3, testutil.CollectAndCount(c.latency))
}

func TestPrometheusCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusCollector(reg)
	assert.Panics(t, func() { NewPrometheusCollector(reg) })
}

func TestPrometheusCollector_Engine(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	c := NewPrometheusCollector(reg)

	eng := salvo.New(blobstore.NewMemoryStore(), salvo.WithMetricsCollector(c))
	m, err := eng.Build(ctx, "small.bin", salvo.BuildOptions{
		Grid:        salvo.Grid{Width: 4, Height: 4},
		Fleet:       []int{2, 2},
		Compression: "none",
	})
	require.NoError(t, err)

	_, err = eng.FilterAndCount(ctx, "small.bin", salvo.Mask{}, salvo.Mask{})
	require.NoError(t, err)

	assert.InDelta(t, float64(m.Count), testutil.ToFloat64(c.records), 0)
	assert.InDelta(t, float64(m.Count), testutil.ToFloat64(c.builtBoards), 0)

	n, err := testutil.GatherAndCount(reg, "salvo_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
