package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/tracekit/spanmetrics"
	"github.com/xmidt-org/tracekit/tracing"
)

func TestNewToFile(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		file = filepath.Join(t.TempDir(), "trace.log")
	)

	collector, guard, err := New(&Options{
		File:        file,
		Level:       "debug",
		NonBlocking: true,
	})

	require.NoError(err)
	require.NotNil(guard)

	ctx := tracing.WithCollector(context.Background(), collector)

	spanCtx, span := tracing.StartSpan(ctx, "request", tracing.WithFields(
		tracing.String("method", "GET"),
	))

	tracing.Debug(spanCtx, "handling")
	tracing.Trace(spanCtx, "too verbose")
	span.End()

	require.True(guard.Stop())

	contents, err := os.ReadFile(file)
	require.NoError(err)

	output := string(contents)
	assert.Contains(output, "msg=handling")
	assert.Contains(output, "span=request")
	assert.Contains(output, "method=GET")
	assert.NotContains(output, "too verbose")
}

func TestNewDefaultsToErrorLevel(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	collector, guard, err := New(nil)
	require.NoError(err)
	assert.Nil(guard)

	assert.False(collector.Enabled(&tracing.Metadata{Level: tracing.LevelInfo, Kind: tracing.KindEvent}))
	assert.True(collector.Enabled(&tracing.Metadata{Level: tracing.LevelError, Kind: tracing.KindEvent}))
}

func TestNewInvalidFilter(t *testing.T) {
	_, _, err := New(&Options{Filter: "%bogus%"})
	assert.Error(t, err)
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(&Options{Filter: "%bogus%"})
	})
}

func TestNewWithMetrics(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		registerer = prometheus.NewPedanticRegistry()
	)

	collector, guard, err := New(&Options{
		File:  filepath.Join(t.TempDir(), "trace.log"),
		Level: "info",
		Metrics: &spanmetrics.Options{
			Registerer: registerer,
		},
	})

	require.NoError(err)
	assert.Nil(guard)

	ctx := tracing.WithCollector(context.Background(), collector)
	tracing.Info(ctx, "hello")

	count := testutil.CollectAndCount(registerer, "tracing_spans_events_total")
	assert.Equal(1, count)
}

func TestFilterAccessor(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	f, err := Filter(&Options{Filter: "mypkg=debug"})
	require.NoError(err)
	assert.Equal(tracing.LevelFilter(tracing.LevelDebug), f.MaxLevelHint())
}
