package layer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/tracekit/registry"
	"github.com/xmidt-org/tracekit/tracing"
)

func TestLevelFilter(t *testing.T) {
	var (
		assert = assert.New(t)
		f      = LevelFilter(tracing.LevelWarn)
	)

	warn := &tracing.Metadata{Level: tracing.LevelWarn}
	info := &tracing.Metadata{Level: tracing.LevelInfo}

	assert.True(f.Enabled(warn, Context{}))
	assert.False(f.Enabled(info, Context{}))
	assert.Equal(tracing.InterestAlways, f.CallsiteEnabled(warn))
	assert.Equal(tracing.InterestNever, f.CallsiteEnabled(info))
	assert.Equal(tracing.LevelFilter(tracing.LevelWarn), f.MaxLevelHint())
}

func TestFilterFn(t *testing.T) {
	var (
		assert = assert.New(t)
		f      = FilterFn(func(meta *tracing.Metadata) bool {
			return meta.Target == "wanted"
		})
	)

	assert.True(f.Enabled(&tracing.Metadata{Target: "wanted"}, Context{}))
	assert.False(f.Enabled(&tracing.Metadata{Target: "other"}, Context{}))
	assert.Equal(tracing.InterestSometimes, f.CallsiteEnabled(&tracing.Metadata{}))
}

func TestWithFilterIsolatesSiblings(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		filteredLayer = newRecordingLayer()
		sibling       = newRecordingLayer()

		collector = NewCollector(
			registry.New(),
			WithFilter(filteredLayer, LevelFilter(tracing.LevelError)),
			sibling,
		)
		ctx = tracing.WithCollector(context.Background(), collector)
	)

	spanCtx, span := tracing.StartSpan(ctx, "op") // INFO: rejected by the filter
	require.False(span.Disabled(), "the sibling layer must keep the span enabled")

	tracing.Info(spanCtx, "quiet")
	tracing.Error(spanCtx, "loud")
	span.Record(tracing.Int("n", 1))
	span.End()

	// the filtered layer sees only the ERROR event; span callbacks for the
	// rejected span are suppressed
	assert.Equal([]string{"event:loud"}, filteredLayer.Callbacks())

	// the sibling sees everything
	assert.Equal(
		[]string{"new:op", "enter", "event:quiet", "event:loud", "record", "exit", "close"},
		sibling.Callbacks(),
	)
}

func TestWithFilterAcceptedSpans(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		filteredLayer = newRecordingLayer()
		collector     = NewCollector(
			registry.New(),
			WithFilter(filteredLayer, LevelFilter(tracing.LevelInfo)),
		)
		ctx = tracing.WithCollector(context.Background(), collector)
	)

	_, span := tracing.StartSpan(ctx, "kept", tracing.WithLevel(tracing.LevelWarn))
	require.False(span.Disabled())
	span.End()

	assert.Equal([]string{"new:kept", "enter", "exit", "close"}, filteredLayer.Callbacks())
}

func TestWithFilterInterest(t *testing.T) {
	var (
		assert = assert.New(t)
		inner  = newRecordingLayer()
	)

	fl := WithFilter(inner, LevelFilter(tracing.LevelWarn))

	warn := &tracing.Metadata{Level: tracing.LevelWarn}
	info := &tracing.Metadata{Level: tracing.LevelInfo}

	assert.Equal(tracing.InterestAlways, fl.RegisterCallsite(warn))
	assert.Equal(tracing.InterestNever, fl.RegisterCallsite(info))

	inner.interest = tracing.InterestSometimes
	assert.Equal(tracing.InterestSometimes, fl.RegisterCallsite(warn))
}
