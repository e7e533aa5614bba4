package spanmetrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/tracekit/clock"
	"github.com/xmidt-org/tracekit/layer"
	"github.com/xmidt-org/tracekit/registry"
	"github.com/xmidt-org/tracekit/tracing"
)

type stepClock struct {
	lock sync.Mutex
	now  time.Time
}

var _ clock.Interface = (*stepClock)(nil)

func (s *stepClock) Now() time.Time {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.now
}

func (s *stepClock) Advance(d time.Duration) {
	s.lock.Lock()
	s.now = s.now.Add(d)
	s.lock.Unlock()
}

func (s *stepClock) Sleep(time.Duration)                  { panic("unexpected Sleep") }
func (s *stepClock) NewTicker(time.Duration) clock.Ticker { panic("unexpected NewTicker") }
func (s *stepClock) NewTimer(time.Duration) clock.Timer   { panic("unexpected NewTimer") }

func newTestLayer(t *testing.T) (tracing.Collector, *metricsLayer, *stepClock, *prometheus.Registry) {
	var (
		registerer = prometheus.NewPedanticRegistry()
		sc         = &stepClock{now: time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC)}
	)

	l, err := New(&Options{Registerer: registerer, Clock: sc})
	require.NoError(t, err)

	return layer.NewCollector(registry.New(), l), l.(*metricsLayer), sc, registerer
}

func TestNewRegistrationConflict(t *testing.T) {
	registerer := prometheus.NewPedanticRegistry()

	_, err := New(&Options{Registerer: registerer})
	require.NoError(t, err)

	_, err = New(&Options{Registerer: registerer})
	assert.Error(t, err)
}

func TestSpanDuration(t *testing.T) {
	assert := assert.New(t)

	c, _, sc, registerer := newTestLayer(t)

	id := c.NewSpan(&tracing.Attributes{
		Metadata: &tracing.Metadata{Name: "handler", Target: "mypkg", Kind: tracing.KindSpan},
	})

	sc.Advance(250 * time.Millisecond)
	assert.True(c.TryClose(id))

	count := testutil.CollectAndCount(registerer, "tracing_spans_span_duration_seconds")
	assert.Equal(1, count)
}

func TestEventCounts(t *testing.T) {
	assert := assert.New(t)

	c, ml, _, _ := newTestLayer(t)

	for i := 0; i < 3; i++ {
		c.Event(&tracing.Event{
			Metadata: &tracing.Metadata{Level: tracing.LevelInfo, Target: "mypkg", Kind: tracing.KindEvent},
			Message:  "hello",
		})
	}

	c.Event(&tracing.Event{
		Metadata: &tracing.Metadata{Level: tracing.LevelError, Target: "mypkg", Kind: tracing.KindEvent},
		Message:  "boom",
	})

	assert.Equal(float64(3), testutil.ToFloat64(ml.events.WithLabelValues("info", "mypkg")))
	assert.Equal(float64(1), testutil.ToFloat64(ml.events.WithLabelValues("error", "mypkg")))
}

func TestFieldDrivenMetrics(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	c, ml, _, _ := newTestLayer(t)

	id := c.NewSpan(&tracing.Attributes{
		Metadata: &tracing.Metadata{Name: "pool", Kind: tracing.KindSpan},
		Fields: []tracing.Field{
			tracing.Int("counter.connections", 2),
			tracing.Int("gauge.queue_depth", 7),
		},
	})

	c.Record(id, &tracing.Record{
		Fields: []tracing.Field{
			tracing.Int("counter.connections", 3),
			tracing.Int("gauge.queue_depth", 4),
		},
	})

	c.Event(&tracing.Event{
		Metadata: &tracing.Metadata{Level: tracing.LevelInfo, Kind: tracing.KindEvent},
		Fields:   []tracing.Field{tracing.Int("counter.requests", 1)},
	})

	require.Contains(ml.counters, "connections")
	assert.Equal(float64(5), testutil.ToFloat64(ml.counters["connections"]))
	assert.Equal(float64(4), testutil.ToFloat64(ml.gauges["queue_depth"]))
	assert.Equal(float64(1), testutil.ToFloat64(ml.counters["requests"]))

	// negative counter increments and non-numeric values are ignored
	c.Record(id, &tracing.Record{
		Fields: []tracing.Field{
			tracing.Int("counter.connections", -10),
			tracing.String("gauge.queue_depth", "not a number"),
		},
	})

	assert.Equal(float64(5), testutil.ToFloat64(ml.counters["connections"]))
	assert.Equal(float64(4), testutil.ToFloat64(ml.gauges["queue_depth"]))
}
