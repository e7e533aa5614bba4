// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package spanmetrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cast"
	"github.com/xmidt-org/tracekit/clock"
	"github.com/xmidt-org/tracekit/layer"
	"github.com/xmidt-org/tracekit/tracing"
)

const (
	// CounterPrefix marks a field whose value should be added to a counter
	// named by the remainder of the field key.
	CounterPrefix = "counter."

	// GaugePrefix marks a field whose value should be set on a gauge named
	// by the remainder of the field key.
	GaugePrefix = "gauge."
)

// New produces a layer exporting trace activity through the configured
// registerer.  Registration failures, such as colliding metric names,
// surface here.
func New(o *Options) (layer.Layer, error) {
	ml := &metricsLayer{
		namespace:  o.namespace(),
		subsystem:  o.subsystem(),
		registerer: o.registerer(),
		clock:      o.clock(),
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),

		spanDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: o.namespace(),
				Subsystem: o.subsystem(),
				Name:      "span_duration_seconds",
				Help:      "span lifetime from creation to close",
				Buckets:   o.durationBuckets(),
			},
			[]string{"name", "target"},
		),

		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: o.namespace(),
				Subsystem: o.subsystem(),
				Name:      "events_total",
				Help:      "events observed, by level and target",
			},
			[]string{"level", "target"},
		),
	}

	for _, c := range []prometheus.Collector{ml.spanDuration, ml.events} {
		if err := ml.registerer.Register(c); err != nil {
			return nil, err
		}
	}

	return ml, nil
}

type metricsLayer struct {
	layer.Base

	namespace  string
	subsystem  string
	registerer prometheus.Registerer
	clock      clock.Interface

	spanDuration *prometheus.HistogramVec
	events       *prometheus.CounterVec

	lock     sync.Mutex
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
}

type startTimeKey struct{}

func (ml *metricsLayer) OnNewSpan(attrs *tracing.Attributes, id tracing.ID, ctx layer.Context) {
	if data := ctx.Span(id); data != nil {
		data.Extensions().Set(startTimeKey{}, ml.clock.Now())
	}

	ml.applyFields(attrs.Fields)
}

func (ml *metricsLayer) OnRecord(id tracing.ID, r *tracing.Record, ctx layer.Context) {
	ml.applyFields(r.Fields)
}

func (ml *metricsLayer) OnEvent(e *tracing.Event, ctx layer.Context) {
	ml.events.WithLabelValues(
		strings.ToLower(e.Metadata.Level.String()),
		e.Metadata.Target,
	).Inc()

	ml.applyFields(e.Fields)
}

func (ml *metricsLayer) OnClose(id tracing.ID, ctx layer.Context) {
	data := ctx.Span(id)
	if data == nil {
		return
	}

	start, ok := data.Extensions().Get(startTimeKey{}).(time.Time)
	if !ok {
		return
	}

	meta := data.Metadata()
	ml.spanDuration.
		WithLabelValues(meta.Name, meta.Target).
		Observe(ml.clock.Now().Sub(start).Seconds())
}

// applyFields updates counters and gauges named by specially prefixed
// fields.  Values that cannot be read as numbers are ignored.
func (ml *metricsLayer) applyFields(fields []tracing.Field) {
	for _, field := range fields {
		switch {
		case strings.HasPrefix(field.Key, CounterPrefix):
			value, err := cast.ToFloat64E(field.Value())
			if err == nil && value >= 0 {
				ml.counter(strings.TrimPrefix(field.Key, CounterPrefix)).Add(value)
			}

		case strings.HasPrefix(field.Key, GaugePrefix):
			if value, err := cast.ToFloat64E(field.Value()); err == nil {
				ml.gauge(strings.TrimPrefix(field.Key, GaugePrefix)).Set(value)
			}
		}
	}
}

var metricNameSanitizer = strings.NewReplacer(".", "_", "-", "_", "/", "_")

func (ml *metricsLayer) counter(name string) prometheus.Counter {
	ml.lock.Lock()
	defer ml.lock.Unlock()

	if c, ok := ml.counters[name]; ok {
		return c
	}

	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ml.namespace,
		Subsystem: ml.subsystem,
		Name:      metricNameSanitizer.Replace(name) + "_total",
		Help:      "field-driven counter " + name,
	})

	if err := ml.registerer.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Counter); ok {
				c = existing
			}
		}
	}

	ml.counters[name] = c
	return c
}

func (ml *metricsLayer) gauge(name string) prometheus.Gauge {
	ml.lock.Lock()
	defer ml.lock.Unlock()

	if g, ok := ml.gauges[name]; ok {
		return g
	}

	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: ml.namespace,
		Subsystem: ml.subsystem,
		Name:      metricNameSanitizer.Replace(name),
		Help:      "field-driven gauge " + name,
	})

	if err := ml.registerer.Register(g); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := already.ExistingCollector.(prometheus.Gauge); ok {
				g = existing
			}
		}
	}

	ml.gauges[name] = g
	return g
}
