// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package mocktracing

import (
	"sync"
	"sync/atomic"

	"github.com/xmidt-org/tracekit/tracing"
)

// SpanRecord is one span observed by a CaptureCollector, assembled from the
// span's creation attributes and any subsequently recorded fields.
type SpanRecord struct {
	ID       tracing.ID
	Metadata *tracing.Metadata
	Parent   tracing.ID
	Fields   []tracing.Field
	Closed   bool
	Entered  int
	Exited   int
}

// CaptureCollector is a tracing.Collector which enables everything and
// records dispatched spans and events for test assertions, in the spirit of
// a capturing test logger.  Events are additionally delivered on a buffered
// channel for tests that need to block until dispatch occurs.
type CaptureCollector struct {
	lock   sync.Mutex
	nextID atomic.Uint64
	spans  map[tracing.ID]*SpanRecord
	order  []tracing.ID
	events []*tracing.Event
	output chan *tracing.Event
}

var _ tracing.Collector = (*CaptureCollector)(nil)
var _ tracing.ScopeLister = (*CaptureCollector)(nil)

func NewCapture() *CaptureCollector {
	return &CaptureCollector{
		spans:  make(map[tracing.ID]*SpanRecord),
		output: make(chan *tracing.Event, 100),
	}
}

// Output returns the channel on which each dispatched event is delivered.
func (c *CaptureCollector) Output() <-chan *tracing.Event {
	return c.output
}

// Events returns all events dispatched so far.
func (c *CaptureCollector) Events() []*tracing.Event {
	c.lock.Lock()
	defer c.lock.Unlock()

	events := make([]*tracing.Event, len(c.events))
	copy(events, c.events)
	return events
}

// Spans returns all spans observed so far, in creation order.
func (c *CaptureCollector) Spans() []*SpanRecord {
	c.lock.Lock()
	defer c.lock.Unlock()

	spans := make([]*SpanRecord, 0, len(c.order))
	for _, id := range c.order {
		spans = append(spans, c.spans[id])
	}

	return spans
}

// Span returns the record for a given ID, or nil.
func (c *CaptureCollector) Span(id tracing.ID) *SpanRecord {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.spans[id]
}

func (c *CaptureCollector) RegisterCallsite(*tracing.Metadata) tracing.Interest {
	return tracing.InterestAlways
}

func (c *CaptureCollector) Enabled(*tracing.Metadata) bool {
	return true
}

func (c *CaptureCollector) NewSpan(attrs *tracing.Attributes) tracing.ID {
	id := tracing.ID(c.nextID.Add(1))

	c.lock.Lock()
	defer c.lock.Unlock()

	c.spans[id] = &SpanRecord{
		ID:       id,
		Metadata: attrs.Metadata,
		Parent:   attrs.Parent,
		Fields:   append([]tracing.Field{}, attrs.Fields...),
	}

	c.order = append(c.order, id)
	return id
}

func (c *CaptureCollector) Record(id tracing.ID, r *tracing.Record) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if s := c.spans[id]; s != nil {
		s.Fields = append(s.Fields, r.Fields...)
	}
}

func (c *CaptureCollector) RecordFollowsFrom(span, follows tracing.ID) {}

func (c *CaptureCollector) Event(e *tracing.Event) {
	c.lock.Lock()
	c.events = append(c.events, e)
	c.lock.Unlock()

	select {
	case c.output <- e:
	default:
	}
}

func (c *CaptureCollector) Enter(id tracing.ID) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if s := c.spans[id]; s != nil {
		s.Entered++
	}
}

func (c *CaptureCollector) Exit(id tracing.ID) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if s := c.spans[id]; s != nil {
		s.Exited++
	}
}

func (c *CaptureCollector) CloneSpan(id tracing.ID) tracing.ID {
	return id
}

func (c *CaptureCollector) TryClose(id tracing.ID) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	if s := c.spans[id]; s != nil && !s.Closed {
		s.Closed = true
		return true
	}

	return false
}

// SpanScope walks parent links from the given span to the root.
func (c *CaptureCollector) SpanScope(id tracing.ID) []*tracing.Metadata {
	c.lock.Lock()
	defer c.lock.Unlock()

	var scope []*tracing.Metadata
	for s := c.spans[id]; s != nil; s = c.spans[s.Parent] {
		scope = append(scope, s.Metadata)
	}

	return scope
}
