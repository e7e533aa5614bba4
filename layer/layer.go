// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"github.com/xmidt-org/tracekit/registry"
	"github.com/xmidt-org/tracekit/tracing"
)

// Layer is one composable unit of collector behavior.  Embed Base to pick up
// default implementations of the callbacks a layer does not care about.
type Layer interface {
	// RegisterCallsite reports this layer's standing interest in an
	// instrumentation point.
	RegisterCallsite(*tracing.Metadata) tracing.Interest

	// Enabled votes on whether a span or event should be dispatched.  The
	// composed collector dispatches when any layer votes yes.
	Enabled(*tracing.Metadata, Context) bool

	// OnNewSpan observes span creation.  Per-span state should be stored in
	// the span's extensions, keyed by a type owned by the layer.
	OnNewSpan(*tracing.Attributes, tracing.ID, Context)

	// OnRecord observes fields recorded after span creation.
	OnRecord(tracing.ID, *tracing.Record, Context)

	// OnFollowsFrom observes causal links between spans.
	OnFollowsFrom(span, follows tracing.ID, ctx Context)

	// OnEvent observes an event.
	OnEvent(*tracing.Event, Context)

	// OnEnter observes a span becoming active.
	OnEnter(tracing.ID, Context)

	// OnExit observes a span becoming inactive.
	OnExit(tracing.ID, Context)

	// OnClose observes the final close of a span.  The span's data is still
	// readable through the Context during this callback.
	OnClose(tracing.ID, Context)
}

// Base provides default no-op implementations of every Layer callback, with
// RegisterCallsite and Enabled defaulting to fully enabled.
type Base struct{}

var _ Layer = Base{}

func (Base) RegisterCallsite(*tracing.Metadata) tracing.Interest {
	return tracing.InterestAlways
}

func (Base) Enabled(*tracing.Metadata, Context) bool             { return true }
func (Base) OnNewSpan(*tracing.Attributes, tracing.ID, Context)  {}
func (Base) OnRecord(tracing.ID, *tracing.Record, Context)       {}
func (Base) OnFollowsFrom(span, follows tracing.ID, ctx Context) {}
func (Base) OnEvent(*tracing.Event, Context)                     {}
func (Base) OnEnter(tracing.ID, Context)                         {}
func (Base) OnExit(tracing.ID, Context)                          {}
func (Base) OnClose(tracing.ID, Context)                         {}

// Context gives layers access to the shared span registry during callbacks.
type Context struct {
	registry *registry.Registry
	closing  *registry.SpanData
	current  tracing.ID
}

// Span resolves a live span's data, or nil.  During OnClose, the closing
// span itself is still resolvable even though it is no longer live.
func (c Context) Span(id tracing.ID) *registry.SpanData {
	if c.closing != nil && c.closing.ID() == id {
		return c.closing
	}

	if c.registry == nil {
		return nil
	}

	return c.registry.Get(id)
}

// Scope returns the span and its ancestors, leaf to root.  A zero or stale
// id yields nil.
func (c Context) Scope(id tracing.ID) []*registry.SpanData {
	if data := c.Span(id); data != nil {
		return data.Scope()
	}

	return nil
}

// EventScope returns the scope of the event's parent span.
func (c Context) EventScope(e *tracing.Event) []*registry.SpanData {
	return c.Scope(e.Parent)
}

// CurrentScope returns the scope of the span the current operation is
// occurring within: the parent of the event being dispatched, or the parent
// of the span whose enablement is being decided.  Empty outside of those
// operations or for root operations.
func (c Context) CurrentScope() []*registry.SpanData {
	return c.Scope(c.current)
}

func (c Context) withClosing(data *registry.SpanData) Context {
	c.closing = data
	return c
}

func (c Context) withCurrent(id tracing.ID) Context {
	c.current = id
	return c
}
