// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"github.com/xmidt-org/tracekit/registry"
	"github.com/xmidt-org/tracekit/tracing"
)

// collector is a tracing.Collector assembled from a registry and a stack of
// layers.  Every callback fans out to the layers in the order given to
// NewCollector.
type collector struct {
	registry *registry.Registry
	layers   []Layer
}

var _ tracing.Collector = (*collector)(nil)
var _ tracing.ScopeLister = (*collector)(nil)
var _ tracing.ContextualEnabler = (*collector)(nil)

// NewCollector composes layers over a shared span registry into a collector
// suitable for tracing.SetGlobalDefault or tracing.WithCollector.
func NewCollector(reg *registry.Registry, layers ...Layer) tracing.Collector {
	return &collector{
		registry: reg,
		layers:   layers,
	}
}

func (c *collector) context() Context {
	return Context{registry: c.registry}
}

func (c *collector) RegisterCallsite(meta *tracing.Metadata) tracing.Interest {
	interest := tracing.InterestNever
	for _, l := range c.layers {
		interest = interest.Combine(l.RegisterCallsite(meta))
	}

	return interest
}

func (c *collector) Enabled(meta *tracing.Metadata) bool {
	ctx := c.context()
	for _, l := range c.layers {
		if l.Enabled(meta, ctx) {
			return true
		}
	}

	return false
}

func (c *collector) NewSpan(attrs *tracing.Attributes) tracing.ID {
	id := c.registry.NewSpan(attrs)

	// layers see the new span's parent as current, so per-layer filters
	// reach the same decision EnabledFor made for this span
	ctx := c.context().withCurrent(attrs.Parent)
	for _, l := range c.layers {
		l.OnNewSpan(attrs, id, ctx)
	}

	return id
}

func (c *collector) Record(id tracing.ID, r *tracing.Record) {
	ctx := c.context()
	for _, l := range c.layers {
		l.OnRecord(id, r, ctx)
	}
}

func (c *collector) RecordFollowsFrom(span, follows tracing.ID) {
	ctx := c.context()
	for _, l := range c.layers {
		l.OnFollowsFrom(span, follows, ctx)
	}
}

// EnabledFor augments Enabled with the contextual parent span, so filters
// whose directives depend on the enclosing scope can consult it.
func (c *collector) EnabledFor(meta *tracing.Metadata, parent tracing.ID) bool {
	ctx := c.context().withCurrent(parent)
	for _, l := range c.layers {
		if l.Enabled(meta, ctx) {
			return true
		}
	}

	return false
}

func (c *collector) Event(e *tracing.Event) {
	ctx := c.context().withCurrent(e.Parent)
	for _, l := range c.layers {
		l.OnEvent(e, ctx)
	}
}

func (c *collector) Enter(id tracing.ID) {
	ctx := c.context()
	for _, l := range c.layers {
		l.OnEnter(id, ctx)
	}
}

func (c *collector) Exit(id tracing.ID) {
	ctx := c.context()
	for _, l := range c.layers {
		l.OnExit(id, ctx)
	}
}

func (c *collector) CloneSpan(id tracing.ID) tracing.ID {
	return c.registry.Clone(id)
}

func (c *collector) TryClose(id tracing.ID) bool {
	data, closed := c.registry.Release(id)
	if !closed {
		return false
	}

	ctx := c.context().withClosing(data)
	for _, l := range c.layers {
		l.OnClose(id, ctx)
	}

	c.registry.Free(id)
	return true
}

// SpanScope supports tracing.CaptureError by enumerating the metadata of a
// live span's scope.
func (c *collector) SpanScope(id tracing.ID) []*tracing.Metadata {
	scope := c.context().Scope(id)
	metas := make([]*tracing.Metadata, 0, len(scope))
	for _, data := range scope {
		metas = append(metas, data.Metadata())
	}

	return metas
}
