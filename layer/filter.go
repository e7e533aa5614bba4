// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package layer

import "github.com/xmidt-org/tracekit/tracing"

// Filter gates what a single layer sees.  Filters are attached to layers
// with WithFilter; a filtered layer's decisions do not affect its siblings.
type Filter interface {
	// Enabled decides whether the filtered layer sees a span or event.
	Enabled(*tracing.Metadata, Context) bool

	// CallsiteEnabled reports the filter's standing interest in an
	// instrumentation point.  Filters whose decisions depend on dynamic
	// state should return InterestSometimes.
	CallsiteEnabled(*tracing.Metadata) tracing.Interest

	// MaxLevelHint returns the most verbose level this filter could ever
	// enable, allowing the composed collector to skip work entirely.
	MaxLevelHint() tracing.LevelFilter
}

// FilterFn adapts a plain predicate to the Filter interface.  The resulting
// filter is dynamic: callsites are never cached as enabled or disabled.
type FilterFn func(*tracing.Metadata) bool

var _ Filter = FilterFn(nil)

func (f FilterFn) Enabled(meta *tracing.Metadata, _ Context) bool {
	return f(meta)
}

func (f FilterFn) CallsiteEnabled(*tracing.Metadata) tracing.Interest {
	return tracing.InterestSometimes
}

func (f FilterFn) MaxLevelHint() tracing.LevelFilter {
	return tracing.LevelFilter(tracing.LevelTrace)
}

// LevelFilter is a Filter admitting everything at or above a verbosity
// floor.
type LevelFilter tracing.LevelFilter

var _ Filter = LevelFilter(0)

func (f LevelFilter) Enabled(meta *tracing.Metadata, _ Context) bool {
	return tracing.LevelFilter(f).Enables(meta.Level)
}

func (f LevelFilter) CallsiteEnabled(meta *tracing.Metadata) tracing.Interest {
	if tracing.LevelFilter(f).Enables(meta.Level) {
		return tracing.InterestAlways
	}

	return tracing.InterestNever
}

func (f LevelFilter) MaxLevelHint() tracing.LevelFilter {
	return tracing.LevelFilter(f)
}

// filtered is a Layer wrapper gating an inner layer with a Filter.  The
// per-span enablement decision is made once at span creation and stashed in
// the span's extensions, so that later span callbacks agree with it.
type filtered struct {
	inner  Layer
	filter Filter
}

// WithFilter gates a layer with a filter.  Spans and events the filter
// rejects are invisible to the wrapped layer but still reach sibling
// layers.
func WithFilter(l Layer, f Filter) Layer {
	return &filtered{inner: l, filter: f}
}

func (fl *filtered) RegisterCallsite(meta *tracing.Metadata) tracing.Interest {
	fi := fl.filter.CallsiteEnabled(meta)
	if fi == tracing.InterestNever {
		return tracing.InterestNever
	}

	li := fl.inner.RegisterCallsite(meta)
	if li < fi {
		return li
	}

	return fi
}

func (fl *filtered) Enabled(meta *tracing.Metadata, ctx Context) bool {
	return fl.filter.Enabled(meta, ctx) && fl.inner.Enabled(meta, ctx)
}

func (fl *filtered) OnNewSpan(attrs *tracing.Attributes, id tracing.ID, ctx Context) {
	enabled := fl.filter.Enabled(attrs.Metadata, ctx)
	if data := ctx.Span(id); data != nil {
		data.Extensions().Set(fl, enabled)
	}

	if enabled {
		fl.inner.OnNewSpan(attrs, id, ctx)
	}
}

func (fl *filtered) spanEnabled(id tracing.ID, ctx Context) bool {
	data := ctx.Span(id)
	if data == nil {
		return false
	}

	enabled, _ := data.Extensions().Get(fl).(bool)
	return enabled
}

func (fl *filtered) OnRecord(id tracing.ID, r *tracing.Record, ctx Context) {
	if fl.spanEnabled(id, ctx) {
		fl.inner.OnRecord(id, r, ctx)
	}
}

func (fl *filtered) OnFollowsFrom(span, follows tracing.ID, ctx Context) {
	if fl.spanEnabled(span, ctx) {
		fl.inner.OnFollowsFrom(span, follows, ctx)
	}
}

func (fl *filtered) OnEvent(e *tracing.Event, ctx Context) {
	if fl.filter.Enabled(e.Metadata, ctx) {
		fl.inner.OnEvent(e, ctx)
	}
}

func (fl *filtered) OnEnter(id tracing.ID, ctx Context) {
	if fl.spanEnabled(id, ctx) {
		fl.inner.OnEnter(id, ctx)
	}
}

func (fl *filtered) OnExit(id tracing.ID, ctx Context) {
	if fl.spanEnabled(id, ctx) {
		fl.inner.OnExit(id, ctx)
	}
}

func (fl *filtered) OnClose(id tracing.ID, ctx Context) {
	if fl.spanEnabled(id, ctx) {
		fl.inner.OnClose(id, ctx)
	}
}
