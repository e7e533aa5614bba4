// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	// nolint: typecheck
	"sync/atomic"
)

// Span is a handle to a named, nested period of execution.  Clients create
// spans via StartSpan and must call End exactly once per handle.  A disabled
// span (one the collector declined to enable) is represented by a handle
// with an invalid ID; all of its methods are cheap no-ops.
type Span struct {
	id        ID
	meta      *Metadata
	collector Collector
	entered   bool

	state uint32
}

type spanConfig struct {
	name     string
	target   string
	level    Level
	fields   []Field
	parent   ID
	newRoot  bool
	callsite *Callsite
}

// SpanOption configures a span at creation.
type SpanOption func(*spanConfig)

// WithLevel sets the span's verbosity level.  The default is LevelInfo.
func WithLevel(level Level) SpanOption {
	return func(c *spanConfig) {
		c.level = level
	}
}

// WithTarget sets the span's target, overriding the default derived from
// the caller's package.
func WithTarget(target string) SpanOption {
	return func(c *spanConfig) {
		c.target = target
	}
}

// WithFields records fields at span creation.
func WithFields(fields ...Field) SpanOption {
	return func(c *spanConfig) {
		c.fields = append(c.fields, fields...)
	}
}

// WithParent sets an explicit parent, overriding the contextual parent.
func WithParent(parent ID) SpanOption {
	return func(c *spanConfig) {
		c.parent = parent
	}
}

// WithNewRoot forces the span to be a root even when a contextual parent
// exists.
func WithNewRoot() SpanOption {
	return func(c *spanConfig) {
		c.newRoot = true
	}
}

// WithCallsite associates the span with a pre-registered Callsite.  The
// callsite's metadata wins over the name passed to StartSpan, and its cached
// interest is used to short-circuit the enablement check.
func WithCallsite(cs *Callsite) SpanOption {
	return func(c *spanConfig) {
		c.callsite = cs
	}
}

// StartSpan creates and enters a new span dispatched through the context's
// collector.  The returned context carries the span so that child spans and
// events nest under it.  The caller must call End on the returned span.
func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, *Span) {
	cfg := spanConfig{
		name:  name,
		level: LevelInfo,
	}

	for _, o := range opts {
		o(&cfg)
	}

	collector := CollectorFrom(ctx)

	parent := cfg.parent
	if !parent.Valid() && !cfg.newRoot {
		if contextual := SpanFromContext(ctx); contextual != nil {
			parent = contextual.ID()
		}
	}

	var meta *Metadata
	if cfg.callsite != nil {
		meta = cfg.callsite.Metadata()
		if !cfg.callsite.enabledFor(collector, parent) {
			return ctx, disabledSpan(meta, collector)
		}
	} else {
		target := cfg.target
		var file string
		var line int
		if len(target) == 0 {
			target, file, line = callerTarget(1)
		}

		meta = &Metadata{
			Name:   cfg.name,
			Target: target,
			Level:  cfg.level,
			Kind:   KindSpan,
			File:   file,
			Line:   line,
		}

		if !enabledFor(collector, meta, parent) {
			return ctx, disabledSpan(meta, collector)
		}
	}

	attrs := &Attributes{
		Metadata: meta,
		Parent:   parent,
		IsRoot:   cfg.newRoot,
		Fields:   cfg.fields,
	}

	s := &Span{
		id:        collector.NewSpan(attrs),
		meta:      meta,
		collector: collector,
		entered:   true,
	}

	collector.Enter(s.id)
	return ContextWithSpan(ctx, s), s
}

func disabledSpan(meta *Metadata, collector Collector) *Span {
	return &Span{meta: meta, collector: collector}
}

// ID returns the span's collector-assigned ID, which is invalid for
// disabled spans.
func (s *Span) ID() ID {
	if s == nil {
		return 0
	}

	return s.id
}

// Metadata returns the span's metadata, which is valid even for disabled
// spans.
func (s *Span) Metadata() *Metadata {
	if s == nil {
		return nil
	}

	return s.meta
}

// Disabled reports whether the collector declined to enable this span.
func (s *Span) Disabled() bool {
	return s == nil || !s.id.Valid()
}

// Record adds field values to the span after creation.
func (s *Span) Record(fields ...Field) {
	if s.Disabled() || len(fields) == 0 {
		return
	}

	s.collector.Record(s.id, &Record{Fields: fields})
}

// RecordError is shorthand for recording a non-nil error under ErrorKey.
func (s *Span) RecordError(err error) {
	if err != nil {
		s.Record(Err(err))
	}
}

// FollowsFrom notes a causal, non-parental link from this span to another.
func (s *Span) FollowsFrom(other ID) {
	if s.Disabled() || !other.Valid() {
		return
	}

	s.collector.RecordFollowsFrom(s.id, other)
}

// Clone returns a new handle to the same span, adding a collector
// reference.  The clone must be Ended independently; the span closes only
// after every handle has ended.  Useful for spans that outlive the goroutine
// that created them.
func (s *Span) Clone() *Span {
	if s.Disabled() {
		return s
	}

	return &Span{
		id:        s.collector.CloneSpan(s.id),
		meta:      s.meta,
		collector: s.collector,
	}
}

// End exits the span (if this handle entered it) and drops this handle's
// reference.  End is idempotent; only the first call has any effect.
func (s *Span) End() {
	if s.Disabled() {
		return
	}

	if atomic.CompareAndSwapUint32(&s.state, 0, 1) {
		if s.entered {
			s.collector.Exit(s.id)
		}

		s.collector.TryClose(s.id)
	}
}

// Instrument runs fn inside a span named name.  Any error returned by fn is
// recorded on the span before it ends.
func Instrument(ctx context.Context, name string, fn func(context.Context) error, opts ...SpanOption) error {
	ctx, span := StartSpan(ctx, name, opts...)
	defer span.End()

	err := fn(ctx)
	span.RecordError(err)
	return err
}

type spanContextKey struct{}

// ContextWithSpan returns a context carrying the given span.  StartSpan does
// this automatically; this function is for handles that crossed goroutine
// boundaries via Clone.
func ContextWithSpan(ctx context.Context, s *Span) context.Context {
	return context.WithValue(ctx, spanContextKey{}, s)
}

// SpanFromContext returns the span carried by the context, or nil.
func SpanFromContext(ctx context.Context) *Span {
	if ctx == nil {
		return nil
	}

	s, _ := ctx.Value(spanContextKey{}).(*Span)
	return s
}
