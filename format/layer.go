// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/xmidt-org/tracekit/clock"
	"github.com/xmidt-org/tracekit/layer"
	"github.com/xmidt-org/tracekit/registry"
	"github.com/xmidt-org/tracekit/tracing"
)

// Option configures the formatting layer.
type Option func(*formatLayer)

// WithWriter sends all output to the given writer.  The writer must be safe
// for concurrent use.
func WithWriter(w io.Writer) Option {
	return func(fl *formatLayer) {
		fl.makeWriter = StaticWriter(w)
	}
}

// WithMakeWriter installs a per-line writer chooser, for severity routing.
func WithMakeWriter(mw MakeWriter) Option {
	return func(fl *formatLayer) {
		fl.makeWriter = mw
	}
}

// WithFormatter selects the output encoding.
func WithFormatter(f Formatter) Option {
	return func(fl *formatLayer) {
		fl.formatter = f
	}
}

// WithTimings enables per-span busy and idle accounting, emitted as a close
// line when each span ends.
func WithTimings() Option {
	return func(fl *formatLayer) {
		fl.timings = true
	}
}

// WithClock overrides the time source, primarily for tests.
func WithClock(c clock.Interface) Option {
	return func(fl *formatLayer) {
		fl.clock = c
	}
}

// WithTarget toggles emission of the target. Targets are emitted by default.
func WithTarget(enabled bool) Option {
	return func(fl *formatLayer) {
		fl.target = enabled
	}
}

// WithCaller enables emission of the file:line of each event.
func WithCaller() Option {
	return func(fl *formatLayer) {
		fl.caller = true
	}
}

// New produces a layer that renders every enabled event as one output line.
// By default lines are logfmt-encoded to stdout with targets included.
func New(opts ...Option) layer.Layer {
	fl := &formatLayer{
		makeWriter: StaticWriter(os.Stdout),
		formatter:  Logfmt{},
		clock:      clock.System(),
		target:     true,
	}

	for _, opt := range opts {
		opt(fl)
	}

	return fl
}

type formatLayer struct {
	layer.Base

	makeWriter MakeWriter
	formatter  Formatter
	clock      clock.Interface
	timings    bool
	target     bool
	caller     bool
}

type spanStateKey struct{}

// spanState accumulates a span's rendered fields and, when timings are
// enabled, its busy and idle durations.
type spanState struct {
	lock    sync.Mutex
	keyvals []interface{}

	last   time.Time
	inside bool
	busy   time.Duration
	idle   time.Duration
}

func (s *spanState) record(fields []tracing.Field) {
	s.lock.Lock()
	s.keyvals = append(s.keyvals, tracing.Keyvals(fields)...)
	s.lock.Unlock()
}

func (s *spanState) snapshot() []interface{} {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]interface{}(nil), s.keyvals...)
}

// transition accrues elapsed time against the busy or idle bucket and
// records whether the span is now active.
func (s *spanState) transition(now time.Time, inside bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.last.IsZero() {
		if s.inside {
			s.busy += now.Sub(s.last)
		} else {
			s.idle += now.Sub(s.last)
		}
	}

	s.last = now
	s.inside = inside
}

func (s *spanState) totals() (busy, idle time.Duration) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.busy, s.idle
}

func stateOf(data *registry.SpanData) *spanState {
	if data == nil {
		return nil
	}

	state, _ := data.Extensions().Get(spanStateKey{}).(*spanState)
	return state
}

func (fl *formatLayer) OnNewSpan(attrs *tracing.Attributes, id tracing.ID, ctx layer.Context) {
	data := ctx.Span(id)
	if data == nil {
		return
	}

	state := &spanState{keyvals: tracing.Keyvals(attrs.Fields)}
	if fl.timings {
		state.last = fl.clock.Now()
	}

	data.Extensions().Set(spanStateKey{}, state)
}

func (fl *formatLayer) OnRecord(id tracing.ID, r *tracing.Record, ctx layer.Context) {
	if state := stateOf(ctx.Span(id)); state != nil {
		state.record(r.Fields)
	}
}

func (fl *formatLayer) OnEnter(id tracing.ID, ctx layer.Context) {
	if !fl.timings {
		return
	}

	if state := stateOf(ctx.Span(id)); state != nil {
		state.transition(fl.clock.Now(), true)
	}
}

func (fl *formatLayer) OnExit(id tracing.ID, ctx layer.Context) {
	if !fl.timings {
		return
	}

	if state := stateOf(ctx.Span(id)); state != nil {
		state.transition(fl.clock.Now(), false)
	}
}

func (fl *formatLayer) OnEvent(e *tracing.Event, ctx layer.Context) {
	line := fl.newLine(e.Metadata)
	line.Message = e.Message
	line.Fields = tracing.Keyvals(e.Fields)
	line.Scope = scopeEntries(ctx.EventScope(e))

	fl.emit(e.Metadata, line)
}

func (fl *formatLayer) OnClose(id tracing.ID, ctx layer.Context) {
	if !fl.timings {
		return
	}

	data := ctx.Span(id)
	state := stateOf(data)
	if state == nil {
		return
	}

	state.transition(fl.clock.Now(), false)
	busy, idle := state.totals()

	line := fl.newLine(data.Metadata())
	line.Message = "close"
	line.Fields = []interface{}{
		"time.busy", busy.String(),
		"time.idle", idle.String(),
	}
	line.Scope = scopeEntries(data.Scope())

	fl.emit(data.Metadata(), line)
}

func (fl *formatLayer) newLine(meta *tracing.Metadata) *Line {
	line := &Line{
		Time:  fl.clock.Now().UTC(),
		Level: meta.Level,
	}

	if fl.target {
		line.Target = meta.Target
	}

	if fl.caller && len(meta.File) > 0 {
		line.Caller = fmt.Sprintf("%s:%d", meta.File, meta.Line)
	}

	return line
}

// scopeEntries renders a leaf-first scope into root-first entries with each
// span's accumulated fields.
func scopeEntries(scope []*registry.SpanData) []ScopeEntry {
	if len(scope) == 0 {
		return nil
	}

	entries := make([]ScopeEntry, 0, len(scope))
	for i := len(scope) - 1; i >= 0; i-- {
		data := scope[i]
		entry := ScopeEntry{Name: data.Metadata().Name}
		if state := stateOf(data); state != nil {
			entry.Fields = state.snapshot()
		}

		entries = append(entries, entry)
	}

	return entries
}

func (fl *formatLayer) emit(meta *tracing.Metadata, line *Line) {
	// output failures have nowhere to surface from a collector callback
	_ = fl.formatter.FormatEvent(fl.makeWriter(meta), line)
}
