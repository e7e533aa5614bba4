// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package envfilter

import (
	"fmt"
	"os"
	"sync"

	"github.com/xmidt-org/tracekit/layer"
	"github.com/xmidt-org/tracekit/registry"
	"github.com/xmidt-org/tracekit/tracing"
)

// DefaultEnv is the environment variable FromEnv consults.
const DefaultEnv = "TRACE_FILTER"

// Filter is a directive-matching filter engine.  It implements layer.Filter
// for gating layers, and exposes a companion Layer which must be installed
// whenever any directive is dynamic, so the filter can observe span fields.
type Filter struct {
	statics  []Directive
	dynamics []Directive
	maxLevel tracing.LevelFilter
}

var _ layer.Filter = (*Filter)(nil)

// New builds a Filter from a comma-separated directive list.  An empty list
// yields a filter enabling only ERROR, matching the conventional default.
// Invalid clauses are dropped; the returned error describes them while the
// returned filter honors the remaining valid clauses.
func New(directives string) (*Filter, error) {
	parsed, err := ParseDirectives(directives)
	f := FromDirectives(parsed)
	return f, err
}

// MustNew is New, panicking on any invalid clause.
func MustNew(directives string) *Filter {
	f, err := New(directives)
	if err != nil {
		panic(err)
	}

	return f
}

// FromEnv builds a Filter from the DefaultEnv environment variable.
func FromEnv() (*Filter, error) {
	return New(os.Getenv(DefaultEnv))
}

// FromDirectives builds a Filter from already-parsed directives.
func FromDirectives(directives []Directive) *Filter {
	if len(directives) == 0 {
		directives = []Directive{{Level: tracing.LevelFilter(tracing.LevelError)}}
	}

	f := &Filter{maxLevel: tracing.LevelOff}
	for _, d := range directives {
		f.add(d)
	}

	return f
}

func (f *Filter) add(d Directive) {
	if d.dynamic() {
		f.dynamics = append(f.dynamics, d)
	} else {
		f.statics = append(f.statics, d)
	}

	if d.Level.MoreVerbose(f.maxLevel) {
		f.maxLevel = d.Level
	}
}

// Add inserts another directive, keeping specificity order.
func (f *Filter) Add(d Directive) {
	f.add(d)
	sortDirectives(f.statics)
	sortDirectives(f.dynamics)
}

// Directives returns every directive in this filter, statics first.
func (f *Filter) Directives() []Directive {
	out := make([]Directive, 0, len(f.statics)+len(f.dynamics))
	out = append(out, f.statics...)
	return append(out, f.dynamics...)
}

// MaxLevelHint returns the most verbose level any directive could enable.
func (f *Filter) MaxLevelHint() tracing.LevelFilter {
	return f.maxLevel
}

// staticLevel returns the level enabled by the most specific static
// directive matching meta, or LevelOff if none match.
func (f *Filter) staticLevel(meta *tracing.Metadata) tracing.LevelFilter {
	level := tracing.LevelOff
	matched := false

	// statics are sorted ascending by specificity, so the last match wins
	for _, d := range f.statics {
		if d.caresAbout(meta) {
			level = d.Level
			matched = true
		}
	}

	if !matched {
		return tracing.LevelOff
	}

	return level
}

// CallsiteEnabled caches Always/Never only when no dynamic directive could
// change the answer for this instrumentation point.
func (f *Filter) CallsiteEnabled(meta *tracing.Metadata) tracing.Interest {
	if !f.maxLevel.Enables(meta.Level) {
		return tracing.InterestNever
	}

	for _, d := range f.dynamics {
		if d.caresAbout(meta) {
			return tracing.InterestSometimes
		}
	}

	if f.staticLevel(meta).Enables(meta.Level) {
		return tracing.InterestAlways
	}

	return tracing.InterestNever
}

// Enabled decides whether a span or event passes the filter.  Static
// directives are consulted first; dynamic directives are consulted against
// the span metadata itself (for spans a dynamic directive wants to watch)
// and against match state accumulated on the spans in scope.
func (f *Filter) Enabled(meta *tracing.Metadata, ctx layer.Context) bool {
	if !f.maxLevel.Enables(meta.Level) {
		return false
	}

	if f.staticLevel(meta).Enables(meta.Level) {
		return true
	}

	if meta.Kind == tracing.KindSpan {
		// spans a dynamic directive watches must be created, so their
		// fields can be observed; the directive's level does not gate the
		// span itself here
		for _, d := range f.dynamics {
			if d.matchesSpan(meta) {
				return true
			}
		}
	}

	// activity inside a span that completed a dynamic match
	for _, data := range ctx.CurrentScope() {
		if level, ok := f.scopeLevel(data); ok && level.Enables(meta.Level) {
			return true
		}
	}

	return false
}

type matchStateKey struct{ f *Filter }

// matchState tracks, per span, the dynamic directives that apply to it and
// which field matches each still needs.
type matchState struct {
	lock      sync.Mutex
	pending   []pendingMatch
	completed tracing.LevelFilter
	done      bool
}

type pendingMatch struct {
	directive Directive
	remaining map[string]string
}

func (f *Filter) scopeLevel(data *registry.SpanData) (tracing.LevelFilter, bool) {
	state, _ := data.Extensions().Get(matchStateKey{f}).(*matchState)
	if state == nil {
		return 0, false
	}

	state.lock.Lock()
	defer state.lock.Unlock()
	return state.completed, state.done
}

// Layer returns the companion layer which observes span creation and
// recorded fields on behalf of dynamic directives.  Install it alongside
// any layer gated by this filter; it also votes on enablement, so it keeps
// the composed collector's global decision aligned with the filter.
func (f *Filter) Layer() layer.Layer {
	return &filterLayer{f: f}
}

type filterLayer struct {
	layer.Base
	f *Filter
}

func (fl *filterLayer) RegisterCallsite(meta *tracing.Metadata) tracing.Interest {
	return fl.f.CallsiteEnabled(meta)
}

func (fl *filterLayer) Enabled(meta *tracing.Metadata, ctx layer.Context) bool {
	return fl.f.Enabled(meta, ctx)
}

func (fl *filterLayer) OnNewSpan(attrs *tracing.Attributes, id tracing.ID, ctx layer.Context) {
	state := fl.f.newMatchState(attrs.Metadata)
	if state == nil {
		return
	}

	state.observe(attrs.Fields)

	data := ctx.Span(id)
	if data == nil {
		return
	}

	data.Extensions().Set(matchStateKey{fl.f}, state)
}

func (fl *filterLayer) OnRecord(id tracing.ID, r *tracing.Record, ctx layer.Context) {
	data := ctx.Span(id)
	if data == nil {
		return
	}

	if state, ok := data.Extensions().Get(matchStateKey{fl.f}).(*matchState); ok {
		state.observe(r.Fields)
	}
}

// newMatchState builds the initial match state for a span, or nil when no
// dynamic directive watches it.
func (f *Filter) newMatchState(meta *tracing.Metadata) *matchState {
	var state *matchState
	for _, d := range f.dynamics {
		if !d.matchesSpan(meta) {
			continue
		}

		if state == nil {
			state = &matchState{completed: tracing.LevelOff}
		}

		if len(d.Fields) == 0 {
			state.complete(d.Level)
			continue
		}

		pending := pendingMatch{
			directive: d,
			remaining: make(map[string]string, len(d.Fields)),
		}

		for _, fm := range d.Fields {
			pending.remaining[fm.Name] = fm.Value
		}

		state.pending = append(state.pending, pending)
	}

	return state
}

func (s *matchState) complete(level tracing.LevelFilter) {
	if !s.done || level.MoreVerbose(s.completed) {
		s.completed = level
	}

	s.done = true
}

// observe consumes recorded fields, completing any pending directive whose
// field matches are all satisfied.
func (s *matchState) observe(fields []tracing.Field) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, field := range fields {
		for i := range s.pending {
			p := &s.pending[i]
			want, interested := p.remaining[field.Key]
			if !interested {
				continue
			}

			if len(want) == 0 || want == fmt.Sprint(field.Value()) {
				delete(p.remaining, field.Key)
				if len(p.remaining) == 0 {
					s.complete(p.directive.Level)
				}
			}
		}
	}
}
