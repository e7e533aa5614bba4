// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package flame

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/xmidt-org/tracekit/clock"
	"github.com/xmidt-org/tracekit/layer"
	"github.com/xmidt-org/tracekit/tracing"
)

// RootFrame anchors every folded stack, so samples from unrelated span
// trees aggregate under one flamegraph root.
const RootFrame = "all"

// Option configures the flame layer.
type Option func(*flameLayer)

// WithClock overrides the time source, primarily for tests.
func WithClock(c clock.Interface) Option {
	return func(fl *flameLayer) {
		fl.clock = c
	}
}

// New produces a layer that writes one folded stack sample per closed span,
// weighted by the span's busy time in microseconds.
func New(w io.Writer, opts ...Option) layer.Layer {
	fl := &flameLayer{
		w:     w,
		clock: clock.System(),
	}

	for _, opt := range opts {
		opt(fl)
	}

	return fl
}

type flameLayer struct {
	layer.Base

	clock clock.Interface

	lock sync.Mutex
	w    io.Writer
}

type timingKey struct{}

// spanTiming tracks busy time across enter/exit transitions.
type spanTiming struct {
	lock    sync.Mutex
	entered time.Time
	busy    time.Duration
}

func (st *spanTiming) enter(now time.Time) {
	st.lock.Lock()
	st.entered = now
	st.lock.Unlock()
}

func (st *spanTiming) exit(now time.Time) {
	st.lock.Lock()
	if !st.entered.IsZero() {
		st.busy += now.Sub(st.entered)
		st.entered = time.Time{}
	}
	st.lock.Unlock()
}

func (st *spanTiming) total(now time.Time) time.Duration {
	st.lock.Lock()
	defer st.lock.Unlock()

	if !st.entered.IsZero() {
		st.busy += now.Sub(st.entered)
		st.entered = time.Time{}
	}

	return st.busy
}

func (fl *flameLayer) OnNewSpan(attrs *tracing.Attributes, id tracing.ID, ctx layer.Context) {
	if data := ctx.Span(id); data != nil {
		data.Extensions().Set(timingKey{}, new(spanTiming))
	}
}

func (fl *flameLayer) OnEnter(id tracing.ID, ctx layer.Context) {
	if st := timingOf(ctx, id); st != nil {
		st.enter(fl.clock.Now())
	}
}

func (fl *flameLayer) OnExit(id tracing.ID, ctx layer.Context) {
	if st := timingOf(ctx, id); st != nil {
		st.exit(fl.clock.Now())
	}
}

func (fl *flameLayer) OnClose(id tracing.ID, ctx layer.Context) {
	data := ctx.Span(id)
	if data == nil {
		return
	}

	st := timingOf(ctx, id)
	if st == nil {
		return
	}

	busy := st.total(fl.clock.Now())

	frames := make([]string, 0, 4)
	frames = append(frames, RootFrame)
	for _, span := range data.ScopeFromRoot() {
		frames = append(frames, sanitizeFrame(span.Name()))
	}

	fl.lock.Lock()
	defer fl.lock.Unlock()
	fmt.Fprintf(fl.w, "%s %d\n", strings.Join(frames, ";"), busy.Microseconds())
}

func timingOf(ctx layer.Context, id tracing.ID) *spanTiming {
	data := ctx.Span(id)
	if data == nil {
		return nil
	}

	st, _ := data.Extensions().Get(timingKey{}).(*spanTiming)
	return st
}

// sanitizeFrame strips the characters the folded format reserves.
var frameSanitizer = strings.NewReplacer(";", "_", " ", "_", "\n", "_")

func sanitizeFrame(name string) string {
	return frameSanitizer.Replace(name)
}
