// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package layer

import (
	"sync/atomic"

	"github.com/xmidt-org/tracekit/tracing"
)

type layerBox struct {
	layer Layer
}

// ReloadLayer is a Layer whose inner layer can be atomically swapped at
// runtime through its Handle.
type ReloadLayer struct {
	current atomic.Pointer[layerBox]
}

var _ Layer = (*ReloadLayer)(nil)

// ReloadHandle swaps the layer inside a ReloadLayer.
type ReloadHandle struct {
	target *ReloadLayer
}

// NewReload wraps a layer so it can be replaced at runtime.  Replace
// rebuilds the callsite interest caches, so filters installed through a
// reload take effect even for callsites whose interest was already cached.
func NewReload(initial Layer) (*ReloadLayer, *ReloadHandle) {
	if initial == nil {
		initial = Base{}
	}

	rl := new(ReloadLayer)
	rl.current.Store(&layerBox{layer: initial})
	return rl, &ReloadHandle{target: rl}
}

// Replace installs a new layer and rebuilds callsite interest caches.
func (h *ReloadHandle) Replace(l Layer) {
	if l == nil {
		l = Base{}
	}

	h.target.current.Store(&layerBox{layer: l})
	tracing.RebuildInterest()
}

// Modify derives a replacement from the current layer, then installs it.
func (h *ReloadHandle) Modify(fn func(Layer) Layer) {
	h.Replace(fn(h.target.get()))
}

func (rl *ReloadLayer) get() Layer {
	return rl.current.Load().layer
}

func (rl *ReloadLayer) RegisterCallsite(meta *tracing.Metadata) tracing.Interest {
	return rl.get().RegisterCallsite(meta)
}

func (rl *ReloadLayer) Enabled(meta *tracing.Metadata, ctx Context) bool {
	return rl.get().Enabled(meta, ctx)
}

func (rl *ReloadLayer) OnNewSpan(attrs *tracing.Attributes, id tracing.ID, ctx Context) {
	rl.get().OnNewSpan(attrs, id, ctx)
}

func (rl *ReloadLayer) OnRecord(id tracing.ID, r *tracing.Record, ctx Context) {
	rl.get().OnRecord(id, r, ctx)
}

func (rl *ReloadLayer) OnFollowsFrom(span, follows tracing.ID, ctx Context) {
	rl.get().OnFollowsFrom(span, follows, ctx)
}

func (rl *ReloadLayer) OnEvent(e *tracing.Event, ctx Context) {
	rl.get().OnEvent(e, ctx)
}

func (rl *ReloadLayer) OnEnter(id tracing.ID, ctx Context) {
	rl.get().OnEnter(id, ctx)
}

func (rl *ReloadLayer) OnExit(id tracing.ID, ctx Context) {
	rl.get().OnExit(id, ctx)
}

func (rl *ReloadLayer) OnClose(id tracing.ID, ctx Context) {
	rl.get().OnClose(id, ctx)
}

type filterBox struct {
	filter Filter
}

// ReloadFilter is a Filter whose inner filter can be atomically swapped at
// runtime, for use with WithFilter.
type ReloadFilter struct {
	current atomic.Pointer[filterBox]
}

var _ Filter = (*ReloadFilter)(nil)

// FilterHandle swaps the filter inside a ReloadFilter.
type FilterHandle struct {
	target *ReloadFilter
}

// NewReloadFilter wraps a filter so it can be replaced at runtime.
func NewReloadFilter(initial Filter) (*ReloadFilter, *FilterHandle) {
	if initial == nil {
		initial = FilterFn(func(*tracing.Metadata) bool { return true })
	}

	rf := new(ReloadFilter)
	rf.current.Store(&filterBox{filter: initial})
	return rf, &FilterHandle{target: rf}
}

// Replace installs a new filter and rebuilds callsite interest caches.
func (h *FilterHandle) Replace(f Filter) {
	if f == nil {
		return
	}

	h.target.current.Store(&filterBox{filter: f})
	tracing.RebuildInterest()
}

func (rf *ReloadFilter) get() Filter {
	return rf.current.Load().filter
}

func (rf *ReloadFilter) Enabled(meta *tracing.Metadata, ctx Context) bool {
	return rf.get().Enabled(meta, ctx)
}

func (rf *ReloadFilter) CallsiteEnabled(meta *tracing.Metadata) tracing.Interest {
	return rf.get().CallsiteEnabled(meta)
}

func (rf *ReloadFilter) MaxLevelHint() tracing.LevelFilter {
	return rf.get().MaxLevelHint()
}
