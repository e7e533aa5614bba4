// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"sync"
	"sync/atomic"
)

// Interest expresses how interested a collector is in a given
// instrumentation point.  Never and Always may be cached by callsites so
// that the collector is not consulted again until the cache is rebuilt.
type Interest uint8

const (
	// InterestNever indicates the collector will never enable this point.
	InterestNever Interest = iota

	// InterestSometimes indicates enablement depends on dynamic state and
	// the collector must be consulted on each hit.
	InterestSometimes

	// InterestAlways indicates the collector always enables this point.
	InterestAlways
)

func (i Interest) String() string {
	switch i {
	case InterestNever:
		return "never"
	case InterestAlways:
		return "always"
	default:
		return "sometimes"
	}
}

// Combine merges two interests, preferring the more permissive.
func (i Interest) Combine(other Interest) Interest {
	if other > i {
		return other
	}

	return i
}

// Callsite is a registered instrumentation point with a cached Interest.
// Callsites are typically declared as package-level variables so that the
// collector's enablement decision is computed once rather than on every hit.
type Callsite struct {
	meta     *Metadata
	interest atomic.Uint32
}

// Metadata returns the metadata this callsite was registered with.
func (c *Callsite) Metadata() *Metadata {
	return c.meta
}

// Interest returns the currently cached interest.
func (c *Callsite) Interest() Interest {
	return Interest(c.interest.Load())
}

// enabledFor resolves the cached interest against the given collector,
// consulting the collector only for InterestSometimes.
func (c *Callsite) enabledFor(collector Collector, parent ID) bool {
	switch c.Interest() {
	case InterestNever:
		return false
	case InterestAlways:
		return true
	default:
		return enabledFor(collector, c.meta, parent)
	}
}

func (c *Callsite) register() {
	c.interest.Store(uint32(Default().RegisterCallsite(c.meta)))
}

var callsiteRegistry = struct {
	lock  sync.Mutex
	sites []*Callsite
}{}

// NewCallsite registers an instrumentation point and caches the current
// default collector's interest in it.  The returned Callsite may be passed
// to StartSpan or EventAt via WithCallsite to skip per-hit metadata
// construction.
func NewCallsite(meta *Metadata) *Callsite {
	c := &Callsite{meta: meta}
	c.register()

	callsiteRegistry.lock.Lock()
	callsiteRegistry.sites = append(callsiteRegistry.sites, c)
	callsiteRegistry.lock.Unlock()

	return c
}

// RebuildInterest invalidates every cached callsite interest and re-queries
// the current default collector.  This must be called whenever the set of
// active filters changes; SetGlobalDefault calls it automatically.
func RebuildInterest() {
	callsiteRegistry.lock.Lock()
	sites := make([]*Callsite, len(callsiteRegistry.sites))
	copy(sites, callsiteRegistry.sites)
	callsiteRegistry.lock.Unlock()

	for _, c := range sites {
		c.register()
	}
}
