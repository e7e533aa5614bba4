// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrGlobalDefaultSet is returned by SetGlobalDefault when a global default
// collector has already been installed.
var ErrGlobalDefaultSet = errors.New("a global default collector has already been set")

type collectorBox struct {
	collector Collector
}

var globalDefault atomic.Pointer[collectorBox]

func init() {
	globalDefault.Store(&collectorBox{collector: NopCollector{}})
}

var globalDefaultSet atomic.Bool

// SetGlobalDefault installs the process-wide default collector.  It may be
// called at most once; subsequent calls return ErrGlobalDefaultSet.  All
// cached callsite interests are rebuilt against the new collector.
func SetGlobalDefault(c Collector) error {
	if c == nil {
		return errors.New("nil collector")
	}

	if !globalDefaultSet.CompareAndSwap(false, true) {
		return ErrGlobalDefaultSet
	}

	globalDefault.Store(&collectorBox{collector: c})
	RebuildInterest()
	return nil
}

// Default returns the process-wide default collector, which is a
// NopCollector until SetGlobalDefault is called.
func Default() Collector {
	return globalDefault.Load().collector
}

type collectorContextKey struct{}

// WithCollector binds a collector to the context.  Spans and events created
// under the returned context dispatch to c instead of the global default.
func WithCollector(ctx context.Context, c Collector) context.Context {
	return context.WithValue(ctx, collectorContextKey{}, c)
}

// CollectorFrom returns the collector bound to the context, falling back to
// the global default.  A nil context yields the global default.
func CollectorFrom(ctx context.Context) Collector {
	if ctx != nil {
		if c, ok := ctx.Value(collectorContextKey{}).(Collector); ok {
			return c
		}
	}

	return Default()
}
