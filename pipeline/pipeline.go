// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"github.com/xmidt-org/tracekit/appender"
	"github.com/xmidt-org/tracekit/envfilter"
	"github.com/xmidt-org/tracekit/format"
	"github.com/xmidt-org/tracekit/layer"
	"github.com/xmidt-org/tracekit/registry"
	"github.com/xmidt-org/tracekit/spanmetrics"
	"github.com/xmidt-org/tracekit/tracing"
)

// New assembles a collector from options.  The returned Guard is nil unless
// NonBlocking is set; when present it must be stopped at shutdown or
// buffered output may be lost.
//
// The collector is not installed anywhere.  Pass it to
// tracing.SetGlobalDefault or carry it in contexts with
// tracing.WithCollector.
func New(o *Options) (tracing.Collector, *appender.Guard, error) {
	f, err := o.filter()
	if err != nil {
		return nil, nil, err
	}

	writer := o.output()

	var guard *appender.Guard
	if o.nonBlocking() {
		nb, g := appender.NewNonBlocking(writer, o.appenderOptions()...)
		writer, guard = nb, g
	}

	formatOptions := []format.Option{
		format.WithWriter(writer),
		format.WithFormatter(o.formatter()),
	}

	if o.timings() {
		formatOptions = append(formatOptions, format.WithTimings())
	}

	layers := []layer.Layer{
		f.Layer(),
		layer.WithFilter(format.New(formatOptions...), f),
	}

	if mo := o.metrics(); mo != nil {
		ml, err := spanmetrics.New(mo)
		if err != nil {
			if guard != nil {
				guard.Stop()
			}

			return nil, nil, err
		}

		layers = append(layers, layer.WithFilter(ml, f))
	}

	return layer.NewCollector(registry.New(), layers...), guard, nil
}

// MustNew is New, panicking on invalid options.
func MustNew(o *Options) (tracing.Collector, *appender.Guard) {
	c, guard, err := New(o)
	if err != nil {
		panic(err)
	}

	return c, guard
}

// Filter rebuilds just the directive engine from options, for callers that
// compose their own layer stacks.
func Filter(o *Options) (*envfilter.Filter, error) {
	return o.filter()
}
