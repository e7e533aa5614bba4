// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package tracing provides the core data model and dispatch machinery for scoped,
structured diagnostics.  The key types in this package are Span, a named period
of execution carrying structured fields, and Event, a momentary occurrence
recorded within the context of zero or more spans.  Both are delivered to a
Collector, which consumers implement (usually by composing layers) to receive
trace data.

Dispatch is contextual: a Collector may be bound to a context.Context via
WithCollector, falling back to a process-wide default installed once with
SetGlobalDefault.  Instrumentation points may be declared ahead of time as
Callsites, which cache the collector's Interest so that disabled
instrumentation costs little more than an atomic load.
*/
package tracing
