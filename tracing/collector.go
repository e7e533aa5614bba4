// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

// ID identifies a live span within a Collector.  IDs are opaque; the zero ID
// is never a valid span.  A Collector may reuse an ID once every clone of the
// span it identified has been closed.
type ID uint64

// Valid reports whether this ID could identify a live span.
func (id ID) Valid() bool {
	return id != 0
}

// Attributes is the payload describing a new span.
type Attributes struct {
	// Metadata describes the span's instrumentation point.
	Metadata *Metadata

	// Parent is the explicit parent span, if any.  When zero and IsRoot is
	// false, the span's parent is contextual: whatever span was current when
	// the span was created.
	Parent ID

	// IsRoot forces the span to have no parent even when a contextual
	// parent exists.
	IsRoot bool

	// Fields holds the values recorded at span creation.
	Fields []Field
}

// Record is a set of field values recorded on a span after its creation.
type Record struct {
	Fields []Field
}

// Event describes a momentary occurrence within the context of zero or more
// spans.
type Event struct {
	// Metadata describes the event's instrumentation point.
	Metadata *Metadata

	// Parent identifies the span within which the event occurred, or zero
	// for a root event.
	Parent ID

	// Message is the human-readable text of the event.
	Message string

	// Fields holds the event's structured values.
	Fields []Field
}

// Collector receives trace data: notifications of new spans, recorded
// values, events, and span lifecycle transitions.  Implementations must be
// safe for concurrent use.
//
// Most consumers will not implement Collector directly, but will compose one
// from a registry and a set of layers.
type Collector interface {
	// RegisterCallsite is called once per instrumentation point (and again
	// whenever interest caches are rebuilt) to determine this collector's
	// standing interest in it.
	RegisterCallsite(*Metadata) Interest

	// Enabled determines whether a span or event with the given metadata
	// should be dispatched at all.
	Enabled(*Metadata) bool

	// NewSpan allocates an ID for a new span.  The collector owns one
	// reference to the span until TryClose is called for it.
	NewSpan(*Attributes) ID

	// Record adds field values to an existing span.
	Record(ID, *Record)

	// RecordFollowsFrom notes that the first span follows from the second.
	RecordFollowsFrom(span, follows ID)

	// Event dispatches an event.
	Event(*Event)

	// Enter marks the span as active.
	Enter(ID)

	// Exit marks the span as no longer active.
	Exit(ID)

	// CloneSpan adds a reference to the span, for handles that cross
	// goroutine or ownership boundaries.  The returned ID must be passed to
	// TryClose when the handle is finished.
	CloneSpan(ID) ID

	// TryClose drops a reference to the span, returning true if that was
	// the last reference and the span is now closed.
	TryClose(ID) bool
}

// ContextualEnabler is an optional Collector capability: enablement
// decisions that depend on the enclosing span scope, not just static
// metadata.  StartSpan and the event helpers prefer it over Enabled when the
// collector implements it, passing the contextual parent span.
type ContextualEnabler interface {
	EnabledFor(meta *Metadata, parent ID) bool
}

func enabledFor(c Collector, meta *Metadata, parent ID) bool {
	if ce, ok := c.(ContextualEnabler); ok {
		return ce.EnabledFor(meta, parent)
	}

	return c.Enabled(meta)
}

// NopCollector is a Collector that discards all trace data.
type NopCollector struct{}

func (NopCollector) RegisterCallsite(*Metadata) Interest { return InterestNever }
func (NopCollector) Enabled(*Metadata) bool              { return false }
func (NopCollector) NewSpan(*Attributes) ID              { return 0 }
func (NopCollector) Record(ID, *Record)                  {}
func (NopCollector) RecordFollowsFrom(ID, ID)            {}
func (NopCollector) Event(*Event)                        {}
func (NopCollector) Enter(ID)                            {}
func (NopCollector) Exit(ID)                             {}
func (NopCollector) CloneSpan(id ID) ID                  { return id }
func (NopCollector) TryClose(ID) bool                    { return false }
