// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"bytes"
	"context"
)

// ScopeLister is an optional Collector capability: collectors backed by a
// span store can report the full scope (leaf to root) of a live span.
// CaptureError uses it to enrich errors with span context.
type ScopeLister interface {
	SpanScope(ID) []*Metadata
}

// SpanError couples an error with the metadata of the spans that were in
// scope when the error was captured, ordered leaf to root.
type SpanError struct {
	Err   error
	Scope []*Metadata
}

// CaptureError wraps err with the span scope active in ctx.  If the
// context's collector cannot enumerate scopes, only the contextual span is
// captured.  A nil err returns nil.
func CaptureError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	se := &SpanError{Err: err}
	span := SpanFromContext(ctx)
	if span == nil || span.Disabled() {
		return se
	}

	if lister, ok := CollectorFrom(ctx).(ScopeLister); ok {
		se.Scope = lister.SpanScope(span.ID())
	}

	if len(se.Scope) == 0 {
		se.Scope = []*Metadata{span.Metadata()}
	}

	return se
}

func (se *SpanError) Error() string {
	var output bytes.Buffer
	output.WriteString(se.Err.Error())

	if len(se.Scope) > 0 {
		output.WriteString(" (in ")
		for i, meta := range se.Scope {
			if i > 0 {
				output.WriteString(": ")
			}

			output.WriteString(meta.Name)
		}

		output.WriteRune(')')
	}

	return output.String()
}

func (se *SpanError) Unwrap() error {
	return se.Err
}

// Spans returns the captured scope metadata, leaf to root.
func (se *SpanError) Spans() []*Metadata {
	return se.Scope
}
