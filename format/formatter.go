// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"io"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/xmidt-org/tracekit/tracing"
)

// ScopeEntry is one span in an event's scope, root first, with the fields
// recorded on that span so far.
type ScopeEntry struct {
	Name string

	// Fields is an alternating key/value list in recording order.
	Fields []interface{}
}

// Line is a fully assembled event ready for encoding.
type Line struct {
	Time    time.Time
	Level   tracing.Level
	Target  string
	Caller  string
	Message string

	// Scope lists the spans enclosing the event, root first.
	Scope []ScopeEntry

	// Fields is the event's own alternating key/value list.
	Fields []interface{}
}

// SpanPath renders the scope as a colon-delimited path, root to leaf.
func (l *Line) SpanPath() string {
	if len(l.Scope) == 0 {
		return ""
	}

	names := make([]string, 0, len(l.Scope))
	for _, entry := range l.Scope {
		names = append(names, entry.Name)
	}

	return strings.Join(names, ":")
}

// Formatter encodes one assembled line to a writer.  Implementations must
// issue at most one Write per line, so lines from concurrent goroutines do
// not interleave.
type Formatter interface {
	FormatEvent(w io.Writer, l *Line) error
}

// keyvals flattens a line into go-kit key/value pairs.  Scope fields come
// after event fields, root first, so with map-based encoders the leaf span
// wins key collisions.
func (l *Line) keyvals() []interface{} {
	keyvals := make([]interface{}, 0, 10+len(l.Fields))
	keyvals = append(keyvals,
		"ts", l.Time,
		"level", strings.ToLower(l.Level.String()),
	)

	if len(l.Target) > 0 {
		keyvals = append(keyvals, "target", l.Target)
	}

	if len(l.Caller) > 0 {
		keyvals = append(keyvals, "caller", l.Caller)
	}

	if span := l.SpanPath(); len(span) > 0 {
		keyvals = append(keyvals, "span", span)
	}

	keyvals = append(keyvals, "msg", l.Message)
	keyvals = append(keyvals, l.Fields...)

	for _, entry := range l.Scope {
		keyvals = append(keyvals, entry.Fields...)
	}

	return keyvals
}

// Logfmt encodes lines in logfmt.
type Logfmt struct{}

func (Logfmt) FormatEvent(w io.Writer, l *Line) error {
	return log.NewLogfmtLogger(w).Log(l.keyvals()...)
}

// JSON encodes lines as single-line JSON objects.
type JSON struct{}

func (JSON) FormatEvent(w io.Writer, l *Line) error {
	return log.NewJSONLogger(w).Log(l.keyvals()...)
}
