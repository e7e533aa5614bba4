// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"runtime"
	"strings"
)

// Kind distinguishes the two flavors of instrumentation point.
type Kind uint8

const (
	KindEvent Kind = iota
	KindSpan
)

func (k Kind) String() string {
	if k == KindSpan {
		return "span"
	}

	return "event"
}

// Metadata describes an instrumentation point: a location in code that
// produces spans or events.  Metadata instances are expected to be allocated
// once and shared; collectors may use pointer identity to cache decisions
// about a given instrumentation point.
type Metadata struct {
	// Name is the name of the span, or a synthesized name for events.
	Name string

	// Target categorizes the part of the system where the span or event
	// occurred, typically the import path of the instrumented package.
	Target string

	// Level is the verbosity level of this instrumentation point.
	Level Level

	// Kind indicates whether this metadata describes a span or an event.
	Kind Kind

	// FieldNames lists the field keys this instrumentation point is known to
	// record, when declared ahead of time via a Callsite.  May be empty.
	FieldNames []string

	// File and Line identify the source location, when known.
	File string
	Line int
}

// HasField tests whether name appears in FieldNames.
func (m *Metadata) HasField(name string) bool {
	for _, f := range m.FieldNames {
		if f == name {
			return true
		}
	}

	return false
}

// callerTarget derives a Target and source location from the caller's stack.
// Used when instrumentation does not declare a Callsite ahead of time.
func callerTarget(skip int) (target, file string, line int) {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown", "", 0
	}

	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown", file, line
	}

	// a function name looks like "github.com/org/repo/pkg.Func" or
	// "github.com/org/repo/pkg.(*Type).Method"
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		if j := strings.Index(name[i:], "."); j >= 0 {
			return name[:i+j], file, line
		}
	} else if j := strings.Index(name, "."); j >= 0 {
		return name[:j], file, line
	}

	return name, file, line
}
