// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"fmt"
	"path/filepath"
)

// LogEvent dispatches an event at the given level through the context's
// collector.  The event's parent is the contextual span, if any.
func LogEvent(ctx context.Context, level Level, message string, fields ...Field) {
	logEvent(ctx, level, message, fields, 1)
}

func Trace(ctx context.Context, message string, fields ...Field) {
	logEvent(ctx, LevelTrace, message, fields, 1)
}

func Debug(ctx context.Context, message string, fields ...Field) {
	logEvent(ctx, LevelDebug, message, fields, 1)
}

func Info(ctx context.Context, message string, fields ...Field) {
	logEvent(ctx, LevelInfo, message, fields, 1)
}

func Warn(ctx context.Context, message string, fields ...Field) {
	logEvent(ctx, LevelWarn, message, fields, 1)
}

func Error(ctx context.Context, message string, fields ...Field) {
	logEvent(ctx, LevelError, message, fields, 1)
}

func logEvent(ctx context.Context, level Level, message string, fields []Field, skip int) {
	collector := CollectorFrom(ctx)
	parent := contextualParent(ctx)
	target, file, line := callerTarget(skip + 1)

	meta := &Metadata{
		Name:   eventName(file, line),
		Target: target,
		Level:  level,
		Kind:   KindEvent,
		File:   file,
		Line:   line,
	}

	if !enabledFor(collector, meta, parent) {
		return
	}

	collector.Event(&Event{
		Metadata: meta,
		Parent:   parent,
		Message:  message,
		Fields:   fields,
	})
}

// EventAt dispatches an event through a pre-registered Callsite, skipping
// per-hit metadata construction and using the callsite's cached interest.
func EventAt(ctx context.Context, cs *Callsite, message string, fields ...Field) {
	collector := CollectorFrom(ctx)
	parent := contextualParent(ctx)
	if !cs.enabledFor(collector, parent) {
		return
	}

	collector.Event(&Event{
		Metadata: cs.Metadata(),
		Parent:   parent,
		Message:  message,
		Fields:   fields,
	})
}

func contextualParent(ctx context.Context) ID {
	if span := SpanFromContext(ctx); span != nil {
		return span.ID()
	}

	return 0
}

func eventName(file string, line int) string {
	if len(file) == 0 {
		return "event"
	}

	return fmt.Sprintf("event %s:%d", filepath.Base(file), line)
}
