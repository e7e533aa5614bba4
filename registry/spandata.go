// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package registry

import "github.com/xmidt-org/tracekit/tracing"

// SpanData is the registry's view of a single span.
type SpanData struct {
	id         tracing.ID
	metadata   *tracing.Metadata
	parent     tracing.ID
	extensions Extensions
	registry   *Registry
}

func (d *SpanData) ID() tracing.ID {
	return d.id
}

func (d *SpanData) Metadata() *tracing.Metadata {
	return d.metadata
}

func (d *SpanData) Name() string {
	if d.metadata == nil {
		return ""
	}

	return d.metadata.Name
}

// Parent returns the parent span's ID, which is zero for root spans.
func (d *SpanData) Parent() tracing.ID {
	return d.parent
}

// ParentSpan resolves the parent's data, or nil for root spans and spans
// whose parent has already closed.
func (d *SpanData) ParentSpan() *SpanData {
	if !d.parent.Valid() {
		return nil
	}

	return d.registry.Get(d.parent)
}

// Extensions accesses this span's layer state.
func (d *SpanData) Extensions() *Extensions {
	return &d.extensions
}

// Scope returns this span and its ancestors, leaf to root.
func (d *SpanData) Scope() []*SpanData {
	var scope []*SpanData
	for s := d; s != nil; s = s.ParentSpan() {
		scope = append(scope, s)
	}

	return scope
}

// ScopeFromRoot returns this span and its ancestors, root to leaf.
func (d *SpanData) ScopeFromRoot() []*SpanData {
	scope := d.Scope()
	for i, j := 0, len(scope)-1; i < j; i, j = i+1, j-1 {
		scope[i], scope[j] = scope[j], scope[i]
	}

	return scope
}
