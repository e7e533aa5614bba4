// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package mocktracing provides collector implementations for tests: a testify
mock and a capture collector that records dispatched data on channels.
*/
package mocktracing

import (
	"github.com/stretchr/testify/mock"
	"github.com/xmidt-org/tracekit/tracing"
)

// Collector is a testify mock for tracing.Collector.
type Collector struct {
	mock.Mock
}

var _ tracing.Collector = (*Collector)(nil)

func New() *Collector {
	return new(Collector)
}

func (m *Collector) RegisterCallsite(meta *tracing.Metadata) tracing.Interest {
	return m.Called(meta).Get(0).(tracing.Interest)
}

func (m *Collector) Enabled(meta *tracing.Metadata) bool {
	return m.Called(meta).Bool(0)
}

func (m *Collector) NewSpan(attrs *tracing.Attributes) tracing.ID {
	return m.Called(attrs).Get(0).(tracing.ID)
}

func (m *Collector) Record(id tracing.ID, r *tracing.Record) {
	m.Called(id, r)
}

func (m *Collector) RecordFollowsFrom(span, follows tracing.ID) {
	m.Called(span, follows)
}

func (m *Collector) Event(e *tracing.Event) {
	m.Called(e)
}

func (m *Collector) Enter(id tracing.ID) {
	m.Called(id)
}

func (m *Collector) Exit(id tracing.ID) {
	m.Called(id)
}

func (m *Collector) CloneSpan(id tracing.ID) tracing.ID {
	return m.Called(id).Get(0).(tracing.ID)
}

func (m *Collector) TryClose(id tracing.ID) bool {
	return m.Called(id).Bool(0)
}
