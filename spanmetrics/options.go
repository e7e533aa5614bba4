// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package spanmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xmidt-org/tracekit/clock"
)

const (
	DefaultNamespace = "tracing"
	DefaultSubsystem = "spans"
)

// Options configures the metrics layer.
type Options struct {
	// Namespace is the Prometheus namespace for all emitted metrics.
	// If not supplied, DefaultNamespace is used.
	Namespace string `json:"namespace"`

	// Subsystem is the Prometheus subsystem for all emitted metrics.
	// If not supplied, DefaultSubsystem is used.
	Subsystem string `json:"subsystem"`

	// DurationBuckets overrides the span duration histogram buckets, in
	// seconds.  If not supplied, prometheus.DefBuckets is used.
	DurationBuckets []float64 `json:"durationBuckets"`

	// Registerer receives the emitted metrics.  If not supplied, the
	// Prometheus default registerer is used.
	Registerer prometheus.Registerer `json:"-"`

	// Clock is the time source for span durations, primarily for tests.
	Clock clock.Interface `json:"-"`
}

func (o *Options) namespace() string {
	if o != nil && len(o.Namespace) > 0 {
		return o.Namespace
	}

	return DefaultNamespace
}

func (o *Options) subsystem() string {
	if o != nil && len(o.Subsystem) > 0 {
		return o.Subsystem
	}

	return DefaultSubsystem
}

func (o *Options) durationBuckets() []float64 {
	if o != nil && len(o.DurationBuckets) > 0 {
		return o.DurationBuckets
	}

	return prometheus.DefBuckets
}

func (o *Options) registerer() prometheus.Registerer {
	if o != nil && o.Registerer != nil {
		return o.Registerer
	}

	return prometheus.DefaultRegisterer
}

func (o *Options) clock() clock.Interface {
	if o != nil && o.Clock != nil {
		return o.Clock
	}

	return clock.System()
}
