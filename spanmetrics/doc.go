// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package spanmetrics exports trace activity as Prometheus metrics: span
durations, event counts, and ad hoc counters and gauges driven by
specially named fields.
*/
package spanmetrics
