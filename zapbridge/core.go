// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package zapbridge

import (
	"sort"

	"github.com/xmidt-org/tracekit/tracing"
	"go.uber.org/zap/zapcore"
)

// tracingLevel maps a zap level onto the tracing scale.  Everything at
// ERROR and above, including panics and fatals, becomes ERROR.
func tracingLevel(l zapcore.Level) tracing.Level {
	switch l {
	case zapcore.DebugLevel:
		return tracing.LevelDebug
	case zapcore.InfoLevel:
		return tracing.LevelInfo
	case zapcore.WarnLevel:
		return tracing.LevelWarn
	default:
		return tracing.LevelError
	}
}

// CoreOption configures a dispatching core.
type CoreOption func(*dispatchCore)

// WithCollector directs entries to a specific collector instead of the
// global default.
func WithCollector(c tracing.Collector) CoreOption {
	return func(dc *dispatchCore) {
		dc.collector = c
	}
}

// NewCore returns a zapcore.Core that redispatches zap entries as events
// through the global default collector, so code still logging with zap
// flows through the same layers as instrumented code.
func NewCore(enab zapcore.LevelEnabler, opts ...CoreOption) zapcore.Core {
	dc := &dispatchCore{enab: enab}
	for _, opt := range opts {
		opt(dc)
	}

	return dc
}

type dispatchCore struct {
	enab      zapcore.LevelEnabler
	collector tracing.Collector
	fields    []zapcore.Field
}

var _ zapcore.Core = (*dispatchCore)(nil)

func (dc *dispatchCore) Enabled(l zapcore.Level) bool {
	return dc.enab.Enabled(l)
}

func (dc *dispatchCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &dispatchCore{
		enab:      dc.enab,
		collector: dc.collector,
		fields:    append(append([]zapcore.Field(nil), dc.fields...), fields...),
	}

	return clone
}

func (dc *dispatchCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if dc.Enabled(ent.Level) {
		return ce.AddCore(ent, dc)
	}

	return ce
}

func (dc *dispatchCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	collector := dc.collector
	if collector == nil {
		collector = tracing.Default()
	}

	meta := &tracing.Metadata{
		Name:   "event " + ent.Caller.TrimmedPath(),
		Target: ent.LoggerName,
		Level:  tracingLevel(ent.Level),
		Kind:   tracing.KindEvent,
		File:   ent.Caller.File,
		Line:   ent.Caller.Line,
	}

	if !collector.Enabled(meta) {
		return nil
	}

	combined := append(append([]zapcore.Field(nil), dc.fields...), fields...)
	collector.Event(&tracing.Event{
		Metadata: meta,
		Message:  ent.Message,
		Fields:   convertFields(combined),
	})

	return nil
}

func (dc *dispatchCore) Sync() error {
	return nil
}

// convertFields renders zap fields through a map encoder, which handles
// every zap field type without a case explosion.
func convertFields(fields []zapcore.Field) []tracing.Field {
	if len(fields) == 0 {
		return nil
	}

	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for key := range enc.Fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	converted := make([]tracing.Field, 0, len(keys))
	for _, key := range keys {
		converted = append(converted, tracing.Any(key, enc.Fields[key]))
	}

	return converted
}
