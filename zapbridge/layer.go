// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package zapbridge

import (
	"strings"

	"github.com/xmidt-org/sallust"
	"github.com/xmidt-org/tracekit/layer"
	"github.com/xmidt-org/tracekit/registry"
	"github.com/xmidt-org/tracekit/tracing"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLevel maps a tracing level onto zap's scale.  Zap has no TRACE, so
// TRACE collapses into DEBUG.
func zapLevel(l tracing.Level) zapcore.Level {
	switch l {
	case tracing.LevelTrace, tracing.LevelDebug:
		return zapcore.DebugLevel
	case tracing.LevelInfo:
		return zapcore.InfoLevel
	case tracing.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// NewLayer produces a layer rendering every enabled event through the given
// zap logger.  A nil logger uses sallust.Default().
func NewLayer(logger *zap.Logger) layer.Layer {
	if logger == nil {
		logger = sallust.Default()
	}

	return &zapLayer{logger: logger}
}

type zapLayer struct {
	layer.Base
	logger *zap.Logger
}

// RegisterCallsite defers to per-call checks, since the logger's level may
// be changed at runtime through an atomic level.
func (zl *zapLayer) RegisterCallsite(*tracing.Metadata) tracing.Interest {
	return tracing.InterestSometimes
}

func (zl *zapLayer) Enabled(meta *tracing.Metadata, _ layer.Context) bool {
	return zl.logger.Core().Enabled(zapLevel(meta.Level))
}

func (zl *zapLayer) OnEvent(e *tracing.Event, ctx layer.Context) {
	entry := zl.logger.Check(zapLevel(e.Metadata.Level), e.Message)
	if entry == nil {
		return
	}

	fields := make([]zap.Field, 0, len(e.Fields)+2)
	if len(e.Metadata.Target) > 0 {
		fields = append(fields, zap.String("target", e.Metadata.Target))
	}

	scope := ctx.EventScope(e)
	if path := spanPath(scope); len(path) > 0 {
		fields = append(fields, zap.String("span", path))
	}

	for _, f := range e.Fields {
		fields = append(fields, zap.Any(f.Key, f.Value()))
	}

	entry.Write(fields...)
}

// spanPath renders a leaf-first scope as root:child:leaf.
func spanPath(scope []*registry.SpanData) string {
	if len(scope) == 0 {
		return ""
	}

	names := make([]string, 0, len(scope))
	for i := len(scope) - 1; i >= 0; i-- {
		names = append(names, scope[i].Name())
	}

	return strings.Join(names, ":")
}
