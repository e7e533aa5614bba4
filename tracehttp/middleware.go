// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracehttp

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/segmentio/ksuid"
	"github.com/xmidt-org/tracekit/tracing"
)

// TraceIDHeader is the default correlation header.
const TraceIDHeader = "X-Trace-Id"

// DefaultTarget is the target attached to server spans.
const DefaultTarget = "http.server"

// FieldFunc appends key/value pairs derived from a request to the span's
// fields.  Functions of this type must append to the supplied slice and
// return the result.
type FieldFunc func([]tracing.Field, *http.Request) []tracing.Field

// StandardFields appends the request method, URI, protocol, and peer.
func StandardFields(fields []tracing.Field, request *http.Request) []tracing.Field {
	return append(fields,
		tracing.String("method", request.Method),
		tracing.String("uri", request.RequestURI),
		tracing.String("proto", request.Proto),
		tracing.String("remoteAddr", request.RemoteAddr),
	)
}

// SpanNamer chooses the span name for a request.
type SpanNamer func(*http.Request) string

// RouteSpanName names the span after the mux route's path template when the
// request was dispatched by mux, falling back to the method and path.
func RouteSpanName(request *http.Request) string {
	if route := mux.CurrentRoute(request); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			return template
		}
	}

	return request.Method + " " + request.URL.Path
}

// Option configures the middleware.
type Option func(*options)

// WithSpanNamer overrides how server spans are named.
func WithSpanNamer(namer SpanNamer) Option {
	return func(o *options) {
		o.namer = namer
	}
}

// WithHeader overrides the correlation header name.
func WithHeader(header string) Option {
	return func(o *options) {
		o.header = header
	}
}

// WithLevel sets the server span level.
func WithLevel(level tracing.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithFieldFuncs replaces the default StandardFields.
func WithFieldFuncs(ff ...FieldFunc) Option {
	return func(o *options) {
		o.fieldFuncs = ff
	}
}

type options struct {
	namer      SpanNamer
	header     string
	level      tracing.Level
	fieldFuncs []FieldFunc
}

func newOptions(opts []Option) *options {
	o := &options{
		namer:      RouteSpanName,
		header:     TraceIDHeader,
		level:      tracing.LevelInfo,
		fieldFuncs: []FieldFunc{StandardFields},
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Middleware returns a gorilla/mux middleware wrapping each request in a
// server span.  The span, and the collector it was dispatched to, travel in
// the request context for handlers and nested instrumentation.
func Middleware(opts ...Option) mux.MiddlewareFunc {
	o := newOptions(opts)
	return func(next http.Handler) http.Handler {
		return &handler{next: next, options: o}
	}
}

// Constructor adapts the same middleware to a justinas/alice chain.
func Constructor(opts ...Option) alice.Constructor {
	return alice.Constructor(Middleware(opts...))
}

type handler struct {
	next    http.Handler
	options *options
}

func (h *handler) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	o := h.options

	traceID := request.Header.Get(o.header)
	if len(traceID) == 0 {
		traceID = ksuid.New().String()
	}

	response.Header().Set(o.header, traceID)

	var fields []tracing.Field
	for _, ff := range o.fieldFuncs {
		fields = ff(fields, request)
	}

	fields = append(fields, tracing.String("traceId", traceID))

	ctx, span := tracing.StartSpan(request.Context(), o.namer(request),
		tracing.WithTarget(DefaultTarget),
		tracing.WithLevel(o.level),
		tracing.WithFields(fields...),
	)

	defer span.End()

	recorder := NewStatusRecorder(response)
	start := time.Now()
	h.next.ServeHTTP(recorder, request.WithContext(ctx))

	span.Record(
		tracing.Int("status", recorder.Status()),
		tracing.Int64("bytes", recorder.BytesWritten()),
		tracing.Duration("duration", time.Since(start)),
	)
}
