package tracehttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/tracekit/tracing"
	"github.com/xmidt-org/tracekit/tracing/mocktracing"
)

func fieldMap(fields []tracing.Field) map[string]interface{} {
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value()
	}

	return m
}

func TestMiddlewareWithMux(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		capture = mocktracing.NewCapture()
	)

	router := mux.NewRouter()
	router.Use(Middleware())
	router.HandleFunc("/devices/{id}", func(response http.ResponseWriter, request *http.Request) {
		// the server span is in scope for handler instrumentation
		assert.NotNil(tracing.SpanFromContext(request.Context()))
		response.WriteHeader(http.StatusCreated)
	})

	request := httptest.NewRequest("GET", "/devices/mac:112233445566", nil)
	request = request.WithContext(tracing.WithCollector(request.Context(), capture))
	response := httptest.NewRecorder()

	router.ServeHTTP(response, request)

	assert.Equal(http.StatusCreated, response.Code)
	assert.NotEmpty(response.Header().Get(TraceIDHeader))

	spans := capture.Spans()
	require.Len(spans, 1)

	span := spans[0]
	assert.Equal("/devices/{id}", span.Metadata.Name)
	assert.Equal(DefaultTarget, span.Metadata.Target)
	assert.True(span.Closed)

	fields := fieldMap(span.Fields)
	assert.Equal("GET", fields["method"])
	assert.Equal("/devices/mac:112233445566", fields["uri"])
	assert.NotEmpty(fields["traceId"])
	assert.Equal(int64(http.StatusCreated), fields["status"])
	assert.Contains(fields, "duration")
}

func TestMiddlewareHonorsIncomingTraceID(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		capture = mocktracing.NewCapture()
	)

	router := mux.NewRouter()
	router.Use(Middleware())
	router.HandleFunc("/", func(http.ResponseWriter, *http.Request) {})

	request := httptest.NewRequest("GET", "/", nil)
	request.Header.Set(TraceIDHeader, "upstream-id")
	request = request.WithContext(tracing.WithCollector(request.Context(), capture))
	response := httptest.NewRecorder()

	router.ServeHTTP(response, request)

	assert.Equal("upstream-id", response.Header().Get(TraceIDHeader))

	spans := capture.Spans()
	require.Len(spans, 1)
	assert.Equal("upstream-id", fieldMap(spans[0].Fields)["traceId"])
}

func TestConstructorWithAlice(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		capture = mocktracing.NewCapture()
	)

	handler := alice.New(Constructor(WithLevel(tracing.LevelDebug))).ThenFunc(
		func(response http.ResponseWriter, request *http.Request) {
			response.WriteHeader(http.StatusNoContent)
		},
	)

	request := httptest.NewRequest("POST", "/ingest", nil)
	request = request.WithContext(tracing.WithCollector(request.Context(), capture))

	handler.ServeHTTP(httptest.NewRecorder(), request)

	spans := capture.Spans()
	require.Len(spans, 1)

	// no mux route, so the name falls back to method and path
	assert.Equal("POST /ingest", spans[0].Metadata.Name)
	assert.Equal(tracing.LevelDebug, spans[0].Metadata.Level)
}

func TestMiddlewareOptions(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		capture = mocktracing.NewCapture()
	)

	middleware := Middleware(
		WithHeader("X-Correlation-Id"),
		WithSpanNamer(func(*http.Request) string { return "fixed" }),
		WithFieldFuncs(func(fields []tracing.Field, request *http.Request) []tracing.Field {
			return append(fields, tracing.String("host", request.Host))
		}),
	)

	handler := middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	request := httptest.NewRequest("GET", "http://example.com/", nil)
	request = request.WithContext(tracing.WithCollector(request.Context(), capture))
	response := httptest.NewRecorder()

	handler.ServeHTTP(response, request)

	assert.NotEmpty(response.Header().Get("X-Correlation-Id"))

	spans := capture.Spans()
	require.Len(spans, 1)
	assert.Equal("fixed", spans[0].Metadata.Name)

	fields := fieldMap(spans[0].Fields)
	assert.Equal("example.com", fields["host"])
	assert.NotContains(fields, "method")
}
