package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// scopeCollector is a mockCollector that can also enumerate span scopes.
type scopeCollector struct {
	mockCollector
	scope []*Metadata
}

func (s *scopeCollector) SpanScope(ID) []*Metadata {
	return s.scope
}

func TestCaptureErrorNil(t *testing.T) {
	assert.Nil(t, CaptureError(context.Background(), nil))
}

func TestCaptureErrorNoSpan(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		cause   = errors.New("boom")
	)

	err := CaptureError(context.Background(), cause)
	require.Error(err)

	var se *SpanError
	require.ErrorAs(err, &se)
	assert.Empty(se.Spans())
	assert.Equal(cause, errors.Unwrap(err))
	assert.Equal("boom", err.Error())
}

func TestCaptureErrorWithScope(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		m       = new(scopeCollector)
		cause   = errors.New("boom")
	)

	m.scope = []*Metadata{
		{Name: "leaf"},
		{Name: "root"},
	}

	m.On("Enabled", mock.Anything).Return(true)
	m.On("NewSpan", mock.Anything).Return(ID(1))
	m.On("Enter", ID(1))
	m.On("Exit", ID(1))
	m.On("TryClose", ID(1)).Return(true)

	ctx := WithCollector(context.Background(), m)
	spanCtx, span := StartSpan(ctx, "leaf")
	defer span.End()

	err := CaptureError(spanCtx, cause)
	require.Error(err)

	var se *SpanError
	require.ErrorAs(err, &se)
	assert.Len(se.Spans(), 2)
	assert.Equal("boom (in leaf: root)", err.Error())
	assert.True(errors.Is(err, cause))
}

func TestCaptureErrorFallback(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
		m       = new(mockCollector)
	)

	m.On("Enabled", mock.Anything).Return(true)
	m.On("NewSpan", mock.Anything).Return(ID(1))
	m.On("Enter", ID(1))
	m.On("Exit", ID(1))
	m.On("TryClose", ID(1)).Return(true)

	ctx := WithCollector(context.Background(), m)
	spanCtx, span := StartSpan(ctx, "only")
	defer span.End()

	// a collector with no scope support still captures the contextual span
	err := CaptureError(spanCtx, errors.New("boom"))

	var se *SpanError
	require.ErrorAs(err, &se)
	assert.Len(se.Spans(), 1)
	assert.Equal("only", se.Spans()[0].Name)
}
