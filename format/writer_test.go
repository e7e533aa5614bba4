package format

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xmidt-org/tracekit/tracing"
)

func TestStaticWriter(t *testing.T) {
	assert := assert.New(t)

	var output bytes.Buffer
	mw := StaticWriter(&output)

	assert.Equal(&output, mw(&tracing.Metadata{Level: tracing.LevelInfo}))
	assert.Equal(&output, mw(&tracing.Metadata{Level: tracing.LevelError}))
}

func TestSplitWriter(t *testing.T) {
	assert := assert.New(t)

	var normal, severe bytes.Buffer
	mw := SplitWriter(&normal, &severe, tracing.LevelWarn)

	assert.Equal(&normal, mw(&tracing.Metadata{Level: tracing.LevelTrace}))
	assert.Equal(&normal, mw(&tracing.Metadata{Level: tracing.LevelInfo}))
	assert.Equal(&severe, mw(&tracing.Metadata{Level: tracing.LevelWarn}))
	assert.Equal(&severe, mw(&tracing.Metadata{Level: tracing.LevelError}))
}
