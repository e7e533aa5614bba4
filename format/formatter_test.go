package format

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/tracekit/tracing"
)

func testLine() *Line {
	return &Line{
		Time:    time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   tracing.LevelInfo,
		Target:  "mypkg",
		Message: "hello",
		Scope: []ScopeEntry{
			{Name: "root", Fields: []interface{}{"kind", "outer"}},
			{Name: "leaf", Fields: []interface{}{"kind", "inner"}},
		},
		Fields: []interface{}{"count", 2},
	}
}

func TestSpanPath(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("root:leaf", testLine().SpanPath())
	assert.Equal("", (&Line{}).SpanPath())
}

func TestLogfmt(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		output bytes.Buffer
	)

	require.NoError(Logfmt{}.FormatEvent(&output, testLine()))

	assert.Equal(
		"ts=2021-01-02T03:04:05Z level=info target=mypkg span=root:leaf msg=hello count=2 kind=outer kind=inner\n",
		output.String(),
	)
}

func TestJSON(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		output bytes.Buffer
	)

	require.NoError(JSON{}.FormatEvent(&output, testLine()))

	var decoded map[string]interface{}
	require.NoError(json.Unmarshal(output.Bytes(), &decoded))

	assert.Equal("info", decoded["level"])
	assert.Equal("mypkg", decoded["target"])
	assert.Equal("root:leaf", decoded["span"])
	assert.Equal("hello", decoded["msg"])
	assert.Equal(float64(2), decoded["count"])

	// the leaf span's fields win key collisions
	assert.Equal("inner", decoded["kind"])
}
