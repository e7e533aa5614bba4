package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/tracekit/format"
	"github.com/xmidt-org/tracekit/tracing"
)

func TestOptionsFormatter(t *testing.T) {
	assert := assert.New(t)

	assert.IsType(format.Logfmt{}, (*Options)(nil).formatter())
	assert.IsType(format.Logfmt{}, (&Options{}).formatter())
	assert.IsType(format.Logfmt{}, (&Options{FormatType: FormatFmt}).formatter())
	assert.IsType(format.Logfmt{}, (&Options{FormatType: "bogus"}).formatter())
	assert.IsType(format.JSON{}, (&Options{FormatType: FormatJSON}).formatter())
	assert.IsType(format.Term{}, (&Options{FormatType: FormatTerm}).formatter())

	// the JSON flag wins over FormatType
	assert.IsType(format.JSON{}, (&Options{JSON: true, FormatType: FormatTerm}).formatter())
}

func TestOptionsFilterDefaults(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	for _, o := range []*Options{nil, {}, {Level: "bogus"}} {
		f, err := o.filter()
		require.NoError(err)
		assert.Equal(tracing.LevelFilter(tracing.LevelError), f.MaxLevelHint())
	}
}

func TestOptionsFilterLevel(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	for _, level := range []string{"debug", "DEBUG", "4"} {
		f, err := (&Options{Level: level}).filter()
		require.NoError(err)
		assert.Equal(tracing.LevelFilter(tracing.LevelDebug), f.MaxLevelHint())
	}

	f, err := (&Options{Level: "off"}).filter()
	require.NoError(err)
	assert.Equal(tracing.LevelOff, f.MaxLevelHint())
}

func TestOptionsFilterWinsOverLevel(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	f, err := (&Options{Level: "error", Filter: "info,mypkg=trace"}).filter()
	require.NoError(err)
	assert.Equal(tracing.LevelFilter(tracing.LevelTrace), f.MaxLevelHint())
}

func TestOptionsFilterInvalid(t *testing.T) {
	_, err := (&Options{Filter: "%bogus%"}).filter()
	assert.Error(t, err)
}
