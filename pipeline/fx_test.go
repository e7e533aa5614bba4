package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/tracekit/appender"
	"github.com/xmidt-org/tracekit/tracing"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestProvide(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		collector tracing.Collector
		guard     *appender.Guard
	)

	app := fxtest.New(t,
		fx.Supply(&Options{
			File:        filepath.Join(t.TempDir(), "trace.log"),
			NonBlocking: true,
		}),
		Provide(),
		fx.Populate(&collector, &guard),
	)

	app.RequireStart()
	require.NotNil(collector)
	require.NotNil(guard)

	// the stop hook already drained the worker, so Stop remains a noop
	app.RequireStop()
	assert.True(guard.Stop())
}

func TestProvideFromViper(t *testing.T) {
	var (
		require = require.New(t)

		collector tracing.Collector
	)

	v := readConfig(t, `{"tracing": {"level": "info"}}`)

	app := fxtest.New(t,
		fx.Supply(v),
		ProvideFromViper(),
		fx.Populate(&collector),
	)

	app.RequireStart()
	require.NotNil(collector)
	app.RequireStop()
}
