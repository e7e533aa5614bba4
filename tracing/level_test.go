package tracing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	testData := []struct {
		text     string
		expected Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"5", LevelTrace},
		{"debug", LevelDebug},
		{"4", LevelDebug},
		{"Info", LevelInfo},
		{"3", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"2", LevelWarn},
		{"error", LevelError},
		{"  ERROR  ", LevelError},
		{"1", LevelError},
	}

	for _, record := range testData {
		t.Run(record.text, func(t *testing.T) {
			assert := assert.New(t)
			actual, err := ParseLevel(record.text)
			assert.NoError(err)
			assert.Equal(record.expected, actual)
		})
	}
}

func TestParseLevelInvalid(t *testing.T) {
	assert := assert.New(t)

	for _, bad := range []string{"", "verbose", "6", "-1", "errorr"} {
		_, err := ParseLevel(bad)
		assert.Error(err, "expected %q to fail", bad)
	}
}

func TestLevelString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("TRACE", LevelTrace.String())
	assert.Equal("DEBUG", LevelDebug.String())
	assert.Equal("INFO", LevelInfo.String())
	assert.Equal("WARN", LevelWarn.String())
	assert.Equal("ERROR", LevelError.String())
}

func TestLevelFilterEnables(t *testing.T) {
	assert := assert.New(t)

	info := LevelFilter(LevelInfo)
	assert.False(info.Enables(LevelTrace))
	assert.False(info.Enables(LevelDebug))
	assert.True(info.Enables(LevelInfo))
	assert.True(info.Enables(LevelWarn))
	assert.True(info.Enables(LevelError))

	assert.False(LevelOff.Enables(LevelError))
	assert.True(LevelFilter(LevelTrace).Enables(LevelTrace))
}

func TestParseLevelFilter(t *testing.T) {
	assert := assert.New(t)

	f, err := ParseLevelFilter("off")
	assert.NoError(err)
	assert.Equal(LevelOff, f)

	f, err = ParseLevelFilter("0")
	assert.NoError(err)
	assert.Equal(LevelOff, f)

	f, err = ParseLevelFilter("debug")
	assert.NoError(err)
	assert.Equal(LevelFilter(LevelDebug), f)

	_, err = ParseLevelFilter("nope")
	assert.Error(err)
}

func TestLevelFilterMoreVerbose(t *testing.T) {
	assert := assert.New(t)

	assert.True(LevelFilter(LevelTrace).MoreVerbose(LevelFilter(LevelInfo)))
	assert.False(LevelOff.MoreVerbose(LevelFilter(LevelError)))
}
