// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package appender

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestSizeRolling(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		file = filepath.Join(t.TempDir(), "app.log")
		w    = SizeRolling(SizeOptions{
			File:       file,
			MaxSize:    10,
			MaxAge:     3,
			MaxBackups: 5,
			Compress:   true,
		})
	)

	lj, ok := w.(*lumberjack.Logger)
	require.True(ok)
	assert.Equal(file, lj.Filename)
	assert.Equal(10, lj.MaxSize)
	assert.Equal(3, lj.MaxAge)
	assert.Equal(5, lj.MaxBackups)
	assert.True(lj.Compress)

	_, err := w.Write([]byte("captured\n"))
	require.NoError(err)
	require.NoError(w.Close())

	contents, err := os.ReadFile(file)
	require.NoError(err)
	assert.Equal("captured\n", string(contents))
}

type failWriter struct {
	err error
}

func (f failWriter) Write([]byte) (int, error) {
	return 0, f.err
}

func TestTee(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		first  bytes.Buffer
		second bytes.Buffer

		w = Tee(&first, &second)
	)

	n, err := w.Write([]byte("both\n"))
	require.NoError(err)
	assert.Equal(5, n)
	assert.Equal("both\n", first.String())
	assert.Equal("both\n", second.String())
}

func TestTeeContinuesPastErrors(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		expected   = errors.New("expected")
		unexpected = errors.New("should not be returned")
		survivor   bytes.Buffer

		w = Tee(failWriter{expected}, &survivor, failWriter{unexpected})
	)

	_, err := w.Write([]byte("line\n"))
	require.Error(err)
	assert.ErrorIs(err, expected)
	assert.Equal("line\n", survivor.String())
}

func TestTeeEmpty(t *testing.T) {
	assert := assert.New(t)

	n, err := io.Writer(Tee()).Write([]byte("nowhere"))
	assert.NoError(err)
	assert.Equal(7, n)
}
