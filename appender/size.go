// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package appender

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SizeOptions configures size-based rolling.
type SizeOptions struct {
	// File is the path of the active log file.
	File string `json:"file"`

	// MaxSize is the size in megabytes at which the file is rolled.
	MaxSize int `json:"maxsize"`

	// MaxAge is the maximum number of days to retain rolled files.
	MaxAge int `json:"maxage"`

	// MaxBackups is the maximum number of rolled files to retain.
	MaxBackups int `json:"maxbackups"`

	// Compress gzips rolled files.
	Compress bool `json:"compress"`
}

// SizeRolling returns a writer that rolls its file by size rather than by
// time, delegating to lumberjack.
func SizeRolling(o SizeOptions) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   o.File,
		MaxSize:    o.MaxSize,
		MaxAge:     o.MaxAge,
		MaxBackups: o.MaxBackups,
		Compress:   o.Compress,
	}
}

// Tee duplicates writes to every destination.  Each destination receives
// every line even when an earlier one fails; the first error is returned.
func Tee(writers ...io.Writer) io.Writer {
	return teeWriter(writers)
}

type teeWriter []io.Writer

func (t teeWriter) Write(p []byte) (int, error) {
	var firstErr error
	for _, w := range t {
		if _, err := w.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if firstErr != nil {
		return 0, firstErr
	}

	return len(p), nil
}
