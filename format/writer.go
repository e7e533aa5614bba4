// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"io"
	"os"

	"github.com/xmidt-org/tracekit/tracing"
)

// MakeWriter chooses the destination for a line based on its metadata,
// allowing severity-based routing.  It is consulted once per emitted line.
type MakeWriter func(*tracing.Metadata) io.Writer

// StaticWriter sends every line to the same writer.
func StaticWriter(w io.Writer) MakeWriter {
	return func(*tracing.Metadata) io.Writer {
		return w
	}
}

// SplitWriter routes lines at or above the given level to severe and the
// rest to normal.
func SplitWriter(normal, severe io.Writer, threshold tracing.Level) MakeWriter {
	return func(meta *tracing.Metadata) io.Writer {
		if tracing.LevelFilter(threshold).Enables(meta.Level) {
			return severe
		}

		return normal
	}
}

// StandardWriter routes WARN and ERROR lines to stderr and everything else
// to stdout.
func StandardWriter() MakeWriter {
	return SplitWriter(os.Stdout, os.Stderr, tracing.LevelWarn)
}
