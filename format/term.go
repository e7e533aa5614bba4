// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xmidt-org/tracekit/tracing"
)

const (
	ansiRed    = 31
	ansiGreen  = 32
	ansiYellow = 33
	ansiBlue   = 34
	ansiGray   = 37
)

// Term is a human-oriented colorized encoder for interactive terminals.
type Term struct {
	// DisableColors suppresses ANSI color sequences.
	DisableColors bool

	// DisableLevelTruncation prints the full level name instead of the
	// four-character prefix.
	DisableLevelTruncation bool

	// TimestampFormat overrides the time layout.  Defaults to time.Kitchen
	// style "15:04:05.000".
	TimestampFormat string
}

func levelColor(l tracing.Level) int {
	switch l {
	case tracing.LevelTrace:
		return ansiGray
	case tracing.LevelDebug:
		return ansiBlue
	case tracing.LevelInfo:
		return ansiGreen
	case tracing.LevelWarn:
		return ansiYellow
	default:
		return ansiRed
	}
}

func (t Term) colorize(color int, text string) string {
	if t.DisableColors {
		return text
	}

	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", color, text)
}

func (t Term) levelText(l tracing.Level) string {
	text := l.String()
	if !t.DisableLevelTruncation && len(text) > 4 {
		text = text[:4]
	}

	return t.colorize(levelColor(l), text)
}

func fieldPairs(keyvals []interface{}) []string {
	pairs := make([]string, 0, len(keyvals)/2)
	for i := 0; i+1 < len(keyvals); i += 2 {
		pairs = append(pairs, fmt.Sprintf("%v=%v", keyvals[i], keyvals[i+1]))
	}

	return pairs
}

func (t Term) FormatEvent(w io.Writer, l *Line) error {
	layout := t.TimestampFormat
	if len(layout) == 0 {
		layout = "15:04:05.000"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %s ", l.Time.Format(layout), t.levelText(l.Level))

	// scope rendered as name{fields}: segments, root to leaf
	for _, entry := range l.Scope {
		buf.WriteString(t.colorize(ansiGray, entry.Name))
		if pairs := fieldPairs(entry.Fields); len(pairs) > 0 {
			buf.WriteByte('{')
			for i, pair := range pairs {
				if i > 0 {
					buf.WriteByte(' ')
				}

				buf.WriteString(pair)
			}
			buf.WriteByte('}')
		}
		buf.WriteByte(':')
	}

	if len(l.Scope) > 0 {
		buf.WriteByte(' ')
	}

	if len(l.Target) > 0 {
		fmt.Fprintf(&buf, "%s: ", t.colorize(ansiGray, l.Target))
	}

	buf.WriteString(l.Message)

	for _, pair := range fieldPairs(l.Fields) {
		buf.WriteByte(' ')
		buf.WriteString(pair)
	}

	if len(l.Caller) > 0 {
		fmt.Fprintf(&buf, " %s", t.colorize(ansiGray, l.Caller))
	}

	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}
