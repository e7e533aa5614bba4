// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"fmt"
	"strings"
)

// Level describes the verbosity of a span or event.  Levels are ordered from
// most verbose (LevelTrace) to most severe (LevelError).
type Level int8

const (
	LevelTrace Level = iota + 1
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "TRACE"
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("Level(%d)", int8(l))
	}
}

// ParseLevel parses a level name, case-insensitively.  The numerals "1"
// through "5" are also accepted, with "1" being ERROR and "5" being TRACE.
func ParseLevel(text string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "TRACE", "5":
		return LevelTrace, nil
	case "DEBUG", "4":
		return LevelDebug, nil
	case "INFO", "3":
		return LevelInfo, nil
	case "WARN", "WARNING", "2":
		return LevelWarn, nil
	case "ERROR", "1":
		return LevelError, nil
	default:
		return 0, fmt.Errorf("unrecognized level: %q", text)
	}
}

// LevelFilter is a verbosity floor.  A filter enables every level at or above
// its floor, e.g. LevelFilter(LevelInfo) enables INFO, WARN, and ERROR.
// LevelOff enables nothing.
type LevelFilter int8

const (
	// LevelOff is a LevelFilter that disables all levels.
	LevelOff LevelFilter = LevelFilter(LevelError) + 1
)

// Enables tests whether the given level passes this filter.
func (f LevelFilter) Enables(l Level) bool {
	return LevelFilter(l) >= f
}

// MoreVerbose returns true if f admits strictly more levels than other.
func (f LevelFilter) MoreVerbose(other LevelFilter) bool {
	return f < other
}

func (f LevelFilter) String() string {
	if f == LevelOff {
		return "OFF"
	}

	return Level(f).String()
}

// ParseLevelFilter parses a level filter.  In addition to everything
// ParseLevel accepts, "off" and "0" produce LevelOff.
func ParseLevelFilter(text string) (LevelFilter, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "OFF", "0":
		return LevelOff, nil
	default:
		l, err := ParseLevel(text)
		if err != nil {
			return 0, err
		}

		return LevelFilter(l), nil
	}
}
