// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"io"
	"os"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/xmidt-org/tracekit/appender"
	"github.com/xmidt-org/tracekit/envfilter"
	"github.com/xmidt-org/tracekit/format"
	"github.com/xmidt-org/tracekit/spanmetrics"
	"github.com/xmidt-org/tracekit/tracing"
)

const (
	// StdoutFile is the File value selecting standard output.
	StdoutFile = "stdout"

	// FormatTerm selects the colorized terminal encoder.
	FormatTerm = "term"

	// FormatFmt selects the logfmt encoder.
	FormatFmt = "fmt"

	// FormatJSON selects the JSON encoder.
	FormatJSON = "json"
)

// Options is the declarative configuration of a collector.  The zero value,
// and a nil *Options, produce a sane terminal pipeline: logfmt to stdout,
// ERROR and above.
type Options struct {
	// File is the system file path for trace output.  If set to "stdout"
	// or left empty, output goes to os.Stdout.  Otherwise the file is
	// size-rolled via lumberjack.
	File string `json:"file"`

	// MaxSize is the lumberjack MaxSize.
	MaxSize int `json:"maxsize"`

	// MaxAge is the lumberjack MaxAge.
	MaxAge int `json:"maxage"`

	// MaxBackups is the lumberjack MaxBackups.
	MaxBackups int `json:"maxbackups"`

	// JSON selects JSON output.  It is shorthand for FormatType "json"
	// and wins when both are set.
	JSON bool `json:"json"`

	// FormatType selects the output style: "term", "fmt", or "json".
	// Anything else, including the empty string, means "fmt".
	FormatType string `json:"formatType"`

	// TermOptions tunes the "term" encoder.
	TermOptions format.Term `json:"termOptions"`

	// Level is the verbosity floor: ERROR, WARN, INFO, DEBUG, or TRACE.
	// Any unrecognized value, including the empty string, is equivalent
	// to ERROR.
	Level string `json:"level"`

	// Filter is a directive list in the target[span{field=value}]=level
	// grammar.  When set it wins over Level.
	Filter string `json:"filter"`

	// NonBlocking decouples instrumented code from the output sink with a
	// buffered worker.  The returned Guard must be stopped at shutdown.
	NonBlocking bool `json:"nonBlocking"`

	// BufferCapacity overrides the non-blocking line buffer size.
	BufferCapacity int `json:"bufferCapacity"`

	// Timings enables per-span busy and idle accounting.
	Timings bool `json:"timings"`

	// FlushTimeout bounds the shutdown drain of the non-blocking worker.
	FlushTimeout time.Duration `json:"flushTimeout"`

	// Metrics, when present, adds a Prometheus span metrics layer.
	Metrics *spanmetrics.Options `json:"metrics"`
}

func (o *Options) output() io.Writer {
	if o != nil && len(o.File) > 0 && o.File != StdoutFile {
		return appender.SizeRolling(appender.SizeOptions{
			File:       o.File,
			MaxSize:    o.MaxSize,
			MaxAge:     o.MaxAge,
			MaxBackups: o.MaxBackups,
		})
	}

	return log.NewSyncWriter(os.Stdout)
}

func (o *Options) formatter() format.Formatter {
	if o == nil {
		return format.Logfmt{}
	}

	if o.JSON {
		return format.JSON{}
	}

	switch o.FormatType {
	case FormatTerm:
		return o.TermOptions
	case FormatJSON:
		return format.JSON{}
	default:
		return format.Logfmt{}
	}
}

// filter builds the directive engine.  An explicit Filter must parse
// cleanly; a Level string falls back to the conventional ERROR default
// when unrecognized.
func (o *Options) filter() (*envfilter.Filter, error) {
	if o != nil && len(o.Filter) > 0 {
		return envfilter.New(o.Filter)
	}

	if o != nil && len(o.Level) > 0 {
		if lf, err := tracing.ParseLevelFilter(o.Level); err == nil {
			return envfilter.FromDirectives([]envfilter.Directive{{Level: lf}}), nil
		}
	}

	return envfilter.FromDirectives(nil), nil
}

func (o *Options) nonBlocking() bool {
	return o != nil && o.NonBlocking
}

func (o *Options) timings() bool {
	return o != nil && o.Timings
}

func (o *Options) metrics() *spanmetrics.Options {
	if o != nil {
		return o.Metrics
	}

	return nil
}

func (o *Options) appenderOptions() []appender.NonBlockingOption {
	var opts []appender.NonBlockingOption
	if o == nil {
		return opts
	}

	if o.BufferCapacity > 0 {
		opts = append(opts, appender.WithBufferedLines(o.BufferCapacity))
	}

	if o.FlushTimeout > 0 {
		opts = append(opts, appender.WithShutdownTimeout(o.FlushTimeout))
	}

	return opts
}
