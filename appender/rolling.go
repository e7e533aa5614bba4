// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package appender

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xmidt-org/tracekit/clock"
)

// Rotation is the granularity at which a Rolling writer starts a new file.
type Rotation int

const (
	RotateNever Rotation = iota
	RotateDaily
	RotateHourly
	RotateMinutely
)

// layout returns the date suffix layout for filenames at this granularity.
func (r Rotation) layout() string {
	switch r {
	case RotateMinutely:
		return "2006-01-02-15-04"
	case RotateHourly:
		return "2006-01-02-15"
	case RotateDaily:
		return "2006-01-02"
	default:
		return ""
	}
}

// round truncates t down to the start of the current rotation period.
func (r Rotation) round(t time.Time) time.Time {
	switch r {
	case RotateMinutely:
		return t.Truncate(time.Minute)
	case RotateHourly:
		return t.Truncate(time.Hour)
	case RotateDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	default:
		return time.Time{}
	}
}

// next returns the start of the following rotation period.
func (r Rotation) next(t time.Time) time.Time {
	switch r {
	case RotateMinutely:
		return r.round(t).Add(time.Minute)
	case RotateHourly:
		return r.round(t).Add(time.Hour)
	case RotateDaily:
		return r.round(t).AddDate(0, 0, 1)
	default:
		return time.Time{}
	}
}

// RollingOption configures a Rolling writer.
type RollingOption func(*Rolling)

// WithMaxFiles prunes the oldest matching log files after each rotation,
// keeping at most n.  Zero keeps everything.
func WithMaxFiles(n int) RollingOption {
	return func(r *Rolling) {
		r.maxFiles = n
	}
}

// WithRollingClock overrides the time source, primarily for tests.
func WithRollingClock(c clock.Interface) RollingOption {
	return func(r *Rolling) {
		r.clock = c
	}
}

// Rolling is an io.Writer appending to dated files under a directory,
// starting a new file when the clock crosses a rotation boundary.  It is
// safe for concurrent use.
type Rolling struct {
	directory string
	prefix    string
	rotation  Rotation
	maxFiles  int
	clock     clock.Interface

	lock sync.Mutex
	file *os.File
	next time.Time
}

var _ io.WriteCloser = (*Rolling)(nil)

// NewRolling creates the directory if needed and opens the current file
// eagerly, so misconfiguration surfaces at startup rather than on the first
// write.
func NewRolling(rotation Rotation, directory, prefix string, opts ...RollingOption) (*Rolling, error) {
	if len(prefix) == 0 {
		return nil, fmt.Errorf("appender: a filename prefix is required")
	}

	r := &Rolling{
		directory: directory,
		prefix:    prefix,
		rotation:  rotation,
		clock:     clock.System(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.rotate(r.clock.Now()); err != nil {
		return nil, err
	}

	return r, nil
}

// filename returns the file name for the period beginning at t.
func (r *Rolling) filename(t time.Time) string {
	layout := r.rotation.layout()
	if len(layout) == 0 {
		return filepath.Join(r.directory, r.prefix)
	}

	return filepath.Join(r.directory, fmt.Sprintf("%s.%s", r.prefix, t.Format(layout)))
}

func (r *Rolling) Write(p []byte) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	now := r.clock.Now()
	if r.file == nil || (r.rotation != RotateNever && !now.Before(r.next)) {
		if err := r.rotate(now); err != nil {
			return 0, err
		}
	}

	return r.file.Write(p)
}

// Close closes the current file.  Subsequent writes reopen it.
func (r *Rolling) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.file == nil {
		return nil
	}

	err := r.file.Close()
	r.file = nil
	r.next = time.Time{}
	return err
}

// rotate opens the file for the period containing now, closing any previous
// file and pruning old ones.  The caller must hold the lock, except during
// construction.
func (r *Rolling) rotate(now time.Time) error {
	if err := os.MkdirAll(r.directory, 0o755); err != nil {
		return err
	}

	name := r.filename(r.rotation.round(now))
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	if r.file != nil {
		r.file.Close()
	}

	r.file = file
	r.next = r.rotation.next(now)
	r.prune()
	return nil
}

// prune removes the oldest matching files beyond the maxFiles limit.  Dated
// filenames sort chronologically, so lexical order suffices.
func (r *Rolling) prune() {
	if r.maxFiles <= 0 || r.rotation == RotateNever {
		return
	}

	entries, err := os.ReadDir(r.directory)
	if err != nil {
		return
	}

	var matching []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), r.prefix+".") {
			matching = append(matching, entry.Name())
		}
	}

	if len(matching) <= r.maxFiles {
		return
	}

	sort.Strings(matching)
	for _, name := range matching[:len(matching)-r.maxFiles] {
		os.Remove(filepath.Join(r.directory, name))
	}
}
