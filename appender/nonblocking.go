// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package appender

import (
	"bufio"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/xmidt-org/tracekit/clock"
	"github.com/xmidt-org/tracekit/concurrent"
)

const (
	// DefaultBufferedLines is the channel capacity of a NonBlocking writer.
	DefaultBufferedLines = 128000

	// DefaultFlushInterval is how often the worker flushes buffered output.
	DefaultFlushInterval = 100 * time.Millisecond

	// DefaultShutdownTimeout bounds how long Guard.Stop waits for the
	// worker to drain.
	DefaultShutdownTimeout = time.Second
)

// ErrClosed is returned by Write and Flush after the Guard has stopped the
// worker.
var ErrClosed = errors.New("appender: writer is closed")

// NonBlockingOption configures a NonBlocking writer.
type NonBlockingOption func(*NonBlocking)

// WithBlocking makes Write apply backpressure when the buffer is full
// instead of dropping the line.
func WithBlocking() NonBlockingOption {
	return func(nb *NonBlocking) {
		nb.blocking = true
	}
}

// WithBufferedLines sets the number of lines held while the worker catches
// up.  Nonpositive values select the default.
func WithBufferedLines(n int) NonBlockingOption {
	return func(nb *NonBlocking) {
		if n > 0 {
			nb.capacity = n
		}
	}
}

// WithFlushInterval sets the periodic flush cadence.
func WithFlushInterval(d time.Duration) NonBlockingOption {
	return func(nb *NonBlocking) {
		if d > 0 {
			nb.flushInterval = d
		}
	}
}

// WithShutdownTimeout bounds Guard.Stop.
func WithShutdownTimeout(d time.Duration) NonBlockingOption {
	return func(nb *NonBlocking) {
		if d > 0 {
			nb.shutdownTimeout = d
		}
	}
}

// WithWorkerClock overrides the worker's time source, primarily for tests.
func WithWorkerClock(c clock.Interface) NonBlockingOption {
	return func(nb *NonBlocking) {
		nb.clock = c
	}
}

// NonBlocking is an io.Writer whose Write hands each line to a background
// worker over a bounded channel.  By default writes are lossy: when the
// channel is full the line is dropped and counted rather than blocking the
// instrumented goroutine.
type NonBlocking struct {
	dest            io.Writer
	capacity        int
	blocking        bool
	flushInterval   time.Duration
	shutdownTimeout time.Duration
	clock           clock.Interface

	ch       chan []byte
	flushReq chan chan struct{}
	done     chan struct{}
	closed   atomic.Bool
	lost     atomic.Uint64
}

var _ io.Writer = (*NonBlocking)(nil)

// NewNonBlocking starts the worker goroutine and returns the writer along
// with the Guard that must be stopped before process exit, or buffered
// lines may be lost.
func NewNonBlocking(dest io.Writer, opts ...NonBlockingOption) (*NonBlocking, *Guard) {
	nb := &NonBlocking{
		dest:            dest,
		capacity:        DefaultBufferedLines,
		flushInterval:   DefaultFlushInterval,
		shutdownTimeout: DefaultShutdownTimeout,
		clock:           clock.System(),
	}

	for _, opt := range opts {
		opt(nb)
	}

	nb.ch = make(chan []byte, nb.capacity)
	nb.flushReq = make(chan chan struct{})
	nb.done = make(chan struct{})

	waitGroup, shutdown, _ := concurrent.Execute(concurrent.RunnableFunc(nb.run))
	return nb, &Guard{
		nb:        nb,
		waitGroup: waitGroup,
		shutdown:  shutdown,
		timeout:   nb.shutdownTimeout,
	}
}

func (nb *NonBlocking) Write(p []byte) (int, error) {
	if nb.closed.Load() {
		return 0, ErrClosed
	}

	// the worker owns the slice once sent, and callers may reuse p
	line := append([]byte(nil), p...)

	select {
	case nb.ch <- line:
		return len(p), nil
	default:
	}

	if !nb.blocking {
		nb.lost.Add(1)
		return len(p), nil
	}

	select {
	case nb.ch <- line:
		return len(p), nil
	case <-nb.done:
		return 0, ErrClosed
	}
}

// Flush forces buffered output through to the destination, waiting until
// every line written before the call has been handed off.
func (nb *NonBlocking) Flush() error {
	if nb.closed.Load() {
		return ErrClosed
	}

	flushed := make(chan struct{})
	select {
	case nb.flushReq <- flushed:
	case <-nb.done:
		return ErrClosed
	}

	select {
	case <-flushed:
		return nil
	case <-nb.done:
		return ErrClosed
	}
}

// LostLines reports how many lines have been dropped due to a full buffer.
func (nb *NonBlocking) LostLines() uint64 {
	return nb.lost.Load()
}

func (nb *NonBlocking) run(waitGroup *sync.WaitGroup, shutdown <-chan struct{}) error {
	waitGroup.Add(1)
	go func() {
		defer waitGroup.Done()

		ticker := nb.clock.NewTicker(nb.flushInterval)
		defer ticker.Stop()

		buffered := bufio.NewWriter(nb.dest)
		for {
			select {
			case line := <-nb.ch:
				buffered.Write(line)

			case <-ticker.C():
				buffered.Flush()

			case flushed := <-nb.flushReq:
				nb.drain(buffered)
				close(flushed)

			case <-shutdown:
				nb.drain(buffered)
				return
			}
		}
	}()

	return nil
}

// drain consumes everything currently queued and flushes the destination.
func (nb *NonBlocking) drain(buffered *bufio.Writer) {
	for {
		select {
		case line := <-nb.ch:
			buffered.Write(line)
		default:
			buffered.Flush()
			return
		}
	}
}

// Guard owns the worker's shutdown.  Stop is idempotent.
type Guard struct {
	nb        *NonBlocking
	waitGroup *sync.WaitGroup
	shutdown  chan struct{}
	timeout   time.Duration
	once      sync.Once
	drained   bool
}

// Stop rejects further writes, signals the worker to drain, and waits up to
// the configured shutdown timeout.  It reports whether the worker drained
// in time.
func (g *Guard) Stop() bool {
	g.once.Do(func() {
		g.nb.closed.Store(true)
		close(g.nb.done)
		close(g.shutdown)
		g.drained = concurrent.WaitTimeout(g.waitGroup, g.timeout)
	})

	return g.drained
}
