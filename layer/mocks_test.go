package layer

import (
	"sync"

	"github.com/xmidt-org/tracekit/tracing"
)

// recordingLayer captures every callback it receives, for assertions about
// fan-out and ordering.
type recordingLayer struct {
	Base

	lock      sync.Mutex
	interest  tracing.Interest
	enabled   bool
	callbacks []string
	events    []*tracing.Event
	closed    []tracing.ID

	// closeScope captures the names visible in the closing span's scope,
	// verifying span data is readable during OnClose.
	closeScope []string
}

func newRecordingLayer() *recordingLayer {
	return &recordingLayer{
		interest: tracing.InterestAlways,
		enabled:  true,
	}
}

func (r *recordingLayer) record(name string) {
	r.lock.Lock()
	r.callbacks = append(r.callbacks, name)
	r.lock.Unlock()
}

func (r *recordingLayer) Callbacks() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]string{}, r.callbacks...)
}

func (r *recordingLayer) RegisterCallsite(*tracing.Metadata) tracing.Interest {
	return r.interest
}

func (r *recordingLayer) Enabled(*tracing.Metadata, Context) bool {
	return r.enabled
}

func (r *recordingLayer) OnNewSpan(attrs *tracing.Attributes, id tracing.ID, ctx Context) {
	r.record("new:" + attrs.Metadata.Name)
}

func (r *recordingLayer) OnRecord(id tracing.ID, rec *tracing.Record, ctx Context) {
	r.record("record")
}

func (r *recordingLayer) OnFollowsFrom(span, follows tracing.ID, ctx Context) {
	r.record("follows")
}

func (r *recordingLayer) OnEvent(e *tracing.Event, ctx Context) {
	r.lock.Lock()
	r.events = append(r.events, e)
	r.lock.Unlock()
	r.record("event:" + e.Message)
}

func (r *recordingLayer) OnEnter(id tracing.ID, ctx Context) {
	r.record("enter")
}

func (r *recordingLayer) OnExit(id tracing.ID, ctx Context) {
	r.record("exit")
}

func (r *recordingLayer) OnClose(id tracing.ID, ctx Context) {
	r.lock.Lock()
	r.closed = append(r.closed, id)
	for _, data := range ctx.Scope(id) {
		r.closeScope = append(r.closeScope, data.Name())
	}
	r.lock.Unlock()

	r.record("close")
}
