// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"sync"
	"sync/atomic"

	"github.com/xmidt-org/tracekit/tracing"
)

const (
	shardCount = 32
	shardBits  = 5
)

// Registry is a sharded slab of active span data.  The zero value is not
// usable; use New.
type Registry struct {
	shards  [shardCount]shard
	counter atomic.Uint64
}

type shard struct {
	lock  sync.Mutex
	slots []*slot
	free  []uint32
}

type slot struct {
	gen     uint32
	refs    int32
	closing bool
	data    SpanData
}

func New() *Registry {
	return &Registry{}
}

// pack combines a shard-local slot index, shard number, and generation into
// an ID.  The low 32 bits are the global slot index plus one, so that the
// zero ID is never produced; the high 32 bits are the generation.
func pack(localIndex uint32, shard uint32, gen uint32) tracing.ID {
	n := localIndex<<shardBits | shard
	return tracing.ID(uint64(gen)<<32 | uint64(n+1))
}

func unpack(id tracing.ID) (localIndex, shard, gen uint32, ok bool) {
	if !id.Valid() {
		return 0, 0, 0, false
	}

	n := uint32(id) - 1
	return n >> shardBits, n & (shardCount - 1), uint32(uint64(id) >> 32), true
}

// NewSpan allocates a slot for a new span, with one reference held by the
// caller.
func (r *Registry) NewSpan(attrs *tracing.Attributes) tracing.ID {
	shardIndex := uint32(r.counter.Add(1) % shardCount)
	sh := &r.shards[shardIndex]

	sh.lock.Lock()
	defer sh.lock.Unlock()

	var (
		localIndex uint32
		s          *slot
	)

	if n := len(sh.free); n > 0 {
		localIndex = sh.free[n-1]
		sh.free = sh.free[:n-1]
		s = sh.slots[localIndex]
	} else {
		localIndex = uint32(len(sh.slots))
		s = new(slot)
		sh.slots = append(sh.slots, s)
	}

	s.refs = 1
	s.closing = false

	id := pack(localIndex, shardIndex, s.gen)

	// field-by-field reset: the embedded Extensions lock must never be
	// copied over
	s.data.id = id
	s.data.metadata = attrs.Metadata
	s.data.parent = 0
	s.data.registry = r

	if !attrs.IsRoot {
		s.data.parent = attrs.Parent
	}

	return id
}

func (r *Registry) slotFor(id tracing.ID) (*shard, *slot) {
	localIndex, shardIndex, gen, ok := unpack(id)
	if !ok {
		return nil, nil
	}

	sh := &r.shards[shardIndex]
	sh.lock.Lock()
	defer sh.lock.Unlock()

	if localIndex >= uint32(len(sh.slots)) {
		return sh, nil
	}

	s := sh.slots[localIndex]
	if s.gen != gen || s.refs <= 0 {
		return sh, nil
	}

	return sh, s
}

// Get returns the data for a live span, or nil for an invalid, stale, or
// closing ID.  The returned data remains valid as long as the caller holds a
// reference to the span.
func (r *Registry) Get(id tracing.ID) *SpanData {
	_, s := r.slotFor(id)
	if s == nil || s.closing {
		return nil
	}

	return &s.data
}

// Clone adds a reference to a live span.  Cloning a stale ID is a no-op.
func (r *Registry) Clone(id tracing.ID) tracing.ID {
	localIndex, shardIndex, gen, ok := unpack(id)
	if !ok {
		return id
	}

	sh := &r.shards[shardIndex]
	sh.lock.Lock()
	defer sh.lock.Unlock()

	if localIndex < uint32(len(sh.slots)) {
		if s := sh.slots[localIndex]; s.gen == gen && s.refs > 0 && !s.closing {
			s.refs++
		}
	}

	return id
}

// Release drops a reference to the span.  When the last reference is
// dropped, Release marks the span closing and returns its data with true;
// the caller must invoke any close observers and then call Free.  The
// closing span is invisible to Get, so observers cannot resurrect it.
func (r *Registry) Release(id tracing.ID) (*SpanData, bool) {
	localIndex, shardIndex, gen, ok := unpack(id)
	if !ok {
		return nil, false
	}

	sh := &r.shards[shardIndex]
	sh.lock.Lock()
	defer sh.lock.Unlock()

	if localIndex >= uint32(len(sh.slots)) {
		return nil, false
	}

	s := sh.slots[localIndex]
	if s.gen != gen || s.refs <= 0 {
		return nil, false
	}

	s.refs--
	if s.refs > 0 {
		return nil, false
	}

	s.closing = true
	return &s.data, true
}

// Free returns a closing span's slot to the free list and bumps its
// generation, invalidating every outstanding ID for it.
func (r *Registry) Free(id tracing.ID) {
	localIndex, shardIndex, gen, ok := unpack(id)
	if !ok {
		return
	}

	sh := &r.shards[shardIndex]
	sh.lock.Lock()
	defer sh.lock.Unlock()

	if localIndex >= uint32(len(sh.slots)) {
		return
	}

	s := sh.slots[localIndex]
	if s.gen != gen || !s.closing {
		return
	}

	s.data.extensions.clear()
	s.data.id = 0
	s.data.metadata = nil
	s.data.parent = 0
	s.refs = 0
	s.closing = false
	s.gen++
	sh.free = append(sh.free, localIndex)
}
